package biometric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepRows(w, h, split int, left, right uint8) [][]uint8 {
	rows := make([][]uint8, h)
	for y := range rows {
		rows[y] = make([]uint8, w)
		for x := range rows[y] {
			if x < split {
				rows[y][x] = left
			} else {
				rows[y][x] = right
			}
		}
	}
	return rows
}

func TestCannyFlatImageHasNoEdges(t *testing.T) {
	edges := canny(grayFromRows(stepRows(20, 20, 0, 90, 90)), 100, 200)
	assert.Zero(t, meanOf(edges))
}

func TestCannyStrongStepIsThinned(t *testing.T) {
	const w, h = 20, 20
	edges := canny(grayFromRows(stepRows(w, h, 10, 0, 255)), 100, 200)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := uint8(0)
			if x == 9 {
				want = 255
			}
			assert.Equal(t, want, edges[y*w+x], "pixel (%d,%d)", x, y)
		}
	}
	assert.InDelta(t, 255.0*h/(w*h), meanOf(edges), 1e-9)
}

func TestCannyDropsWeakEdgesWithoutSeed(t *testing.T) {
	// a 30 level step gives magnitude 120: above low, below high
	edges := canny(grayFromRows(stepRows(20, 20, 10, 0, 30)), 100, 200)
	assert.Zero(t, meanOf(edges))
}

func TestCannySwapsInvertedThresholds(t *testing.T) {
	rows := stepRows(20, 20, 10, 0, 255)
	assert.Equal(t, canny(grayFromRows(rows), 100, 200), canny(grayFromRows(rows), 200, 100))
}
