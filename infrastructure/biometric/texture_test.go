package biometric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalBinaryPattern(t *testing.T) {
	gray := grayFromRows([][]uint8{
		{50, 150, 50},
		{150, 100, 50},
		{100, 50, 150},
	})
	hist := localBinaryPattern(gray)

	// bits 1, 3, 5 and 7 are set for the centre pixel
	assert.Equal(t, 8.0, hist[0])
	assert.Equal(t, 1.0, hist[170])
	assert.Equal(t, 9.0, sum(hist))
}

func TestCooccurrence(t *testing.T) {
	gray := grayFromRows([][]uint8{
		{0, 40, 255},
		{255, 255, 255},
	})
	matrix := cooccurrence(gray)

	assert.Equal(t, 1.0, matrix[0*8+1])
	assert.Equal(t, 1.0, matrix[1*8+7])
	assert.Equal(t, 2.0, sum(matrix))
}

func TestIntensityHistogram(t *testing.T) {
	hist := intensityHistogram(grayFromRows([][]uint8{{1, 1, 2}, {255, 0, 1}}))
	assert.Equal(t, 3.0, hist[1])
	assert.Equal(t, 1.0, hist[2])
	assert.Equal(t, 1.0, hist[255])
	assert.Equal(t, 1.0, hist[0])
	assert.Equal(t, 6.0, sum(hist))
}

func TestSymmetryScore(t *testing.T) {
	tests := []struct {
		name string
		rows [][]uint8
		want float64
	}{
		{"mirror image", [][]uint8{{10, 20, 20, 10}}, 0},
		{"even width", [][]uint8{{10, 20, 200, 40}, {10, 20, 200, 40}}, 105},
		{"odd width skips middle column", [][]uint8{{10, 99, 30}}, 20},
		{"no wraparound", [][]uint8{{0, 255}}, 255},
		{"single column", [][]uint8{{7}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, symmetryScore(grayFromRows(tt.rows)), 1e-9)
		})
	}
}
