package biometric

import "image"

const (
	// tan(22.5°) and tan(67.5°), the sector boundaries for gradient direction
	tan22 = 0.41421356
	tan67 = 2.41421356
)

const (
	edgeNone uint8 = iota
	edgeWeak
	edgeStrong
)

// canny returns a 0/255 edge map with the same layout as src: 3x3 Sobel
// gradients with replicated borders, L1 magnitude, non-maximum suppression in
// four directions and 8-connected hysteresis between low and high.
func canny(src *image.Gray, low, high float64) []uint8 {
	if low > high {
		low, high = high, low
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	n := w * h

	at := func(x, y int) int {
		x = clampInt(x, 0, w-1)
		y = clampInt(y, 0, h-1)
		return int(src.Pix[y*src.Stride+x])
	}

	dxs := make([]int, n)
	dys := make([]int, n)
	mag := make([]int, n)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			dy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			i := y*w + x
			dxs[i], dys[i] = dx, dy
			mag[i] = absInt(dx) + absInt(dy)
		}
	}

	magAt := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	state := make([]uint8, n)
	stack := make([]int, 0, n/16)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if float64(m) <= low {
				continue
			}
			dx, dy := dxs[i], dys[i]
			ax, ay := float64(absInt(dx)), float64(absInt(dy))

			var isMax bool
			switch {
			case ay < ax*tan22:
				isMax = m > magAt(x-1, y) && m >= magAt(x+1, y)
			case ay > ax*tan67:
				isMax = m > magAt(x, y-1) && m >= magAt(x, y+1)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				isMax = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !isMax {
				continue
			}
			if float64(m) > high {
				state[i] = edgeStrong
				stack = append(stack, i)
			} else {
				state[i] = edgeWeak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == edgeWeak {
					state[j] = edgeStrong
					stack = append(stack, j)
				}
			}
		}
	}

	out := make([]uint8, n)
	for i, s := range state {
		if s == edgeStrong {
			out[i] = 255
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
