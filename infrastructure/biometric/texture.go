package biometric

import (
	"image"
	"math"

	"facegate.io/entities"
)

// neighbour offsets as (dy, dx); index is the bit position in the LBP code
var lbpNeighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func intensityHistogram(gray *image.Gray) []float64 {
	hist := make([]float64, entities.HistogramBins)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h; y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+w] {
			hist[v]++
		}
	}
	return hist
}

// localBinaryPattern histograms the 8-neighbour code of every pixel. Border
// pixels have no full neighbourhood and are counted as code 0, so the bins sum
// to the pixel count.
func localBinaryPattern(gray *image.Gray) []float64 {
	hist := make([]float64, entities.LBPBins)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	pix := func(x, y int) uint8 { return gray.Pix[y*gray.Stride+x] }

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y == 0 || x == 0 || y == h-1 || x == w-1 {
				hist[0]++
				continue
			}
			center := pix(x, y)
			var code uint8
			for bit, o := range lbpNeighbours {
				if pix(x+o[1], y+o[0]) >= center {
					code |= 1 << uint(bit)
				}
			}
			hist[code]++
		}
	}
	return hist
}

// cooccurrence counts horizontally adjacent pixel pairs after quantising
// intensities into TextureLevels equal-width bins. The last row is not
// paired, giving (h-1)*(w-1) pairs in total.
func cooccurrence(gray *image.Gray) []float64 {
	const binWidth = 256 / entities.TextureLevels
	matrix := make([]float64, entities.TextureBins)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	for y := 0; y < h-1; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w-1; x++ {
			a := int(row[x]) / binWidth
			b := int(row[x+1]) / binWidth
			matrix[a*entities.TextureLevels+b]++
		}
	}
	return matrix
}

// symmetryScore is the mean absolute difference between the left half and
// the mirrored right half. For odd widths the middle column is skipped.
func symmetryScore(gray *image.Gray) float64 {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	half := w / 2
	if half == 0 || h == 0 {
		return 0
	}
	var sum float64
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < half; x++ {
			sum += math.Abs(float64(row[x]) - float64(row[w-1-x]))
		}
	}
	return sum / float64(half*h)
}
