package biometric

import (
	"image"
	"math"

	"facegate.io/entities"
)

const (
	gaborKernelSize = 33
	gaborSigma      = 5.0
	gaborTheta      = math.Pi / 4
	gaborLambda     = 10.0
	gaborGamma      = 0.5
	gaborPsi        = math.Pi / 2
)

var defaultGaborKernel = gaborKernel(gaborKernelSize, gaborSigma, gaborTheta, gaborLambda, gaborGamma, gaborPsi)

// gaborKernel builds a ksize x ksize real Gabor kernel laid out row-major,
// using the same orientation and flip convention as OpenCV's getGaborKernel.
func gaborKernel(ksize int, sigma, theta, lambda, gamma, psi float64) []float64 {
	half := ksize / 2
	sigmaX := sigma
	sigmaY := sigma / gamma
	c, s := math.Cos(theta), math.Sin(theta)
	ex := -0.5 / (sigmaX * sigmaX)
	ey := -0.5 / (sigmaY * sigmaY)
	cscale := 2 * math.Pi / lambda

	kernel := make([]float64, ksize*ksize)
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			xr := float64(x)*c + float64(y)*s
			yr := -float64(x)*s + float64(y)*c
			v := math.Exp(ex*xr*xr+ey*yr*yr) * math.Cos(cscale*xr+psi)
			kernel[(half-y)*ksize+(half-x)] = v
		}
	}
	return kernel
}

// filter2D correlates src with a square kernel anchored at its centre.
// Borders reflect without repeating the edge pixel and the response is
// saturated to 8 bits.
func filter2D(src *image.Gray, kernel []float64, ksize int) []uint8 {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	anchor := ksize / 2

	cols := make([]int, w+ksize-1)
	for i := range cols {
		cols[i] = reflect101(i-anchor, w)
	}
	rows := make([]int, h+ksize-1)
	for i := range rows {
		rows[i] = reflect101(i-anchor, h)
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := 0; ky < ksize; ky++ {
				row := src.Pix[rows[y+ky]*src.Stride:]
				k := kernel[ky*ksize : ky*ksize+ksize]
				for kx, kv := range k {
					sum += kv * float64(row[cols[x+kx]])
				}
			}
			out[y*w+x] = saturateUint8(sum)
		}
	}
	return out
}

func gaborResponse(gray *image.Gray) entities.GaborResponse {
	filtered := filter2D(gray, defaultGaborKernel, gaborKernelSize)
	return entities.GaborResponse{meanOf(filtered)}
}

func reflect101(p, n int) int {
	if n == 1 {
		return 0
	}
	for p < 0 || p >= n {
		if p < 0 {
			p = -p
		}
		if p >= n {
			p = 2*n - 2 - p
		}
	}
	return p
}

func saturateUint8(v float64) uint8 {
	v = math.RoundToEven(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
