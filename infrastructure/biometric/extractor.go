package biometric

import (
	"errors"
	"fmt"
	"image"
	"math"

	"facegate.io/entities"
	"facegate.io/infrastructure/biometric/types"
	"golang.org/x/image/draw"
)

// CanonicalSize is the side length every face crop is scaled to before any
// feature is computed.
const CanonicalSize = 200

const (
	cannyLowThreshold  = 100
	cannyHighThreshold = 200
)

const (
	ExtractorNative = "native"
	ExtractorGocv   = "gocv"
)

var (
	ErrEmptyImage       = errors.New("face image is empty")
	ErrUnknownExtractor = errors.New("unknown feature extractor")
)

// NewFeatureExtractor returns the extractor named by kind. The gocv one runs
// the resize, Canny and Gabor stages in OpenCV and needs -tags gocv.
func NewFeatureExtractor(kind string) (types.FeatureExtractor, error) {
	switch kind {
	case ExtractorNative, "":
		return NewExtractor(), nil
	case ExtractorGocv:
		return NewGocvExtractor()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtractor, kind)
	}
}

// Extractor computes FaceFeatures from a cropped face. It holds no state and
// is safe for concurrent use.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scales the face to CanonicalSize, converts it to grayscale and runs
// every descriptor stage over it.
func (e *Extractor) Extract(face image.Image) (entities.FaceFeatures, error) {
	if face == nil || face.Bounds().Empty() {
		return entities.FaceFeatures{}, ErrEmptyImage
	}

	resized := resize(face, CanonicalSize, CanonicalSize)
	gray := toGray(resized)
	mean, std := intensityStats(gray)
	edges := canny(gray, cannyLowThreshold, cannyHighThreshold)

	return entities.FaceFeatures{
		Histogram:          intensityHistogram(gray),
		MeanIntensity:      mean,
		StdIntensity:       std,
		FaceArea:           resized.Bounds().Dx() * resized.Bounds().Dy(),
		EdgeDensity:        meanOf(edges),
		SymmetryScore:      symmetryScore(gray),
		LocalBinaryPattern: localBinaryPattern(gray),
		GaborFeatures:      gaborResponse(gray),
		// coarse stand-in, not real landmark geometry
		FacialLandmarks: mean,
		TextureFeatures: cooccurrence(gray),
	}, nil
}

// Extract runs the default extractor.
func Extract(face image.Image) (entities.FaceFeatures, error) {
	return NewExtractor().Extract(face)
}

func resize(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// toGray converts to 8-bit luma with the BT.601 weights. The result always
// starts at the origin.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
			for x := 0; x < b.Dx(); x++ {
				p := row[x*4 : x*4+3]
				gray.Pix[y*gray.Stride+x] = luma(uint32(p[0]), uint32(p[1]), uint32(p[2]))
			}
		}
		return gray
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			gray.Pix[y*gray.Stride+x] = luma(r>>8, g>>8, bl>>8)
		}
	}
	return gray
}

func luma(r, g, b uint32) uint8 {
	return uint8((299*r + 587*g + 114*b + 500) / 1000)
}

func intensityStats(gray *image.Gray) (mean float64, std float64) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	n := float64(w * h)
	var sum float64
	for y := 0; y < h; y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+w] {
			sum += float64(v)
		}
	}
	mean = sum / n

	var sq float64
	for y := 0; y < h; y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+w] {
			d := float64(v) - mean
			sq += d * d
		}
	}
	return mean, math.Sqrt(sq / n)
}

func meanOf(values []uint8) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}
