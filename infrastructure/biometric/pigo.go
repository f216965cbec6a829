package biometric

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

type PigoParams struct {
	MinSize          int
	MaxSize          int
	ShiftFactor      float64
	ScaleFactor      float64
	IoUThreshold     float64
	QualityThreshold float32
}

func DefaultPigoParams() PigoParams {
	return PigoParams{
		MinSize:          40,
		MaxSize:          1000,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		IoUThreshold:     0.2,
		QualityThreshold: 5.0,
	}
}

// PigoLocator finds faces with a pixel-intensity-comparison cascade.
// The unpacked classifier is read-only so a single instance can serve
// concurrent requests.
type PigoLocator struct {
	classifier *pigo.Pigo
	params     PigoParams
}

func NewPigoLocator(cascadePath string, params PigoParams) (*PigoLocator, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pigo cascade file: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack pigo cascade: %w", err)
	}
	return &PigoLocator{classifier: classifier, params: params}, nil
}

func (l *PigoLocator) Locate(img image.Image) (image.Rectangle, bool) {
	bounds := img.Bounds()
	gray := toGray(img)

	cParams := pigo.CascadeParams{
		MinSize:     l.params.MinSize,
		MaxSize:     l.params.MaxSize,
		ShiftFactor: l.params.ShiftFactor,
		ScaleFactor: l.params.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray.Pix,
			Rows:   gray.Rect.Dy(),
			Cols:   gray.Rect.Dx(),
			Dim:    gray.Stride,
		},
	}

	dets := l.classifier.RunCascade(cParams, 0.0)
	dets = l.classifier.ClusterDetections(dets, l.params.IoUThreshold)

	faces := make([]image.Rectangle, 0, len(dets))
	for _, det := range dets {
		if det.Q > l.params.QualityThreshold {
			x := det.Col - det.Scale/2
			y := det.Row - det.Scale/2
			faces = append(faces, image.Rect(x, y, x+det.Scale, y+det.Scale).Add(bounds.Min))
		}
	}
	return pickFace(faces, bounds)
}

func (l *PigoLocator) Close() error {
	return nil
}
