//go:build gocv

package biometric

import (
	"fmt"
	"image"
	"sync"

	"facegate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// HaarLocator runs OpenCV's Haar cascade. CascadeClassifier is not safe for
// concurrent use so detection is serialised.
type HaarLocator struct {
	mu      sync.Mutex
	cascade gocv.CascadeClassifier
}

func NewHaarLocator(cascadePath string) (Locator, error) {
	cascade := gocv.NewCascadeClassifier()
	paths := []string{
		cascadePath,
		"haarcascade_frontalface_default.xml",
		"/usr/local/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
		"/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
		"/opt/homebrew/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
	}
	for _, path := range paths {
		if cascade.Load(path) {
			return &HaarLocator{cascade: cascade}, nil
		}
	}
	cascade.Close()
	return nil, fmt.Errorf("failed to load haar cascade from %s", cascadePath)
}

func (l *HaarLocator) Locate(img image.Image) (image.Rectangle, bool) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		logger.Warning("could not convert image for haar detection", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return image.Rectangle{}, false
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	l.mu.Lock()
	faces := l.cascade.DetectMultiScaleWithParams(gray, 1.1, 4, 0, image.Point{}, image.Point{})
	l.mu.Unlock()

	min := img.Bounds().Min
	for i := range faces {
		faces[i] = faces[i].Add(min)
	}
	return pickFace(faces, img.Bounds())
}

func (l *HaarLocator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cascade.Close()
}
