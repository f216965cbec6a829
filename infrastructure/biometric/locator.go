package biometric

import (
	"errors"
	"fmt"
	"image"
	"io"

	"facegate.io/infrastructure/biometric/types"
)

const (
	LocatorPigo = "pigo"
	LocatorHaar = "haar"
)

var ErrUnknownLocator = errors.New("unknown face locator")

// Locator is a FaceLocator that may hold native resources.
type Locator interface {
	types.FaceLocator
	io.Closer
}

// NewFaceLocator builds the locator named by kind from its cascade file.
func NewFaceLocator(kind, pigoCascadePath, haarCascadePath string) (Locator, error) {
	switch kind {
	case LocatorPigo, "":
		locator, err := NewPigoLocator(pigoCascadePath, DefaultPigoParams())
		if err != nil {
			return nil, err
		}
		return locator, nil
	case LocatorHaar:
		return NewHaarLocator(haarCascadePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocator, kind)
	}
}

// pickFace chooses the largest detection and clips it to the image bounds.
// ok is false when there is nothing left to describe.
func pickFace(faces []image.Rectangle, bounds image.Rectangle) (image.Rectangle, bool) {
	if len(faces) == 0 {
		return image.Rectangle{}, false
	}
	face := largestFace(faces).Intersect(bounds)
	if face.Empty() {
		return image.Rectangle{}, false
	}
	return face, true
}

func largestFace(faces []image.Rectangle) image.Rectangle {
	largest := faces[0]
	maxArea := largest.Dx() * largest.Dy()
	for _, face := range faces[1:] {
		if area := face.Dx() * face.Dy(); area > maxArea {
			largest = face
			maxArea = area
		}
	}
	return largest
}

// Crop returns the face region of img as its own image with origin (0,0).
func Crop(img image.Image, face image.Rectangle) image.Image {
	face = face.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, face.Dx(), face.Dy()))
	for y := 0; y < face.Dy(); y++ {
		for x := 0; x < face.Dx(); x++ {
			dst.Set(x, y, img.At(face.Min.X+x, face.Min.Y+y))
		}
	}
	return dst
}
