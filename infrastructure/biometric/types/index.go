package types

import (
	"image"

	"facegate.io/entities"
)

// FaceLocator finds the face region to describe in an uploaded image.
// ok is false when no face was found.
type FaceLocator interface {
	Locate(img image.Image) (face image.Rectangle, ok bool)
}

// FeatureExtractor turns a cropped face into its descriptor.
type FeatureExtractor interface {
	Extract(face image.Image) (entities.FaceFeatures, error)
}

// SimilarityScorer compares two descriptors, returning a score in [0,1].
type SimilarityScorer interface {
	Similarity(a, b *entities.FaceFeatures) float64
}

// LocatorFunc adapts a plain function to FaceLocator.
type LocatorFunc func(img image.Image) (image.Rectangle, bool)

func (f LocatorFunc) Locate(img image.Image) (image.Rectangle, bool) {
	return f(img)
}
