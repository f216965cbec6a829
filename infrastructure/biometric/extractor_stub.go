//go:build !gocv

package biometric

import (
	"errors"

	"facegate.io/infrastructure/biometric/types"
)

var ErrGocvUnavailable = errors.New("gocv extractor requires a build with -tags gocv")

func NewGocvExtractor() (types.FeatureExtractor, error) {
	return nil, ErrGocvUnavailable
}
