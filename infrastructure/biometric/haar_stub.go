//go:build !gocv

package biometric

import "errors"

var ErrHaarUnavailable = errors.New("haar locator requires a build with -tags gocv")

func NewHaarLocator(cascadePath string) (Locator, error) {
	return nil, ErrHaarUnavailable
}
