package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	HistogramBins = 256
	LBPBins       = 256
	TextureLevels = 8
	TextureBins   = TextureLevels * TextureLevels
)

var ErrInvalidFeatures = errors.New("invalid face features")

// GaborResponse holds the mean Gabor filter response per channel.
// Older snapshots stored the single grayscale channel as a bare number, so
// decoding accepts either form.
type GaborResponse []float64

func (g *GaborResponse) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*g = GaborResponse{scalar}
		return nil
	}
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("gabor_features must be a number or an array of numbers: %w", err)
	}
	*g = values
	return nil
}

// FaceFeatures is the descriptor of one cropped face. It is computed once and
// never mutated afterwards.
type FaceFeatures struct {
	Histogram          []float64     `bson:"histogram" json:"histogram"`
	MeanIntensity      float64       `bson:"mean_intensity" json:"mean_intensity"`
	StdIntensity       float64       `bson:"std_intensity" json:"std_intensity"`
	FaceArea           int           `bson:"face_area" json:"face_area"`
	EdgeDensity        float64       `bson:"edge_density" json:"edge_density"`
	SymmetryScore      float64       `bson:"symmetry_score" json:"symmetry_score"`
	LocalBinaryPattern []float64     `bson:"local_binary_pattern" json:"local_binary_pattern"`
	GaborFeatures      GaborResponse `bson:"gabor_features" json:"gabor_features"`
	FacialLandmarks    float64       `bson:"facial_landmarks" json:"facial_landmarks"`
	TextureFeatures    []float64     `bson:"texture_features" json:"texture_features"`
}

// Validate checks shapes and that every number is finite. Records loaded from
// any persister go through here before they reach the store.
func (f *FaceFeatures) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidFeatures)
	}
	if err := validateCounts("histogram", f.Histogram, HistogramBins); err != nil {
		return err
	}
	if err := validateCounts("local_binary_pattern", f.LocalBinaryPattern, LBPBins); err != nil {
		return err
	}
	if err := validateCounts("texture_features", f.TextureFeatures, TextureBins); err != nil {
		return err
	}
	if len(f.GaborFeatures) == 0 {
		return fmt.Errorf("%w: gabor_features is empty", ErrInvalidFeatures)
	}
	for i, v := range f.GaborFeatures {
		if !isFinite(v) {
			return fmt.Errorf("%w: gabor_features[%d] is not finite", ErrInvalidFeatures, i)
		}
	}
	if f.FaceArea <= 0 {
		return fmt.Errorf("%w: face_area must be positive, got %d", ErrInvalidFeatures, f.FaceArea)
	}
	scalars := map[string]float64{
		"mean_intensity":   f.MeanIntensity,
		"std_intensity":    f.StdIntensity,
		"edge_density":     f.EdgeDensity,
		"symmetry_score":   f.SymmetryScore,
		"facial_landmarks": f.FacialLandmarks,
	}
	for name, v := range scalars {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidFeatures, name)
		}
	}
	return nil
}

func validateCounts(name string, values []float64, want int) error {
	if len(values) != want {
		return fmt.Errorf("%w: %s has %d bins, want %d", ErrInvalidFeatures, name, len(values), want)
	}
	for i, v := range values {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("%w: %s[%d] must be a finite non-negative count", ErrInvalidFeatures, name, i)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
