package biometric

import (
	"errors"
	"fmt"
	"math"

	"facegate.io/entities"
)

type ScoringPolicy string

const (
	// PolicyLegacy scores the histogram and the five scalar features only.
	// A descriptor compared with itself scores 0.50.
	PolicyLegacy ScoringPolicy = "legacy"
	// PolicyFull adds the texture, LBP, Gabor and landmark components so
	// self-similarity reaches 1.0.
	PolicyFull ScoringPolicy = "full"
)

var ErrUnknownPolicy = errors.New("unknown scoring policy")

const (
	weightHistogram = 0.15
	weightMean      = 0.05
	weightStd       = 0.05
	weightArea      = 0.05
	weightEdge      = 0.10
	weightSymmetry  = 0.10
	weightLBP       = 0.20
	weightGabor     = 0.15
	weightLandmarks = 0.10
	weightTexture   = 0.05
)

type Scorer struct {
	Policy ScoringPolicy
}

func NewScorer(policy string) (*Scorer, error) {
	switch p := ScoringPolicy(policy); p {
	case PolicyLegacy, PolicyFull:
		return &Scorer{Policy: p}, nil
	case "":
		return &Scorer{Policy: PolicyLegacy}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}

// Similarity is a weighted sum of per-feature similarities. It is symmetric
// and never negative.
func (s *Scorer) Similarity(a, b *entities.FaceFeatures) float64 {
	total := weightHistogram * clampedCorrelation(a.Histogram, b.Histogram)
	total += weightMean * scalarSimilarity(a.MeanIntensity, b.MeanIntensity)
	total += weightStd * scalarSimilarity(a.StdIntensity, b.StdIntensity)
	total += weightArea * scalarSimilarity(float64(a.FaceArea), float64(b.FaceArea))
	total += weightEdge * scalarSimilarity(a.EdgeDensity, b.EdgeDensity)
	total += weightSymmetry * scalarSimilarity(a.SymmetryScore, b.SymmetryScore)

	if s.Policy == PolicyFull {
		total += weightLBP * clampedCorrelation(a.LocalBinaryPattern, b.LocalBinaryPattern)
		total += weightGabor * elementwiseSimilarity(a.GaborFeatures, b.GaborFeatures)
		total += weightLandmarks * scalarSimilarity(a.FacialLandmarks, b.FacialLandmarks)
		total += weightTexture * clampedCorrelation(a.TextureFeatures, b.TextureFeatures)
	}
	return total
}

// scalarSimilarity is 1 minus the relative difference, floored at 0.
func scalarSimilarity(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 1
	}
	if a == 0 || b == 0 {
		return 0
	}
	diff := math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
	return 1 - math.Min(1, diff)
}

func clampedCorrelation(a, b []float64) float64 {
	return math.Max(0, correlation(a, b))
}

// correlation is the Pearson coefficient. Constant vectors have no defined
// coefficient: equal ones count as 1, anything else as 0.
func correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n

	var sab, saa, sbb float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		sab += da * db
		saa += da * da
		sbb += db * db
	}
	if saa == 0 || sbb == 0 {
		if equalVectors(a, b) {
			return 1
		}
		return 0
	}
	r := sab / math.Sqrt(saa*sbb)
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func elementwiseSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	if len(a) == 0 {
		return 1
	}
	var sum float64
	for i := range a {
		sum += scalarSimilarity(a[i], b[i])
	}
	return sum / float64(len(a))
}

func equalVectors(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
