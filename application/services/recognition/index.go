package recognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"time"

	"facegate.io/application/repository"
	"facegate.io/entities"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/types"
	filetypes "facegate.io/infrastructure/file_upload/types"
	"facegate.io/infrastructure/logger"
	"facegate.io/infrastructure/metrics"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Outcome string

const (
	OutcomeNoFace    Outcome = "no_face"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeUnique    Outcome = "unique"
	OutcomeSaved     Outcome = "saved"
)

var (
	ErrDecodeFailure = errors.New("could not decode image")
	ErrPersistence   = errors.New("could not persist face")
	ErrInvalidLabel  = errors.New("label must not be empty")
)

const (
	OperationCheck  = "check"
	OperationEnroll = "enroll"
)

const cropQuality = 95

// DefaultMaxPixels caps width*height of an upload before it is decoded.
const DefaultMaxPixels = 40_000_000

type CheckResult struct {
	Outcome Outcome
	Label   string
	Score   float64
}

type EnrollResult struct {
	Outcome  Outcome
	Label    string
	Features *entities.FaceFeatures
}

// Service runs decode, locate, extract and match for one upload.
type Service struct {
	Locator    types.FaceLocator
	Extractor  types.FeatureExtractor
	Repository repository.FeatureRepository
	Images     filetypes.FaceImageStore

	// MaxPixels falls back to DefaultMaxPixels when zero.
	MaxPixels int
}

func NewService(locator types.FaceLocator, extractor types.FeatureExtractor, repo repository.FeatureRepository, images filetypes.FaceImageStore) *Service {
	return &Service{
		Locator:    locator,
		Extractor:  extractor,
		Repository: repo,
		Images:     images,
	}
}

// Check reports whether the face in data is already enrolled.
func (s *Service) Check(ctx context.Context, data []byte) (CheckResult, error) {
	_, features, err := s.describe(data)
	if err != nil {
		return CheckResult{}, err
	}
	if features == nil {
		metrics.RecognitionOutcomesTotal.WithLabelValues(OperationCheck, string(OutcomeNoFace)).Inc()
		return CheckResult{Outcome: OutcomeNoFace}, nil
	}

	match := s.Repository.BestMatch(features)
	if match.Found {
		metrics.RecognitionOutcomesTotal.WithLabelValues(OperationCheck, string(OutcomeDuplicate)).Inc()
		logger.Info("duplicate face found", logger.LoggerOptions{
			Key:  "label",
			Data: match.Label,
		}, logger.LoggerOptions{
			Key:  "score",
			Data: match.Score,
		})
		return CheckResult{Outcome: OutcomeDuplicate, Label: match.Label, Score: match.Score}, nil
	}
	metrics.RecognitionOutcomesTotal.WithLabelValues(OperationCheck, string(OutcomeUnique)).Inc()
	return CheckResult{Outcome: OutcomeUnique, Score: match.Score}, nil
}

// Enroll stores the face in data under label, replacing any earlier
// enrollment of that label. It does not check for duplicates first.
func (s *Service) Enroll(ctx context.Context, data []byte, label string) (EnrollResult, error) {
	if label == "" {
		return EnrollResult{}, ErrInvalidLabel
	}
	crop, features, err := s.describe(data)
	if err != nil {
		return EnrollResult{}, err
	}
	if features == nil {
		metrics.RecognitionOutcomesTotal.WithLabelValues(OperationEnroll, string(OutcomeNoFace)).Inc()
		return EnrollResult{Outcome: OutcomeNoFace}, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, crop, &jpeg.Options{Quality: cropQuality}); err != nil {
		return EnrollResult{}, fmt.Errorf("%w: encode crop: %v", ErrPersistence, err)
	}
	staged, err := s.Images.StageFaceImage(ctx, label, buf.Bytes())
	if err != nil {
		logger.Error("could not save face image", logger.LoggerOptions{Key: "label", Data: label}, logger.LoggerOptions{Key: "error", Data: err})
		return EnrollResult{}, fmt.Errorf("%w: save image: %v", ErrPersistence, err)
	}
	if err := s.Repository.Save(ctx, label, *features); err != nil {
		logger.Error("could not save face features", logger.LoggerOptions{Key: "label", Data: label}, logger.LoggerOptions{Key: "error", Data: err})
		if discardErr := s.Images.DiscardFaceImage(ctx, staged); discardErr != nil {
			logger.Warning("could not discard staged face image", logger.LoggerOptions{Key: "staged", Data: staged}, logger.LoggerOptions{Key: "error", Data: discardErr})
		}
		return EnrollResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	// the descriptor is already stored at this point
	if err := s.Images.CommitFaceImage(ctx, staged, label); err != nil {
		logger.Error("could not promote face image", logger.LoggerOptions{Key: "label", Data: label}, logger.LoggerOptions{Key: "error", Data: err})
		return EnrollResult{}, fmt.Errorf("%w: promote image: %v", ErrPersistence, err)
	}

	metrics.RecognitionOutcomesTotal.WithLabelValues(OperationEnroll, string(OutcomeSaved)).Inc()
	logger.Info("face enrolled 🙂", logger.LoggerOptions{Key: "label", Data: label})
	return EnrollResult{Outcome: OutcomeSaved, Label: label, Features: features}, nil
}

// describe returns nil features when no face was found.
func (s *Service) describe(data []byte) (image.Image, *entities.FaceFeatures, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	limit := s.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return nil, nil, fmt.Errorf("%w: image is %dx%d, above the %d pixel limit", ErrDecodeFailure, cfg.Width, cfg.Height, limit)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	box, ok := s.Locator.Locate(img)
	if !ok {
		logger.Info("no face detected in upload")
		return nil, nil, nil
	}

	crop := biometric.Crop(img, box)
	start := time.Now()
	features, err := s.Extractor.Extract(crop)
	metrics.ExtractDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract face features: %w", err)
	}
	return crop, &features, nil
}
