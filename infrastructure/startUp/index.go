package startup

import (
	"context"
	"fmt"
	"io"

	"facegate.io/application/services/recognition"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/database"
	"facegate.io/infrastructure/database/featurestore"
	"facegate.io/infrastructure/env"
	fileupload "facegate.io/infrastructure/file_upload"
	"facegate.io/infrastructure/logger"
)

// Services are the long lived collaborators shared by the server and the CLI.
type Services struct {
	Config      *env.Config
	Store       *featurestore.Store
	Locator     biometric.Locator
	Extractor   types.FeatureExtractor
	Recognition *recognition.Service
}

// Used to start services such as loggers, databases, detectors, etc.
func StartServices(ctx context.Context, cfg *env.Config) (*Services, error) {
	if err := logger.InitializeLogger(cfg.LogFormat, cfg.LogLevel); err != nil {
		return nil, err
	}

	scorer, err := biometric.NewScorer(cfg.ScoringPolicy)
	if err != nil {
		return nil, err
	}
	locator, err := biometric.NewFaceLocator(cfg.Locator, cfg.PigoCascadePath, cfg.HaarCascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load face locator: %w", err)
	}
	extractor, err := biometric.NewFeatureExtractor(cfg.Extractor)
	if err != nil {
		locator.Close()
		return nil, fmt.Errorf("failed to load feature extractor: %w", err)
	}
	store, err := database.SetUpDatabase(ctx, cfg, scorer)
	if err != nil {
		locator.Close()
		closeExtractor(extractor)
		return nil, err
	}
	images, err := fileupload.InitialiseFileUploader(ctx, cfg)
	if err != nil {
		locator.Close()
		closeExtractor(extractor)
		store.Close(ctx)
		return nil, err
	}

	service := recognition.NewService(locator, extractor, store, images)
	service.MaxPixels = cfg.MaxImagePixels

	logger.Info("services started 🚀", logger.LoggerOptions{
		Key:  "store_backend",
		Data: cfg.StoreBackend,
	}, logger.LoggerOptions{
		Key:  "records",
		Data: store.Len(),
	}, logger.LoggerOptions{
		Key:  "scoring_policy",
		Data: scorer.Policy,
	}, logger.LoggerOptions{
		Key:  "match_threshold",
		Data: store.Threshold(),
	}, logger.LoggerOptions{
		Key:  "extractor",
		Data: cfg.Extractor,
	})

	return &Services{
		Config:      cfg,
		Store:       store,
		Locator:     locator,
		Extractor:   extractor,
		Recognition: service,
	}, nil
}

// Used to clean up after services that have been shutdown.
func CleanUpServices(ctx context.Context, services *Services) {
	if services == nil {
		return
	}
	if err := services.Store.Close(ctx); err != nil {
		logger.Error("failed to close feature store", logger.LoggerOptions{Key: "error", Data: err})
	}
	if err := services.Locator.Close(); err != nil {
		logger.Error("failed to close face locator", logger.LoggerOptions{Key: "error", Data: err})
	}
	closeExtractor(services.Extractor)
	logger.Sync()
}

func closeExtractor(extractor types.FeatureExtractor) {
	closer, ok := extractor.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Error("failed to close feature extractor", logger.LoggerOptions{Key: "error", Data: err})
	}
}
