package env

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const Prefix = "FACEGATE"

var (
	ErrInvalidPort           = errors.New("port cannot be empty")
	ErrInvalidGinMode        = errors.New("gin_mode must be debug, release or test")
	ErrInvalidLogFormat      = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel       = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidThreshold      = errors.New("match_threshold must be between 0.0 and 1.0")
	ErrInvalidScoringPolicy  = errors.New("scoring_policy must be 'legacy' or 'full'")
	ErrInvalidStoreBackend   = errors.New("store_backend must be file, mongo or postgres")
	ErrInvalidStorePath      = errors.New("store_path cannot be empty")
	ErrMissingMongoURI       = errors.New("mongo_uri is required for the mongo store backend")
	ErrMissingPostgresURL    = errors.New("postgres_url is required for the postgres store backend")
	ErrInvalidImageBackend   = errors.New("image_backend must be local or minio")
	ErrInvalidImageDir       = errors.New("image_dir cannot be empty")
	ErrMissingMinioEndpoint  = errors.New("minio_endpoint and minio_bucket are required for the minio image backend")
	ErrInvalidLocator        = errors.New("locator must be pigo or haar")
	ErrInvalidMaxUpload      = errors.New("max_upload_mb must be positive")
	ErrInvalidRateLimit      = errors.New("rate_limit_rps cannot be negative")
	ErrMissingCascadeLocator = errors.New("a cascade path is required for the selected locator")
	ErrInvalidExtractor      = errors.New("extractor must be native or gocv")
	ErrInvalidMaxPixels      = errors.New("max_image_pixels must be positive")
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8000"`
	GinMode string `envconfig:"GIN_MODE" default:"release"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	MatchThreshold float64 `envconfig:"MATCH_THRESHOLD" default:"0.40"`
	ScoringPolicy  string  `envconfig:"SCORING_POLICY" default:"legacy"`

	StoreBackend    string `envconfig:"STORE_BACKEND" default:"file"`
	StorePath       string `envconfig:"STORE_PATH" default:"face_features.json"`
	MongoURI        string `envconfig:"MONGO_URI"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"facegate"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"face_features"`
	PostgresURL     string `envconfig:"POSTGRES_URL"`

	ImageBackend   string `envconfig:"IMAGE_BACKEND" default:"local"`
	ImageDir       string `envconfig:"IMAGE_DIR" default:"images"`
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"MINIO_BUCKET"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"true"`

	Locator         string `envconfig:"LOCATOR" default:"pigo"`
	PigoCascadePath string `envconfig:"PIGO_CASCADE_PATH" default:"models/facefinder"`
	HaarCascadePath string `envconfig:"HAAR_CASCADE_PATH" default:"models/haarcascade_frontalface_default.xml"`
	Extractor       string `envconfig:"EXTRACTOR" default:"native"`

	MaxUploadMB    int      `envconfig:"MAX_UPLOAD_MB" default:"15"`
	MaxImagePixels int      `envconfig:"MAX_IMAGE_PIXELS" default:"40000000"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"25"`
	CorsOrigins    []string `envconfig:"CORS_ORIGINS"`
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Port:            "8000",
		GinMode:         "release",
		LogFormat:       "json",
		LogLevel:        "info",
		MatchThreshold:  0.40,
		ScoringPolicy:   "legacy",
		StoreBackend:    "file",
		StorePath:       "face_features.json",
		MongoDatabase:   "facegate",
		MongoCollection: "face_features",
		ImageBackend:    "local",
		ImageDir:        "images",
		MinioUseSSL:     true,
		Locator:         "pigo",
		PigoCascadePath: "models/facefinder",
		HaarCascadePath: "models/haarcascade_frontalface_default.xml",
		Extractor:       "native",
		MaxUploadMB:     15,
		MaxImagePixels:  40_000_000,
		RateLimitRPS:    25,
	}
}

// LoadEnv reads an optional .env file, then the FACEGATE_* variables.
func LoadEnv(files ...string) (*Config, error) {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return ErrInvalidPort
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return ErrInvalidGinMode
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	if cfg.MatchThreshold < 0 || cfg.MatchThreshold > 1 {
		return ErrInvalidThreshold
	}
	if cfg.ScoringPolicy != "legacy" && cfg.ScoringPolicy != "full" {
		return ErrInvalidScoringPolicy
	}

	switch cfg.StoreBackend {
	case "file":
		if cfg.StorePath == "" {
			return ErrInvalidStorePath
		}
	case "mongo":
		if cfg.MongoURI == "" {
			return ErrMissingMongoURI
		}
	case "postgres":
		if cfg.PostgresURL == "" {
			return ErrMissingPostgresURL
		}
	default:
		return ErrInvalidStoreBackend
	}

	switch cfg.ImageBackend {
	case "local":
		if cfg.ImageDir == "" {
			return ErrInvalidImageDir
		}
	case "minio":
		if cfg.MinioEndpoint == "" || cfg.MinioBucket == "" {
			return ErrMissingMinioEndpoint
		}
	default:
		return ErrInvalidImageBackend
	}

	switch cfg.Locator {
	case "pigo":
		if cfg.PigoCascadePath == "" {
			return ErrMissingCascadeLocator
		}
	case "haar":
		if cfg.HaarCascadePath == "" {
			return ErrMissingCascadeLocator
		}
	default:
		return ErrInvalidLocator
	}

	if cfg.Extractor != "native" && cfg.Extractor != "gocv" {
		return ErrInvalidExtractor
	}

	if cfg.MaxUploadMB <= 0 {
		return ErrInvalidMaxUpload
	}
	if cfg.MaxImagePixels <= 0 {
		return ErrInvalidMaxPixels
	}
	if cfg.RateLimitRPS < 0 {
		return ErrInvalidRateLimit
	}
	return nil
}
