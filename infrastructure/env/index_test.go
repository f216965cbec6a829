package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(cfg *Config) {}},
		{name: "empty port", mutate: func(cfg *Config) { cfg.Port = "" }, wantErr: ErrInvalidPort},
		{name: "bad gin mode", mutate: func(cfg *Config) { cfg.GinMode = "prod" }, wantErr: ErrInvalidGinMode},
		{name: "bad log format", mutate: func(cfg *Config) { cfg.LogFormat = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "bad log level", mutate: func(cfg *Config) { cfg.LogLevel = "trace" }, wantErr: ErrInvalidLogLevel},
		{name: "threshold above one", mutate: func(cfg *Config) { cfg.MatchThreshold = 1.2 }, wantErr: ErrInvalidThreshold},
		{name: "negative threshold", mutate: func(cfg *Config) { cfg.MatchThreshold = -0.1 }, wantErr: ErrInvalidThreshold},
		{name: "unknown policy", mutate: func(cfg *Config) { cfg.ScoringPolicy = "strict" }, wantErr: ErrInvalidScoringPolicy},
		{name: "unknown store", mutate: func(cfg *Config) { cfg.StoreBackend = "sqlite" }, wantErr: ErrInvalidStoreBackend},
		{name: "empty store path", mutate: func(cfg *Config) { cfg.StorePath = "" }, wantErr: ErrInvalidStorePath},
		{name: "mongo without uri", mutate: func(cfg *Config) { cfg.StoreBackend = "mongo" }, wantErr: ErrMissingMongoURI},
		{name: "postgres without url", mutate: func(cfg *Config) { cfg.StoreBackend = "postgres" }, wantErr: ErrMissingPostgresURL},
		{name: "mongo with uri", mutate: func(cfg *Config) {
			cfg.StoreBackend = "mongo"
			cfg.MongoURI = "mongodb://localhost:27017"
		}},
		{name: "unknown image backend", mutate: func(cfg *Config) { cfg.ImageBackend = "ftp" }, wantErr: ErrInvalidImageBackend},
		{name: "empty image dir", mutate: func(cfg *Config) { cfg.ImageDir = "" }, wantErr: ErrInvalidImageDir},
		{name: "minio without bucket", mutate: func(cfg *Config) {
			cfg.ImageBackend = "minio"
			cfg.MinioEndpoint = "localhost:9000"
		}, wantErr: ErrMissingMinioEndpoint},
		{name: "unknown locator", mutate: func(cfg *Config) { cfg.Locator = "dlib" }, wantErr: ErrInvalidLocator},
		{name: "haar without cascade", mutate: func(cfg *Config) {
			cfg.Locator = "haar"
			cfg.HaarCascadePath = ""
		}, wantErr: ErrMissingCascadeLocator},
		{name: "unknown extractor", mutate: func(cfg *Config) { cfg.Extractor = "cuda" }, wantErr: ErrInvalidExtractor},
		{name: "gocv extractor", mutate: func(cfg *Config) { cfg.Extractor = "gocv" }},
		{name: "zero pixel cap", mutate: func(cfg *Config) { cfg.MaxImagePixels = 0 }, wantErr: ErrInvalidMaxPixels},
		{name: "zero upload size", mutate: func(cfg *Config) { cfg.MaxUploadMB = 0 }, wantErr: ErrInvalidMaxUpload},
		{name: "negative rate limit", mutate: func(cfg *Config) { cfg.RateLimitRPS = -1 }, wantErr: ErrInvalidRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadEnvReadsPrefixedVariables(t *testing.T) {
	t.Setenv("FACEGATE_PORT", "9090")
	t.Setenv("FACEGATE_MATCH_THRESHOLD", "0.55")
	t.Setenv("FACEGATE_SCORING_POLICY", "full")
	t.Setenv("FACEGATE_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.InDelta(t, 0.55, cfg.MatchThreshold, 1e-9)
	assert.Equal(t, "full", cfg.ScoringPolicy)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
	assert.Equal(t, "face_features.json", cfg.StorePath)
	assert.Equal(t, "native", cfg.Extractor)
	assert.Equal(t, 40_000_000, cfg.MaxImagePixels)
}

func TestLoadEnvReadsDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FACEGATE_IMAGE_DIR=crops\n"), 0o644))
	defer os.Unsetenv("FACEGATE_IMAGE_DIR")

	cfg, err := LoadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "crops", cfg.ImageDir)
}

func TestLoadEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv("FACEGATE_STORE_BACKEND", "postgres")
	_, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrMissingPostgresURL)
}

func TestDefaultConfigMatchesEnvDefaults(t *testing.T) {
	cfg, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	want := DefaultConfig()
	assert.Equal(t, want, *cfg)
}
