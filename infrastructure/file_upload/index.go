package fileupload

import (
	"context"

	"facegate.io/infrastructure/env"
	"facegate.io/infrastructure/file_upload/local"
	"facegate.io/infrastructure/file_upload/minio"
	"facegate.io/infrastructure/file_upload/types"
)

// InitialiseFileUploader returns the face image store selected by
// IMAGE_BACKEND.
func InitialiseFileUploader(ctx context.Context, cfg *env.Config) (types.FaceImageStore, error) {
	if cfg.ImageBackend == "minio" {
		store, err := minio.NewMinioImageStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return &local.LocalImageStore{Dir: cfg.ImageDir}, nil
}
