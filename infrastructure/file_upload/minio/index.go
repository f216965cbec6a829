package minio

import (
	"bytes"
	"context"
	"fmt"

	"facegate.io/infrastructure/file_upload/types"
	"facegate.io/infrastructure/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioImageStore puts crops into an S3 compatible bucket.
type MinioImageStore struct {
	client *minio.Client
	bucket string
}

// NewMinioImageStore connects and creates the bucket if it is missing.
func NewMinioImageStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info("created face image bucket", logger.LoggerOptions{Key: "bucket", Data: bucket})
	}
	return &MinioImageStore{client: client, bucket: bucket}, nil
}

func (m *MinioImageStore) SaveFaceImage(ctx context.Context, label string, jpeg []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, types.FaceImageName(label), bytes.NewReader(jpeg), int64(len(jpeg)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	return err
}

func (m *MinioImageStore) DeleteFaceImage(ctx context.Context, label string) error {
	return m.remove(ctx, types.FaceImageName(label))
}

func (m *MinioImageStore) StageFaceImage(ctx context.Context, label string, jpeg []byte) (string, error) {
	staged := types.StagedImageName(label)
	_, err := m.client.PutObject(ctx, m.bucket, staged, bytes.NewReader(jpeg), int64(len(jpeg)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", err
	}
	return staged, nil
}

// CommitFaceImage copies the staged object over <label>.jpg server side and
// then drops the staged copy.
func (m *MinioImageStore) CommitFaceImage(ctx context.Context, staged, label string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: types.FaceImageName(label)},
		minio.CopySrcOptions{Bucket: m.bucket, Object: staged},
	)
	if err != nil {
		return fmt.Errorf("failed to promote %s: %w", staged, err)
	}
	if err := m.remove(ctx, staged); err != nil {
		logger.Warning("could not remove staged face image", logger.LoggerOptions{Key: "object", Data: staged}, logger.LoggerOptions{Key: "error", Data: err})
	}
	return nil
}

func (m *MinioImageStore) DiscardFaceImage(ctx context.Context, staged string) error {
	return m.remove(ctx, staged)
}

func (m *MinioImageStore) remove(ctx context.Context, object string) error {
	err := m.client.RemoveObject(ctx, m.bucket, object, minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil
		}
		return err
	}
	return nil
}
