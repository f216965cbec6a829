package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"facegate.io/infrastructure/file_upload/types"
	"github.com/google/renameio"
)

// LocalImageStore writes crops as <label>.jpg under Dir.
type LocalImageStore struct {
	Dir string
}

func (l *LocalImageStore) SaveFaceImage(ctx context.Context, label string, jpeg []byte) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return err
	}
	return renameio.WriteFile(l.path(label), jpeg, 0o644)
}

func (l *LocalImageStore) DeleteFaceImage(ctx context.Context, label string) error {
	err := os.Remove(l.path(label))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *LocalImageStore) StageFaceImage(ctx context.Context, label string, jpeg []byte) (string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", err
	}
	staged := types.StagedImageName(label)
	if err := renameio.WriteFile(filepath.Join(l.Dir, staged), jpeg, 0o644); err != nil {
		return "", err
	}
	return staged, nil
}

// CommitFaceImage renames the staged file over <label>.jpg. Both live in Dir
// so the rename is atomic.
func (l *LocalImageStore) CommitFaceImage(ctx context.Context, staged, label string) error {
	return os.Rename(filepath.Join(l.Dir, staged), l.path(label))
}

func (l *LocalImageStore) DiscardFaceImage(ctx context.Context, staged string) error {
	err := os.Remove(filepath.Join(l.Dir, staged))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *LocalImageStore) path(label string) string {
	return filepath.Join(l.Dir, types.FaceImageName(label))
}
