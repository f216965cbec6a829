package types

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// FaceImageStore keeps the cropped face saved for each enrolled label.
//
// Enrollment stages the crop first and only commits it over <label>.jpg once
// the descriptor is stored, so a failed save never leaves a crop that
// disagrees with the stored features.
type FaceImageStore interface {
	SaveFaceImage(ctx context.Context, label string, jpeg []byte) error
	DeleteFaceImage(ctx context.Context, label string) error
	StageFaceImage(ctx context.Context, label string, jpeg []byte) (staged string, err error)
	CommitFaceImage(ctx context.Context, staged, label string) error
	DiscardFaceImage(ctx context.Context, staged string) error
}

// FaceImageName is the object or file name used for label's crop.
func FaceImageName(label string) string {
	return label + ".jpg"
}

// PendingPrefix starts every staged name.
const PendingPrefix = ".pending-"

// StagedImageName returns a fresh name for a crop that is not committed yet.
func StagedImageName(label string) string {
	return PendingPrefix + label + "-" + ulid.Make().String() + ".jpg"
}
