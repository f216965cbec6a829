package utils

import (
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
)

func GenerateULIDString() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// DetectImageType sniffs the upload's content type from its magic bytes. The
// boolean is false when the bytes are not an image of any kind.
func DetectImageType(data []byte) (string, bool) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return mtype.String(), true
		}
	}
	return mtype.String(), false
}
