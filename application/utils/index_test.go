package utils

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateULIDString(t *testing.T) {
	first := GenerateULIDString()
	second := GenerateULIDString()

	_, err := ulid.ParseStrict(first)
	require.NoError(t, err)
	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}

func TestDetectImageType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))

	tests := []struct {
		name    string
		data    []byte
		isImage bool
	}{
		{name: "png", data: buf.Bytes(), isImage: true},
		{name: "plain text", data: []byte("definitely not a picture"), isImage: false},
		{name: "empty", data: nil, isImage: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DetectImageType(tt.data)
			assert.Equal(t, tt.isImage, ok)
		})
	}

	kind, _ := DetectImageType(buf.Bytes())
	assert.Equal(t, "image/png", kind)
}
