package cmd

import (
	"bufio"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"facegate.io/application/controller/dto"
	"facegate.io/application/services/recognition"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/database/featurestore"
	"facegate.io/infrastructure/file_upload/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGradient(t *testing.T, path string, step int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8((x * step) % 256)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bob.PNG", "alice.jpg", "notes.txt", "carol.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	files, err := imageFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "alice.jpg"),
		filepath.Join(dir, "bob.PNG"),
		filepath.Join(dir, "carol.webp"),
	}, files)

	_, err = imageFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLabelFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/faces/alice.jpg", want: "alice"},
		{path: "bob.smith.png", want: "bob.smith"},
		{path: "carol", want: "carol"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, labelFromPath(tt.path))
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(bufio.NewReader(strings.NewReader(tt.input)), &out, "sure?")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "sure? [y/N]: ", out.String())
		})
	}
}

func TestResponsesMatchHTTPBodies(t *testing.T) {
	assert.Equal(t, noFaceResponse, checkResponse(recognition.CheckResult{Outcome: recognition.OutcomeNoFace}))
	assert.Equal(t, dto.NewDuplicateFaceResponse("bob"), checkResponse(recognition.CheckResult{Outcome: recognition.OutcomeDuplicate, Label: "bob"}))
	assert.Equal(t, dto.NewUniqueFaceResponse(), checkResponse(recognition.CheckResult{Outcome: recognition.OutcomeUnique}))
	assert.Equal(t, noFaceResponse, enrollResponse(recognition.EnrollResult{Outcome: recognition.OutcomeNoFace}))
	assert.Equal(t, dto.NewSavedFaceResponse("alice", nil), enrollResponse(recognition.EnrollResult{Outcome: recognition.OutcomeSaved, Label: "alice"}))
}

func TestEnrollAll(t *testing.T) {
	dir := t.TempDir()
	faces := filepath.Join(dir, "faces")
	require.NoError(t, os.Mkdir(faces, 0o755))
	writeGradient(t, filepath.Join(faces, "alice.png"), 4)
	writeGradient(t, filepath.Join(faces, "bob.png"), 9)
	require.NoError(t, os.WriteFile(filepath.Join(faces, "broken.png"), []byte("not a png"), 0o644))
	writeGradient(t, filepath.Join(faces, ".hidden.png"), 4)

	scorer, err := biometric.NewScorer("legacy")
	require.NoError(t, err)
	store, err := featurestore.Open(context.Background(), featurestore.NewFilePersister(filepath.Join(dir, "features.json")), scorer, featurestore.DefaultMatchThreshold)
	require.NoError(t, err)
	wholeImage := types.LocatorFunc(func(img image.Image) (image.Rectangle, bool) { return img.Bounds(), true })
	service := recognition.NewService(wholeImage, biometric.NewExtractor(), store, &local.LocalImageStore{Dir: filepath.Join(dir, "images")})

	files, err := imageFiles(faces)
	require.NoError(t, err)
	summary, err := enrollAll(context.Background(), service, files)

	require.NoError(t, err)
	assert.Equal(t, enrollSummary{saved: 2, failed: 2}, summary)
	assert.Equal(t, []string{"alice", "bob"}, store.Labels())
	assert.FileExists(t, filepath.Join(dir, "images", "alice.jpg"))
}

func TestEnrollAllStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := enrollAll(ctx, nil, []string{"a.png"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, enrollSummary{}, summary)
}

func TestListCommandOnEmptyStore(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--store", "file", "--store-path", filepath.Join(dir, "features.json")})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "No faces enrolled.\n", out.String())
}
