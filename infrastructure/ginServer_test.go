package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"facegate.io/application/services/recognition"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/database/featurestore"
	"facegate.io/infrastructure/env"
	"facegate.io/infrastructure/file_upload/local"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wholeImage = types.LocatorFunc(func(img image.Image) (image.Rectangle, bool) {
	return img.Bounds(), true
})

var noFace = types.LocatorFunc(func(img image.Image) (image.Rectangle, bool) {
	return image.Rectangle{}, false
})

func testConfig() *env.Config {
	cfg := env.DefaultConfig()
	cfg.GinMode = "test"
	cfg.RateLimitRPS = 0
	return &cfg
}

func newTestRouter(t *testing.T, cfg *env.Config, locator types.FaceLocator) (*gin.Engine, *featurestore.Store) {
	t.Helper()
	dir := t.TempDir()
	scorer, err := biometric.NewScorer(cfg.ScoringPolicy)
	require.NoError(t, err)
	store, err := featurestore.Open(context.Background(), featurestore.NewFilePersister(filepath.Join(dir, "face_features.json")), scorer, cfg.MatchThreshold)
	require.NoError(t, err)

	service := recognition.NewService(locator, biometric.NewExtractor(), store, &local.LocalImageStore{Dir: filepath.Join(dir, "images")})
	service.MaxPixels = cfg.MaxImagePixels
	return NewRouter(cfg, service, store), store
}

func gradientPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			v := uint8(x * 255 / 199)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path string, file []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "face.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCheckFaceUniqueOnEmptyStore(t *testing.T) {
	engine, _ := newTestRouter(t, testConfig(), wholeImage)

	rec := serve(engine, uploadRequest(t, "/check-face/", gradientPNG(t), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"unique","message":"Face is new, please provide a name","require_name":true}`, rec.Body.String())
}

func TestSaveThenCheckReportsDuplicate(t *testing.T) {
	engine, store := newTestRouter(t, testConfig(), wholeImage)
	face := gradientPNG(t)

	rec := serve(engine, uploadRequest(t, "/save-face/", face, map[string]string{"name": "alice"}))
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode(t, rec)
	assert.Equal(t, "success", saved["status"])
	assert.Equal(t, "New face saved as alice", saved["message"])
	features, ok := saved["features"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 40000, features["face_area"])
	assert.Equal(t, 1, store.Len())

	rec = serve(engine, uploadRequest(t, "/check-face/", face, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"duplicate","message":"Face already exists as alice","existing_name":"alice"}`, rec.Body.String())

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/faces", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1,"labels":["alice"]}`, rec.Body.String())
}

func TestNoFaceIsReportedAsErrorStatus(t *testing.T) {
	engine, store := newTestRouter(t, testConfig(), noFace)
	noFaceBody := `{"status":"error","message":"No face detected in image"}`

	rec := serve(engine, uploadRequest(t, "/check-face/", gradientPNG(t), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, noFaceBody, rec.Body.String())

	rec = serve(engine, uploadRequest(t, "/save-face/", gradientPNG(t), map[string]string{"name": "bob"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, noFaceBody, rec.Body.String())
	assert.Zero(t, store.Len())
}

func TestUploadErrors(t *testing.T) {
	engine, store := newTestRouter(t, testConfig(), wholeImage)
	face := gradientPNG(t)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{
			name:   "check without file",
			req:    uploadRequest(t, "/check-face/", nil, nil),
			status: http.StatusBadRequest,
		},
		{
			name:   "check with text file",
			req:    uploadRequest(t, "/check-face/", []byte("hello, not an image"), nil),
			status: http.StatusBadRequest,
		},
		{
			name:   "check with truncated png",
			req:    uploadRequest(t, "/check-face/", face[:64], nil),
			status: http.StatusBadRequest,
		},
		{
			name:   "save without name",
			req:    uploadRequest(t, "/save-face/", face, nil),
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "save with path in name",
			req:    uploadRequest(t, "/save-face/", face, map[string]string{"name": "../escape"}),
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "save without file",
			req:    uploadRequest(t, "/save-face/", nil, map[string]string{"name": "carol"}),
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(engine, tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "error", decode(t, rec)["status"])
		})
	}
	assert.Zero(t, store.Len())
}

func TestUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadMB = 1
	engine, _ := newTestRouter(t, cfg, wholeImage)

	req := uploadRequest(t, "/check-face/", bytes.Repeat([]byte{0xff}, 2<<20), nil)
	rec := serve(engine, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])
}

func TestImageAbovePixelCapIsBadRequest(t *testing.T) {
	cfg := testConfig()
	cfg.MaxImagePixels = 100 * 100
	engine, store := newTestRouter(t, cfg, wholeImage)

	rec := serve(engine, uploadRequest(t, "/check-face/", gradientPNG(t), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])

	rec = serve(engine, uploadRequest(t, "/save-face/", gradientPNG(t), map[string]string{"name": "dave"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.Len())
}

func TestServiceRoutes(t *testing.T) {
	engine, _ := newTestRouter(t, testConfig(), wholeImage)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong!"}`, rec.Body.String())
	assert.Len(t, rec.Header().Get("X-Request-Id"), 26)

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "facegate_http_requests_total"))

	rec = serve(engine, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"GET /nowhere does not exist"}`, rec.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine, _ := newTestRouter(t, testConfig(), wholeImage)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "trace-123")
	rec := serve(engine, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-Id"))
}
