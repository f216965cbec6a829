package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(rps float64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(TokenBucketPerIP(rps))
	engine.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })
	return engine
}

func hit(engine *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucketPerIPLimitsBursts(t *testing.T) {
	engine := newEngine(1)

	assert.Equal(t, http.StatusOK, hit(engine).Code)
	limited := hit(engine)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"status":"error","message":"You are going too fast! You have been ratelimited."}`, limited.Body.String())
}

func TestTokenBucketPerIPDisabled(t *testing.T) {
	engine := newEngine(0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(engine).Code)
	}
}
