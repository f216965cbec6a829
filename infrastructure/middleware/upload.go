package middlewares

import (
	"net/http"

	"facegate.io/application/interfaces"
	"facegate.io/application/middlewares"
	"github.com/gin-gonic/gin"
)

func UploadSizeMiddleware(limitMB int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		savedCtx := (ctx.MustGet("AppContext")).(*interfaces.ApplicationContext[any])
		appContext, next := middlewares.UploadSizeMiddleware(savedCtx, ctx.Request.ContentLength, limitMB)
		if next {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, int64(limitMB)<<20)
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}
