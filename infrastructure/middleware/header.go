package middlewares

import (
	"facegate.io/application/interfaces"
	"facegate.io/application/middlewares"
	"github.com/gin-gonic/gin"
)

func RequestContextMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.RequestContextMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:     ctx,
			Context: ctx.Request.Context(),
			Keys:    ctx.Keys,
			Header:  ctx.Request.Header,
		}, ctx.ClientIP())
		if next {
			ctx.Header(middlewares.RequestIDHeader, appContext.RequestID)
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}
