package middlewares

import (
	"strconv"
	"time"

	"facegate.io/application/interfaces"
	"facegate.io/infrastructure/logger"
	"facegate.io/infrastructure/metrics"
	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs every request once it completes and records
// it in the http metrics. It must run after RequestContextMiddleware.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := ctx.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		options := []logger.LoggerOptions{
			{Key: "method", Data: ctx.Request.Method},
			{Key: "route", Data: route},
			{Key: "status", Data: status},
			{Key: "latency_ms", Data: elapsed.Milliseconds()},
		}
		if appContext, ok := ctx.Get("AppContext"); ok {
			appCtx := appContext.(*interfaces.ApplicationContext[any])
			options = append(options,
				logger.LoggerOptions{Key: "request_id", Data: appCtx.RequestID},
				logger.LoggerOptions{Key: "client", Data: appCtx.Client},
			)
		}
		if status >= 500 {
			logger.Error("request completed", options...)
			return
		}
		logger.Info("request completed", options...)
	}
}
