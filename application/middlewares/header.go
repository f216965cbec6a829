package middlewares

import (
	"facegate.io/application/interfaces"
	"facegate.io/application/utils"
	"facegate.io/infrastructure/useragent"
)

const RequestIDHeader = "X-Request-Id"

// RequestContextMiddleware stamps the request with an id and the caller's
// user agent. A client supplied X-Request-Id is kept so traces line up.
func RequestContextMiddleware(ctx *interfaces.ApplicationContext[any], clientIP string) (*interfaces.ApplicationContext[any], bool) {
	if id := ctx.GetHeader(RequestIDHeader); id != nil && len(*id) <= 64 {
		ctx.RequestID = *id
	} else {
		ctx.RequestID = utils.GenerateULIDString()
	}
	if agent := ctx.GetHeader("User-Agent"); agent != nil {
		ctx.UserAgent = *agent
		ctx.Client = useragent.ParseUserAgent(*agent).Name
	}
	if ctx.Keys == nil {
		ctx.Keys = map[string]any{}
	}
	ctx.Keys["ClientIP"] = clientIP
	return ctx, true
}
