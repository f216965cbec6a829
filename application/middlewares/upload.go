package middlewares

import (
	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/interfaces"
)

// UploadSizeMiddleware rejects requests that declare a body larger than
// limitMB. Bodies without a declared length are capped while being read.
func UploadSizeMiddleware(ctx *interfaces.ApplicationContext[any], contentLength int64, limitMB int) (*interfaces.ApplicationContext[any], bool) {
	if contentLength > int64(limitMB)<<20 {
		apperrors.PayloadTooLarge(ctx.Ctx, limitMB)
		return nil, false
	}
	return ctx, true
}
