package server_response

import (
	"github.com/gin-gonic/gin"

	"facegate.io/infrastructure/logger"
)

type ginResponder struct{}

// Respond writes payload as the JSON body and stops the handler chain.
func (gr ginResponder) Respond(ctx interface{}, code int, payload interface{}) {
	ginCtx, ok := (ctx).(*gin.Context)
	if !ok {
		logger.Error("could not transform *interface{} to gin.Context in serverResponse package", logger.LoggerOptions{
			Key:  "payload",
			Data: ctx,
		})
		return
	}
	ginCtx.Abort()
	ginCtx.JSON(code, payload)
}

// RespondError sends the {"status":"error","message":...} body shared by every
// failure, with validation details under "errors" when there are any.
func (gr ginResponder) RespondError(ctx interface{}, code int, message string, errs []error) {
	response := map[string]any{
		"status":  "error",
		"message": message,
	}
	if len(errs) > 0 {
		errMsgs := []string{}
		for _, err := range errs {
			errMsgs = append(errMsgs, err.Error())
		}
		response["errors"] = errMsgs
	}
	gr.Respond(ctx, code, response)
}

var Responder = ginResponder{}
