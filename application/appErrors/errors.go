package apperrors

import (
	"net/http"

	"facegate.io/infrastructure/logger"
	server_response "facegate.io/infrastructure/serverResponse"
)

func NotFoundError(ctx interface{}, message string) {
	server_response.Responder.RespondError(ctx, http.StatusNotFound, message, nil)
}

func ValidationFailedError(ctx interface{}, errMessages *[]error) {
	server_response.Responder.RespondError(ctx, http.StatusUnprocessableEntity, "Payload validation failed 🙄", *errMessages)
}

func ErrorProcessingPayload(ctx interface{}, message string) {
	server_response.Responder.RespondError(ctx, http.StatusBadRequest, message, nil)
}

func PayloadTooLarge(ctx interface{}, limitMB int) {
	server_response.Responder.RespondError(ctx, http.StatusRequestEntityTooLarge,
		"upload is larger than the allowed size", nil)
	logger.Warning("upload rejected for size", logger.LoggerOptions{Key: "limit_mb", Data: limitMB})
}

func FatalServerError(ctx interface{}, err error) {
	logger.Error("request failed", logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.RespondError(ctx, http.StatusInternalServerError,
		"Omo! Our service is temporarily down 😢. Our team is working to fix it. Please check back later.", nil)
}

// NoFaceDetected is an expected outcome, not a failure, so it is sent with 200.
func NoFaceDetected(ctx interface{}) {
	server_response.Responder.RespondError(ctx, http.StatusOK, "No face detected in image", nil)
}
