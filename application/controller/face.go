package controller

import (
	"errors"
	"net/http"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/controller/dto"
	"facegate.io/application/interfaces"
	"facegate.io/application/repository"
	"facegate.io/application/services/recognition"
	"facegate.io/application/utils"
	"facegate.io/infrastructure/logger"
	server_response "facegate.io/infrastructure/serverResponse"
	"facegate.io/infrastructure/validator"
)

// CheckFace reports whether the uploaded face has been enrolled before.
func CheckFace(ctx *interfaces.ApplicationContext[dto.CheckFaceDTO], service *recognition.Service) {
	if !isImageUpload(ctx.Ctx, ctx.Body.File, ctx.RequestID) {
		return
	}

	result, err := service.Check(ctx.RequestContext(), ctx.Body.File)
	if err != nil {
		handleRecognitionError(ctx.Ctx, err)
		return
	}

	switch result.Outcome {
	case recognition.OutcomeNoFace:
		apperrors.NoFaceDetected(ctx.Ctx)
	case recognition.OutcomeDuplicate:
		server_response.Responder.Respond(ctx.Ctx, http.StatusOK, dto.NewDuplicateFaceResponse(result.Label))
	default:
		server_response.Responder.Respond(ctx.Ctx, http.StatusOK, dto.NewUniqueFaceResponse())
	}
}

// SaveFace enrolls the uploaded face under the supplied name.
func SaveFace(ctx *interfaces.ApplicationContext[dto.SaveFaceDTO], service *recognition.Service) {
	if validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body); validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	if !isImageUpload(ctx.Ctx, ctx.Body.File, ctx.RequestID) {
		return
	}

	result, err := service.Enroll(ctx.RequestContext(), ctx.Body.File, ctx.Body.Name)
	if err != nil {
		handleRecognitionError(ctx.Ctx, err)
		return
	}
	if result.Outcome == recognition.OutcomeNoFace {
		apperrors.NoFaceDetected(ctx.Ctx)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, dto.NewSavedFaceResponse(result.Label, result.Features))
}

func ListFaces(ctx *interfaces.ApplicationContext[any], repo repository.FeatureRepository) {
	labels := repo.Labels()
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, dto.FaceListResponse{
		Count:  len(labels),
		Labels: labels,
	})
}

func isImageUpload(ctx any, data []byte, requestID string) bool {
	kind, ok := utils.DetectImageType(data)
	if !ok {
		logger.Info("upload rejected, not an image", logger.LoggerOptions{
			Key:  "content_type",
			Data: kind,
		}, logger.LoggerOptions{
			Key:  "request_id",
			Data: requestID,
		})
		apperrors.ErrorProcessingPayload(ctx, "uploaded file is not an image")
		return false
	}
	return true
}

func handleRecognitionError(ctx any, err error) {
	switch {
	case errors.Is(err, recognition.ErrDecodeFailure):
		apperrors.ErrorProcessingPayload(ctx, "could not decode the uploaded image")
	case errors.Is(err, recognition.ErrInvalidLabel):
		errs := []error{err}
		apperrors.ValidationFailedError(ctx, &errs)
	default:
		apperrors.FatalServerError(ctx, err)
	}
}
