package ginrouter

import (
	"errors"
	"io"
	"net/http"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/controller"
	"facegate.io/application/controller/dto"
	"facegate.io/application/interfaces"
	"facegate.io/application/repository"
	"facegate.io/application/services/recognition"
	middlewares "facegate.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

// FaceRouter mounts the recognition endpoints. Upload routes are capped at
// maxUploadMB.
func FaceRouter(router *gin.RouterGroup, service *recognition.Service, repo repository.FeatureRepository, maxUploadMB int) {
	uploads := router.Group("/")
	uploads.Use(middlewares.UploadSizeMiddleware(maxUploadMB))
	{
		uploads.POST("/check-face/", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			file, ok := readUpload(ctx, maxUploadMB)
			if !ok {
				return
			}
			controller.CheckFace(&interfaces.ApplicationContext[dto.CheckFaceDTO]{
				Ctx:       ctx,
				Context:   appContext.Context,
				Body:      &dto.CheckFaceDTO{File: file},
				Keys:      appContext.Keys,
				Header:    appContext.Header,
				RequestID: appContext.RequestID,
				UserAgent: appContext.UserAgent,
				Client:    appContext.Client,
			}, service)
		})

		uploads.POST("/save-face/", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			file, ok := readUpload(ctx, maxUploadMB)
			if !ok {
				return
			}
			controller.SaveFace(&interfaces.ApplicationContext[dto.SaveFaceDTO]{
				Ctx:     ctx,
				Context: appContext.Context,
				Body: &dto.SaveFaceDTO{
					Name: ctx.PostForm("name"),
					File: file,
				},
				Keys:      appContext.Keys,
				Header:    appContext.Header,
				RequestID: appContext.RequestID,
				UserAgent: appContext.UserAgent,
				Client:    appContext.Client,
			}, service)
		})
	}

	router.GET("/faces", func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		controller.ListFaces(appContext, repo)
	})
}

// readUpload returns the bytes of the multipart "file" field, answering the
// request itself when there is none.
func readUpload(ctx *gin.Context, maxUploadMB int) ([]byte, bool) {
	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperrors.PayloadTooLarge(ctx, maxUploadMB)
			return nil, false
		}
		apperrors.ErrorProcessingPayload(ctx, "attach an image in the file field")
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		apperrors.ErrorProcessingPayload(ctx, "could not read the uploaded file")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.ErrorProcessingPayload(ctx, "could not read the uploaded file")
		return nil, false
	}
	return data, true
}
