package dto

import (
	"fmt"

	"facegate.io/entities"
)

const (
	StatusError     = "error"
	StatusDuplicate = "duplicate"
	StatusUnique    = "unique"
	StatusSuccess   = "success"
)

type CheckFaceDTO struct {
	File []byte `validate:"required"`
}

type SaveFaceDTO struct {
	Name string `validate:"required,max=128,face_label"`
	File []byte `validate:"required"`
}

type DuplicateFaceResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ExistingName string `json:"existing_name"`
}

type UniqueFaceResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	RequireName bool   `json:"require_name"`
}

type SavedFaceResponse struct {
	Status   string                 `json:"status"`
	Message  string                 `json:"message"`
	Features *entities.FaceFeatures `json:"features"`
}

type FaceListResponse struct {
	Count  int      `json:"count"`
	Labels []string `json:"labels"`
}

func NewDuplicateFaceResponse(name string) DuplicateFaceResponse {
	return DuplicateFaceResponse{
		Status:       StatusDuplicate,
		Message:      fmt.Sprintf("Face already exists as %s", name),
		ExistingName: name,
	}
}

func NewUniqueFaceResponse() UniqueFaceResponse {
	return UniqueFaceResponse{
		Status:      StatusUnique,
		Message:     "Face is new, please provide a name",
		RequireName: true,
	}
}

func NewSavedFaceResponse(name string, features *entities.FaceFeatures) SavedFaceResponse {
	return SavedFaceResponse{
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("New face saved as %s", name),
		Features: features,
	}
}
