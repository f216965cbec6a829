package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"facegate.io/application/controller/dto"
	"facegate.io/application/services/recognition"
	startup "facegate.io/infrastructure/startUp"
	"facegate.io/infrastructure/validator"
	"github.com/spf13/cobra"
)

var (
	inputPath  string
	enrollName string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the face in an image is already enrolled",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputPath, err)
		}
		services, err := startup.StartServices(cmd.Context(), Config)
		if err != nil {
			return err
		}
		defer startup.CleanUpServices(context.Background(), services)

		result, err := services.Recognition.Check(cmd.Context(), data)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), checkResponse(result))
	},
}

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll the face in an image under a name",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.ValidatorInstance.ValidateValue(enrollName, labelRules); err != nil {
			return fmt.Errorf("invalid name %q: %w", enrollName, err)
		}
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputPath, err)
		}
		services, err := startup.StartServices(cmd.Context(), Config)
		if err != nil {
			return err
		}
		defer startup.CleanUpServices(context.Background(), services)

		result, err := services.Recognition.Enroll(cmd.Context(), data, enrollName)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), enrollResponse(result))
	},
}

const labelRules = "required,max=128,face_label"

func init() {
	checkCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the image")
	checkCmd.MarkFlagRequired("input")

	enrollCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the image")
	enrollCmd.Flags().StringVarP(&enrollName, "name", "n", "", "Name to enroll the face under")
	enrollCmd.MarkFlagRequired("input")
	enrollCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(checkCmd, enrollCmd)
}

var noFaceResponse = map[string]string{
	"status":  dto.StatusError,
	"message": "No face detected in image",
}

// checkResponse renders a result with the same body the HTTP API sends.
func checkResponse(result recognition.CheckResult) any {
	switch result.Outcome {
	case recognition.OutcomeNoFace:
		return noFaceResponse
	case recognition.OutcomeDuplicate:
		return dto.NewDuplicateFaceResponse(result.Label)
	default:
		return dto.NewUniqueFaceResponse()
	}
}

func enrollResponse(result recognition.EnrollResult) any {
	if result.Outcome == recognition.OutcomeNoFace {
		return noFaceResponse
	}
	return dto.NewSavedFaceResponse(result.Label, result.Features)
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
