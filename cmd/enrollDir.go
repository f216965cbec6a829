package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"facegate.io/application/services/recognition"
	"facegate.io/infrastructure/logger"
	startup "facegate.io/infrastructure/startUp"
	"facegate.io/infrastructure/validator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollDir string

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

var enrollDirCmd = &cobra.Command{
	Use:   "enroll-dir",
	Short: "Enroll every image in a directory, named after its file",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := imageFiles(enrollDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No images found in %s\n", enrollDir)
			return nil
		}

		services, err := startup.StartServices(cmd.Context(), Config)
		if err != nil {
			return err
		}
		defer startup.CleanUpServices(context.Background(), services)

		summary, err := enrollAll(cmd.Context(), services.Recognition, files)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ saved %d, 🙈 no face %d, ❌ failed %d\n", summary.saved, summary.noFace, summary.failed)
		return err
	},
}

func init() {
	enrollDirCmd.Flags().StringVarP(&enrollDir, "dir", "d", "", "Directory of face images")
	enrollDirCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(enrollDirCmd)
}

type enrollSummary struct {
	saved  int
	noFace int
	failed int
}

// imageFiles lists the images directly inside dir, sorted by name.
func imageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func labelFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// enrollAll keeps going past bad files. It stops early only when ctx is
// cancelled or the store can no longer be written.
func enrollAll(ctx context.Context, service *recognition.Service, files []string) (enrollSummary, error) {
	var summary enrollSummary
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("🧑 Enrolling"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	defer bar.Finish()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		bar.Add(1)

		label := labelFromPath(path)
		if err := validator.ValidatorInstance.ValidateValue(label, labelRules); err != nil {
			summary.failed++
			logger.Warning("skipping file with unusable name", logger.LoggerOptions{Key: "file", Data: path})
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			summary.failed++
			logger.Warning("could not read file", logger.LoggerOptions{Key: "file", Data: path}, logger.LoggerOptions{Key: "error", Data: err})
			continue
		}

		result, err := service.Enroll(ctx, data, label)
		switch {
		case errors.Is(err, recognition.ErrPersistence):
			summary.failed++
			return summary, err
		case err != nil:
			summary.failed++
			logger.Warning("could not enroll file", logger.LoggerOptions{Key: "file", Data: path}, logger.LoggerOptions{Key: "error", Data: err})
		case result.Outcome == recognition.OutcomeNoFace:
			summary.noFace++
		default:
			summary.saved++
		}
	}
	return summary, nil
}
