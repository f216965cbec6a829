package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	fileupload "facegate.io/infrastructure/file_upload"
	"github.com/spf13/cobra"
)

var (
	resetYes    bool
	resetImages bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every enrolled face",
	Long:  "Clears the feature store. With --images the saved face crops are removed as well.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes && !confirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), "⚠️  Are you sure you want to delete every enrolled face?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		labels := store.Labels()

		fmt.Fprintln(cmd.OutOrStdout(), "🗑️  Clearing feature store...")
		if err := store.Reset(cmd.Context()); err != nil {
			return err
		}

		if resetImages {
			images, err := fileupload.InitialiseFileUploader(cmd.Context(), Config)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "🗑️  Removing face images...")
			for _, label := range labels {
				if err := images.DeleteFaceImage(cmd.Context(), label); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Failed to remove image for %s: %v\n", label, err)
				}
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✨ Removed %d faces.\n", len(labels))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().BoolVar(&resetImages, "images", false, "Also delete the saved face images")
	rootCmd.AddCommand(resetCmd)
}

func confirm(r *bufio.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	res, _ := r.ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}
