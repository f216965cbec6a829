package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/database"
	"facegate.io/infrastructure/database/featurestore"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every enrolled name",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		labels := store.Labels()
		if len(labels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No faces enrolled.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "#\tNAME")
		fmt.Fprintln(w, "-\t----")
		for i, label := range labels {
			fmt.Fprintf(w, "%d\t%s\n", i+1, label)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// openStore loads the feature store without the face locator, for commands
// that never look at images.
func openStore(ctx context.Context) (*featurestore.Store, error) {
	scorer, err := biometric.NewScorer(Config.ScoringPolicy)
	if err != nil {
		return nil, err
	}
	return database.SetUpDatabase(ctx, Config, scorer)
}
