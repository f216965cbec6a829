package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"facegate.io/infrastructure/env"
	"github.com/spf13/cobra"
)

var (
	// Config is loaded once before any subcommand runs
	Config *env.Config

	envFile      string
	storeBackend string
	storePath    string
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "facegate",
	Short:         "Face duplicate detection service",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := env.LoadEnv(files...)
		if err != nil {
			return err
		}
		if storeBackend != "" {
			cfg.StoreBackend = storeBackend
		}
		if storePath != "" {
			cfg.StorePath = storePath
		}
		if err := env.ValidateConfig(cfg); err != nil {
			return err
		}
		Config = cfg
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "🚨 facegate: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Feature store backend: file, mongo or postgres (overrides FACEGATE_STORE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "Snapshot file for the file backend (overrides FACEGATE_STORE_PATH)")
}
