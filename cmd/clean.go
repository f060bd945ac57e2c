package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/clock/system"
	"github.com/pkruk/jobharvest/internal/dataset"
)

// newCleanCmd creates the 'clean' subcommand, which purges denial-sentinel
// rows from the dataset after taking a timestamped backup.
func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove blocked-fetch rows from the dataset",
		Long: `Rewrites the dataset without rows whose title is the denial sentinel.
A timestamped backup copy is created first. An already-clean dataset is left
untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			logger := app.Logger.Named("clean")

			store := dataset.New(app.Config.Dataset.Path, logger)
			result, err := store.RemoveDenied(system.New().Now())
			if err != nil {
				return fmt.Errorf("clean dataset: %w", err)
			}
			logger.Info("clean finished",
				zap.Int("total", result.Total),
				zap.Int("removed", result.Removed),
				zap.Int("remaining", result.Remaining),
				zap.String("backup", result.BackupPath),
			)
			return nil
		},
	}
	return cmd
}
