package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/audit"
	"github.com/pkruk/jobharvest/internal/dataset"
)

// newAuditCmd creates the 'audit' subcommand: a read-only uniqueness check
// over the dataset with an optional duplicate report export.
func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Analyze the dataset for duplicate records",
		Long: `Checks every record against four duplicate criteria (id, url,
title+company, full content) and reports excess occurrences. When duplicates
exist, a CSV report listing each duplicated key and its row positions is
written next to the dataset.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			logger := app.Logger.Named("audit")

			store := dataset.New(app.Config.Dataset.Path, logger)
			records, err := store.Snapshot()
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}
			if len(records) == 0 {
				logger.Warn("dataset empty or missing, nothing to audit",
					zap.String("path", app.Config.Dataset.Path))
				return nil
			}

			// Row positions in the report are file positions, so legacy
			// headerless files start counting at 1 instead of 2.
			hasHeader, err := store.HasHeader()
			if err != nil {
				return fmt.Errorf("inspect dataset: %w", err)
			}
			firstRow := 2
			if !hasHeader {
				firstRow = 1
			}

			analysis := audit.Analyze(records, firstRow)
			audit.Summarize(analysis, logger)

			if analysis.TotalExcess() == 0 {
				return nil
			}
			return audit.WriteReport(app.Config.Dataset.ReportPath, analysis, logger)
		},
	}
	return cmd
}
