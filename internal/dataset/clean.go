package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/harvest"
)

const backupTimeLayout = "20060102_150405"

// CleanResult reports what a denial purge did.
type CleanResult struct {
	Total      int
	Removed    int
	Remaining  int
	BackupPath string
}

// Backup copies the dataset to a timestamped sibling file and returns its
// path. Taken before any destructive rewrite.
func (s *Store) Backup(now time.Time) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read dataset for backup: %w", err)
	}
	backupPath := fmt.Sprintf("%s.backup_%s", s.path, now.Format(backupTimeLayout))
	if err := os.WriteFile(backupPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup %s: %w", backupPath, err)
	}
	s.logger.Info("backup created", zap.String("path", backupPath))
	return backupPath, nil
}

// RemoveDenied rewrites the dataset without denial-sentinel rows, backing the
// file up first. An already-clean file is left untouched and unbacked.
func (s *Store) RemoveDenied(now time.Time) (CleanResult, error) {
	records, err := s.Snapshot()
	if err != nil {
		return CleanResult{}, err
	}

	kept := make([]harvest.Record, 0, len(records))
	for _, r := range records {
		if !r.Denied() {
			kept = append(kept, r)
		}
	}

	result := CleanResult{
		Total:     len(records),
		Removed:   len(records) - len(kept),
		Remaining: len(kept),
	}
	if result.Removed == 0 {
		s.logger.Info("no denial rows found, dataset already clean",
			zap.String("path", s.path))
		return result, nil
	}

	backupPath, err := s.Backup(now)
	if err != nil {
		return CleanResult{}, err
	}
	result.BackupPath = backupPath

	if err := s.rewrite(kept); err != nil {
		return CleanResult{}, err
	}
	s.logger.Info("denial rows removed",
		zap.Int("removed", result.Removed),
		zap.Int("remaining", result.Remaining),
		zap.String("path", s.path),
	)
	return result, nil
}

func (s *Store) rewrite(records []harvest.Record) error {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("rewrite dataset %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(harvest.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(r.Fields()); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush dataset %s: %w", s.path, err)
	}
	return f.Sync()
}
