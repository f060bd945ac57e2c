// Package dataset implements the durable CSV store the harvest engine
// appends to. The file is the single source of truth for what has already
// been collected; all readers and writers agree on the fixed column order.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/pkruk/jobharvest/internal/harvest"
)

// Store appends records to a CSV dataset file, healing a missing header
// before any write. It assumes a single writer process per file.
type Store struct {
	path   string
	logger *zap.Logger
}

// New returns a store backed by the file at path. The file may not exist yet;
// the first append creates it.
func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the dataset file location.
func (s *Store) Path() string { return s.path }

func headerLine() string {
	return strings.Join(harvest.Header, ",")
}

// Append durably writes records to the dataset. A new file gets the header
// first; an existing headerless file is rewritten as header plus its original
// content before the new rows go on, preserving every prior row.
func (s *Store) Append(records []harvest.Record) error {
	if len(records) == 0 {
		return nil
	}

	writeHeader, err := s.ensureHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(harvest.Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
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
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync dataset %s: %w", s.path, err)
	}

	s.logger.Info("records appended",
		zap.Int("count", len(records)),
		zap.String("path", s.path),
	)
	return nil
}

// ensureHeader inspects the existing file and backfills the header on legacy
// files that lack one. It reports whether the caller must still write the
// header, which is only the case for a brand-new file.
func (s *Store) ensureHeader() (writeHeader bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read dataset %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return true, nil
	}

	firstLine, _, _ := strings.Cut(string(data), "\n")
	if strings.TrimRight(firstLine, "\r") == headerLine() {
		return false, nil
	}

	s.logger.Warn("dataset missing header, backfilling", zap.String("path", s.path))
	healed := headerLine() + "\n" + string(data)
	if err := os.WriteFile(s.path, []byte(healed), 0o600); err != nil {
		return false, fmt.Errorf("backfill header %s: %w", s.path, err)
	}
	return false, nil
}

// HasHeader reports whether the dataset file starts with the schema header.
// A missing or empty file counts as having one, since the first append
// writes it.
func (s *Store) HasHeader() (bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read dataset %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return true, nil
	}
	firstLine, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimRight(firstLine, "\r") == headerLine(), nil
}

// Snapshot reads every record in the dataset, in file order. A missing file
// yields an empty snapshot. Files without a header are read positionally
// against the fixed schema; short rows pad with empty fields.
func (s *Store) Snapshot() ([]harvest.Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("dataset not found, starting fresh", zap.String("path", s.path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []harvest.Record
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
		}
		if first {
			first = false
			if isHeaderRow(row) {
				continue
			}
		}
		records = append(records, harvest.RecordFromFields(row))
	}
	return records, nil
}

// CountValid returns the number of records with a real title, excluding
// denial-sentinel rows.
func (s *Store) CountValid() (int, error) {
	records, err := s.Snapshot()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if r.Valid() {
			count++
		}
	}
	return count, nil
}

func isHeaderRow(row []string) bool {
	if len(row) != len(harvest.Header) {
		return false
	}
	for i, field := range row {
		if field != harvest.Header[i] {
			return false
		}
	}
	return true
}
