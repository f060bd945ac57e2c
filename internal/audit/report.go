package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const maxExportKeyLen = 100

// WriteReport exports every duplicate found, one row per duplicated key, as
// `Type,Value,Row_Positions,Count`. Full-row keys are truncated so the report
// stays readable.
func WriteReport(path string, analysis Analysis, logger *zap.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Type", "Value", "Row_Positions", "Count"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	order := []Criterion{CriterionID, CriterionURL, CriterionTitleCompany, CriterionFullContent}
	for _, c := range order {
		for _, dup := range analysis.Duplicates[c] {
			key := dup.Key
			if c == CriterionFullContent && len(key) > maxExportKeyLen {
				key = key[:maxExportKeyLen] + "..."
			}
			row := []string{
				string(c),
				key,
				joinRows(dup.Rows),
				strconv.Itoa(dup.Count()),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write report row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report %s: %w", path, err)
	}
	logger.Info("duplicate report written", zap.String("path", path))
	return nil
}

// Summarize logs the headline numbers of an analysis.
func Summarize(analysis Analysis, logger *zap.Logger) {
	logger.Info("uniqueness analysis",
		zap.Int("total_records", analysis.TotalRecords),
		zap.Int("valid_records", analysis.ValidRecords),
		zap.Int("error_records", analysis.ErrorRecords),
		zap.Int("id_excess", analysis.ExcessFor(CriterionID)),
		zap.Int("url_excess", analysis.ExcessFor(CriterionURL)),
		zap.Int("title_company_excess", analysis.ExcessFor(CriterionTitleCompany)),
		zap.Int("full_content_excess", analysis.ExcessFor(CriterionFullContent)),
	)
	if analysis.TotalExcess() == 0 {
		logger.Info("dataset is unique, no duplicates found")
	} else {
		logger.Warn("dataset has duplicates",
			zap.Int("excess_rows", analysis.TotalExcess()))
	}
}

func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}
