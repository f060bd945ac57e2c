// Package audit analyzes a harvested dataset for duplicate records. It is a
// read-only client of the dataset file and never mutates it.
package audit

import (
	"sort"
	"strings"

	"github.com/pkruk/jobharvest/internal/harvest"
)

// Criterion names a duplicate-detection rule.
type Criterion string

// Duplicate criteria, from strongest identity to weakest.
const (
	CriterionID           Criterion = "ID"
	CriterionURL          Criterion = "URL"
	CriterionTitleCompany Criterion = "Title+Company"
	CriterionFullContent  Criterion = "Full_Content"
)

// Duplicate is one key that appears more than once under a criterion.
type Duplicate struct {
	Criterion Criterion
	Key       string
	// Rows holds 1-based dataset file positions; under a header the first
	// record sits at row 2.
	Rows []int
}

// Count returns how many times the key occurs.
func (d Duplicate) Count() int { return len(d.Rows) }

// Analysis is the result of a full uniqueness pass over the dataset.
type Analysis struct {
	TotalRecords int
	ValidRecords int
	ErrorRecords int
	Duplicates   map[Criterion][]Duplicate
}

// ExcessFor returns the number of surplus rows under a criterion: every
// occurrence of a duplicated key beyond the first.
func (a Analysis) ExcessFor(c Criterion) int {
	excess := 0
	for _, d := range a.Duplicates[c] {
		excess += d.Count() - 1
	}
	return excess
}

// TotalExcess sums the surplus rows across the identity criteria. Full-row
// duplicates are reported separately; they are already covered by the others.
func (a Analysis) TotalExcess() int {
	return a.ExcessFor(CriterionID) + a.ExcessFor(CriterionURL) + a.ExcessFor(CriterionTitleCompany)
}

// Analyze walks the records once and tracks row positions per key under
// every criterion. Denial-sentinel rows are excluded entirely: they are not
// records, so they can neither duplicate nor be duplicated. firstRow is the
// 1-based file position of the first record: 2 under a header, 1 without.
func Analyze(records []harvest.Record, firstRow int) Analysis {
	if firstRow < 1 {
		firstRow = 1
	}
	byID := map[string][]int{}
	byURL := map[string][]int{}
	byTitleCompany := map[string][]int{}
	byContent := map[string][]int{}

	analysis := Analysis{Duplicates: map[Criterion][]Duplicate{}}

	for i, r := range records {
		analysis.TotalRecords++
		if r.Denied() {
			analysis.ErrorRecords++
			continue
		}
		analysis.ValidRecords++
		row := i + firstRow

		if id := strings.TrimSpace(r.ID); id != "" {
			byID[id] = append(byID[id], row)
		}
		if u := strings.TrimSpace(r.URL); u != "" {
			byURL[u] = append(byURL[u], row)
		}
		title := strings.TrimSpace(r.Title)
		company := strings.TrimSpace(r.Company)
		if title != "" && company != "" {
			key := title + "|" + company
			byTitleCompany[key] = append(byTitleCompany[key], row)
		}
		content := strings.Join(r.Fields(), "|")
		byContent[content] = append(byContent[content], row)
	}

	analysis.Duplicates[CriterionID] = collect(CriterionID, byID)
	analysis.Duplicates[CriterionURL] = collect(CriterionURL, byURL)
	analysis.Duplicates[CriterionTitleCompany] = collect(CriterionTitleCompany, byTitleCompany)
	analysis.Duplicates[CriterionFullContent] = collect(CriterionFullContent, byContent)
	return analysis
}

func collect(c Criterion, positions map[string][]int) []Duplicate {
	var dups []Duplicate
	for key, rows := range positions {
		if len(rows) > 1 {
			dups = append(dups, Duplicate{Criterion: c, Key: key, Rows: rows})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		return dups[i].Rows[0] < dups[j].Rows[0]
	})
	return dups
}
