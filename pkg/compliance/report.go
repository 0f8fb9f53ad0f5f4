package compliance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// ErrReportFinalized is returned when an asset is folded into a report that
// has already been finalized.
var ErrReportFinalized = errors.New("report already finalized")

// Report is the campaign-level aggregation of all per-asset compliance
// results. It is immutable once built.
type Report struct {
	ReportID         string         `json:"report_id"`
	BrandName        string         `json:"brand_name,omitempty"`
	GeneratedAt      string         `json:"generated_at"`
	TotalAssets      int            `json:"total_assets"`
	CompliantCount   int            `json:"compliant_count"`
	AverageScore     float64        `json:"average_score"`
	MostCommonIssues map[string]int `json:"most_common_issues"`
	PerAsset         []AssetResult  `json:"per_asset"`
}

// IssueCount pairs a failing check with how many assets it failed on.
type IssueCount struct {
	CheckName string `json:"check_name"`
	Count     int    `json:"count"`
}

// RankedIssues returns the failing checks sorted by count descending, ties
// broken by check execution order. This is a presentation helper; the
// canonical stored form is the unordered MostCommonIssues map.
func (r *Report) RankedIssues() []IssueCount {
	rank := make(map[string]int, len(checkOrder))
	for i, name := range checkOrder {
		rank[name] = i
	}
	pos := func(name string) int {
		if p, ok := rank[name]; ok {
			return p
		}
		return len(rank) // unknown checks sort last
	}
	issues := make([]IssueCount, 0, len(r.MostCommonIssues))
	for name, count := range r.MostCommonIssues {
		issues = append(issues, IssueCount{CheckName: name, Count: count})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Count != issues[j].Count {
			return issues[i].Count > issues[j].Count
		}
		if pos(issues[i].CheckName) != pos(issues[j].CheckName) {
			return pos(issues[i].CheckName) < pos(issues[j].CheckName)
		}
		return issues[i].CheckName < issues[j].CheckName
	})
	return issues
}

// WriteFile persists the report as indented JSON, creating parent
// directories as needed.
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadReport parses a previously persisted compliance report.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}

// ReportBuilder accumulates per-asset results during a campaign run:
// empty, then accumulating as each asset is folded in, then finalized.
// No asset may be folded into a finalized report.
type ReportBuilder struct {
	brandName string
	results   []AssetResult
	finalized bool
}

// NewReportBuilder starts an empty accumulator.
func NewReportBuilder(brandName string) *ReportBuilder {
	return &ReportBuilder{
		brandName: brandName,
		results:   make([]AssetResult, 0),
	}
}

// Add folds one asset result into the report, preserving insertion order.
func (b *ReportBuilder) Add(r AssetResult) error {
	if b.finalized {
		return ErrReportFinalized
	}
	b.results = append(b.results, r)
	return nil
}

// Finalize computes the aggregate report and freezes the builder. An empty
// batch yields a report with zero totals and average score 0.
func (b *ReportBuilder) Finalize() *Report {
	b.finalized = true

	compliant := 0
	scores := make([]float64, 0, len(b.results))
	issues := make(map[string]int)
	for _, res := range b.results {
		if res.IsCompliant {
			compliant++
		}
		scores = append(scores, res.Score)
		for _, check := range res.Checks {
			if !check.Passed {
				issues[check.CheckName]++
			}
		}
	}

	avg := 0.0
	if len(scores) > 0 {
		avg = stat.Mean(scores, nil)
	}

	return &Report{
		ReportID:         uuid.NewString(),
		BrandName:        b.brandName,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		TotalAssets:      len(b.results),
		CompliantCount:   compliant,
		AverageScore:     avg,
		MostCommonIssues: issues,
		PerAsset:         b.results,
	}
}
