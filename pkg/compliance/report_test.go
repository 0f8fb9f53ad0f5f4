package compliance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passResult(path string) AssetResult {
	checks := make([]CheckResult, len(checkOrder))
	for i, name := range checkOrder {
		checks[i] = CheckResult{CheckName: name, Passed: true, Detail: "ok", Severity: SeverityWarning}
	}
	return newAssetResult(path, checks, DefaultPassThreshold)
}

// failResult fails the named checks, leaving the rest passing.
func failResult(path string, severity Severity, failing ...string) AssetResult {
	res := passResult(path)
	for i := range res.Checks {
		for _, name := range failing {
			if res.Checks[i].CheckName == name {
				res.Checks[i].Passed = false
				res.Checks[i].Severity = severity
				res.Checks[i].Detail = "failed"
			}
		}
	}
	return newAssetResult(path, res.Checks, DefaultPassThreshold)
}

func TestReportAggregation(t *testing.T) {
	b := NewReportBuilder("Acme")
	require.NoError(t, b.Add(passResult("a.png")))
	require.NoError(t, b.Add(passResult("b.png")))
	require.NoError(t, b.Add(passResult("c.png")))
	require.NoError(t, b.Add(failResult("d.png", SeverityWarning, CheckAspectRatio)))

	r := b.Finalize()

	assert.Equal(t, 4, r.TotalAssets)
	assert.Equal(t, 4, r.CompliantCount, "a single warning failure stays above threshold")
	assert.InDelta(t, (100.0*3+100.0*5/6)/4, r.AverageScore, 0.01)
	assert.Equal(t, map[string]int{CheckAspectRatio: 1}, r.MostCommonIssues)
	require.Len(t, r.PerAsset, 4)
	assert.Equal(t, "d.png", r.PerAsset[3].AssetPath, "per-asset order = processing order")
	assert.NotEmpty(t, r.ReportID)
	assert.NotEmpty(t, r.GeneratedAt)
}

func TestReportCriticalFailuresExcludedFromCompliantCount(t *testing.T) {
	b := NewReportBuilder("Acme")
	require.NoError(t, b.Add(passResult("a.png")))
	require.NoError(t, b.Add(failResult("b.png", SeverityCritical, CheckForbiddenWords)))

	r := b.Finalize()
	assert.Equal(t, 1, r.CompliantCount)
}

func TestEmptyReport(t *testing.T) {
	r := NewReportBuilder("").Finalize()

	assert.Equal(t, 0, r.TotalAssets)
	assert.Equal(t, 0, r.CompliantCount)
	assert.Equal(t, 0.0, r.AverageScore)
	assert.Empty(t, r.MostCommonIssues)
	assert.Empty(t, r.PerAsset)
}

func TestAddAfterFinalize(t *testing.T) {
	b := NewReportBuilder("Acme")
	require.NoError(t, b.Add(passResult("a.png")))
	b.Finalize()

	assert.ErrorIs(t, b.Add(passResult("b.png")), ErrReportFinalized)
}

func TestMostCommonIssuesCounting(t *testing.T) {
	b := NewReportBuilder("Acme")
	require.NoError(t, b.Add(failResult("a.png", SeverityCritical, CheckForbiddenWords, CheckTextLength)))
	require.NoError(t, b.Add(failResult("b.png", SeverityCritical, CheckForbiddenWords)))
	require.NoError(t, b.Add(failResult("c.png", SeverityWarning, CheckAspectRatio)))
	require.NoError(t, b.Add(failResult("d.png", SeverityCritical, CheckForbiddenWords, CheckAspectRatio)))

	r := b.Finalize()
	assert.Equal(t, map[string]int{
		CheckForbiddenWords: 3,
		CheckTextLength:     1,
		CheckAspectRatio:    2,
	}, r.MostCommonIssues)
}

func TestRankedIssuesTieBreakByCheckOrder(t *testing.T) {
	r := &Report{MostCommonIssues: map[string]int{
		CheckAspectRatio:    2,
		CheckTextLength:     2,
		CheckForbiddenWords: 5,
	}}

	ranked := r.RankedIssues()
	require.Len(t, ranked, 3)
	assert.Equal(t, CheckForbiddenWords, ranked[0].CheckName)
	assert.Equal(t, CheckTextLength, ranked[1].CheckName, "ties resolve by check execution order")
	assert.Equal(t, CheckAspectRatio, ranked[2].CheckName)
}

func TestReportRoundTrip(t *testing.T) {
	b := NewReportBuilder("Acme")
	require.NoError(t, b.Add(passResult("a.png")))
	require.NoError(t, b.Add(failResult("b.png", SeverityCritical, CheckForbiddenColors)))
	original := b.Finalize()

	path := filepath.Join(t.TempDir(), "reports", "compliance_report.json")
	require.NoError(t, original.WriteFile(path))

	loaded, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestReadReportErrors(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
