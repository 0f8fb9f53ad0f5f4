package compliance

import "image"

// Severity tags how a failed check affects the verdict. A critical failure
// forces the asset to be non-compliant regardless of score; a warning failure
// only lowers the score.
type Severity string

// Check severities.
const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Names of the per-asset checks, in execution order.
const (
	CheckRequiredColors  = "required_colors"
	CheckForbiddenColors = "forbidden_colors"
	CheckTextLength      = "text_length"
	CheckForbiddenWords  = "forbidden_words"
	CheckAspectRatio     = "aspect_ratio"
	CheckImageQuality    = "image_quality"
)

// checkOrder is the fixed per-asset check sequence. Scores, report issue
// ranking tie-breaks and golden outputs all depend on this order.
var checkOrder = []string{
	CheckRequiredColors,
	CheckForbiddenColors,
	CheckTextLength,
	CheckForbiddenWords,
	CheckAspectRatio,
	CheckImageQuality,
}

// Asset is one finished creative handed over by the generation pipeline:
// the decoded raster image, the literal overlay text rendered onto it, and
// the target aspect-ratio label it was produced for.
type Asset struct {
	Path        string
	Image       image.Image // nil when the image data could not be decoded
	Text        string
	AspectRatio string
	ReadErr     error // decode failure reported by the supplying pipeline, if any
}

// CheckResult is the outcome of one named compliance check.
type CheckResult struct {
	CheckName string   `json:"check_name"`
	Passed    bool     `json:"passed"`
	Detail    string   `json:"detail"`
	Severity  Severity `json:"severity"`
}

// AssetResult is the aggregated compliance verdict for one asset.
type AssetResult struct {
	AssetPath   string        `json:"asset_path"`
	Checks      []CheckResult `json:"checks"`
	Score       float64       `json:"score"`
	IsCompliant bool          `json:"is_compliant"`
}

// newAssetResult folds individual check outcomes into a verdict:
// score = 100 x passed/total, compliant when the score meets the threshold
// and no critical check failed.
func newAssetResult(path string, checks []CheckResult, threshold float64) AssetResult {
	passed := 0
	criticalFailed := false
	for _, c := range checks {
		if c.Passed {
			passed++
		} else if c.Severity == SeverityCritical {
			criticalFailed = true
		}
	}

	score := 0.0
	if len(checks) > 0 {
		score = 100 * float64(passed) / float64(len(checks))
	}

	return AssetResult{
		AssetPath:   path,
		Checks:      checks,
		Score:       score,
		IsCompliant: score >= threshold && !criticalFailed,
	}
}
