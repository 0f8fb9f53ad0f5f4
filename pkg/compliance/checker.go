package compliance

import (
	"fmt"
	"strings"

	"github.com/creativeforge/brandcheck/util/log"
)

// DefaultPassThreshold is the minimum score for a compliant asset.
const DefaultPassThreshold = 70.0

// Checker runs the fixed compliance check sequence against assets. It is a
// pure function per asset: the same asset and guidelines always produce the
// same AssetResult.
type Checker struct {
	guidelines *Guidelines
	colors     *ColorAnalyzer
	content    *ContentValidator
	threshold  float64
}

// CheckerOption customizes a Checker.
type CheckerOption func(*Checker)

// WithPassThreshold overrides the default compliance score threshold.
func WithPassThreshold(t float64) CheckerOption {
	return func(c *Checker) { c.threshold = t }
}

// WithQualityEstimator swaps the quality heuristic.
func WithQualityEstimator(e QualityEstimator) CheckerOption {
	return func(c *Checker) { c.content = NewContentValidator(e) }
}

// WithPaletteSize overrides how many dominant colors are extracted per asset.
func WithPaletteSize(k int) CheckerOption {
	return func(c *Checker) {
		if k > 0 {
			c.colors.paletteSize = k
		}
	}
}

// NewChecker creates a checker for the given guidelines.
func NewChecker(g *Guidelines, opts ...CheckerOption) *Checker {
	c := &Checker{
		guidelines: g,
		colors:     NewColorAnalyzer(),
		content:    NewContentValidator(nil),
		threshold:  DefaultPassThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Guidelines returns the policy this checker validates against.
func (c *Checker) Guidelines() *Guidelines {
	return c.guidelines
}

// CheckAsset runs all six checks against one asset, in the fixed order, and
// folds them into a verdict. An unreadable image fails the color and quality
// checks as critical; it never aborts the asset or panics.
func (c *Checker) CheckAsset(a Asset) AssetResult {
	g := c.guidelines

	var palette []DominantColor
	if a.Image != nil {
		palette = safeExtract(c.colors, a)
	}

	checks := make([]CheckResult, 0, len(checkOrder))

	checks = append(checks, runCheck(CheckRequiredColors, SeverityCritical, func() (bool, Severity, string) {
		if len(g.RequiredColors) == 0 {
			return true, SeverityCritical, "no required colors configured"
		}
		if a.Image == nil {
			return false, SeverityCritical, unreadableDetail(a)
		}
		missing := c.colors.MissingRequired(palette, g.RequiredColors, g.ColorTolerance)
		if len(missing) > 0 {
			return false, SeverityCritical, "missing brand colors: " + strings.Join(missing, ", ")
		}
		return true, SeverityCritical, fmt.Sprintf("all %d brand colors present", len(g.RequiredColors))
	}))

	checks = append(checks, runCheck(CheckForbiddenColors, SeverityCritical, func() (bool, Severity, string) {
		if len(g.ForbiddenColors) == 0 {
			return true, SeverityCritical, "no forbidden colors configured"
		}
		if a.Image == nil {
			return false, SeverityCritical, unreadableDetail(a)
		}
		found := c.colors.ForbiddenPresent(palette, g.ForbiddenColors, g.ColorTolerance)
		if len(found) > 0 {
			return false, SeverityCritical, "forbidden colors found: " + strings.Join(found, ", ")
		}
		return true, SeverityCritical, "no forbidden colors detected"
	}))

	checks = append(checks, runCheck(CheckTextLength, SeverityWarning, func() (bool, Severity, string) {
		ok, detail := c.content.ValidateTextLength(a.Text, g.MaxTextLength)
		return ok, SeverityWarning, detail
	}))

	checks = append(checks, runCheck(CheckForbiddenWords, SeverityCritical, func() (bool, Severity, string) {
		found := c.content.FindForbiddenWords(a.Text, g.ForbiddenWords)
		if len(found) > 0 {
			return false, SeverityCritical, "forbidden words found: " + strings.Join(found, ", ")
		}
		return true, SeverityCritical, "no forbidden words detected"
	}))

	checks = append(checks, runCheck(CheckAspectRatio, SeverityWarning, func() (bool, Severity, string) {
		ok, detail := c.content.ValidateAspectRatio(a.AspectRatio, g.RequiredAspectRatios)
		return ok, SeverityWarning, detail
	}))

	checks = append(checks, runCheck(CheckImageQuality, SeverityWarning, func() (bool, Severity, string) {
		if a.Image == nil {
			return false, SeverityCritical, unreadableDetail(a)
		}
		ok, quality := c.content.ValidateQuality(a.Image, g.MinImageQuality)
		if !ok {
			return false, SeverityWarning, fmt.Sprintf("quality too low (%.0f < %.0f)", quality, g.MinImageQuality)
		}
		return true, SeverityWarning, fmt.Sprintf("quality acceptable (%.0f)", quality)
	}))

	result := newAssetResult(a.Path, checks, c.threshold)
	log.Debugf("checked %s: score %.1f, compliant %v", a.Path, result.Score, result.IsCompliant)
	return result
}

// CheckBatch checks each asset in order and folds the results into a
// finalized campaign report. One unreadable asset never stops the rest of
// the batch.
func (c *Checker) CheckBatch(assets []Asset) *Report {
	b := NewReportBuilder(c.guidelines.BrandName)
	for _, a := range assets {
		// Add cannot fail here: the builder is finalized only below.
		_ = b.Add(c.CheckAsset(a))
	}
	return b.Finalize()
}

// runCheck executes one check, converting a panic into a failed critical
// check instead of letting it escape the asset or the batch.
func runCheck(name string, severity Severity, fn func() (bool, Severity, string)) (res CheckResult) {
	res = CheckResult{CheckName: name, Severity: severity}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("check %s panicked: %v", name, r)
			res.Passed = false
			res.Severity = SeverityCritical
			res.Detail = fmt.Sprintf("check could not be evaluated: %v", r)
		}
	}()
	res.Passed, res.Severity, res.Detail = fn()
	return res
}

// safeExtract shields the checker from faults inside palette extraction;
// a nil palette then fails the color checks with a useful detail.
func safeExtract(analyzer *ColorAnalyzer, a Asset) (palette []DominantColor) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("palette extraction for %s panicked: %v", a.Path, r)
			palette = nil
		}
	}()
	return analyzer.ExtractDominantColors(a.Image, analyzer.paletteSize)
}

func unreadableDetail(a Asset) string {
	if a.ReadErr != nil {
		return "could not read image: " + a.ReadErr.Error()
	}
	return "could not read image"
}
