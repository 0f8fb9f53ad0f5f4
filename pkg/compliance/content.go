package compliance

import (
	"fmt"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// QualityEstimator scores the visual quality of a rendered creative in
// [0,100]. Implementations must be deterministic for identical input and
// monotonic in sharpness and resolution.
type QualityEstimator interface {
	EstimateQuality(img image.Image) float64
}

// SharpnessEstimator is the default QualityEstimator. It starts from a
// resolution tier (more pixels, higher base) and adds a bonus for edge
// sharpness, measured as the variance of a Laplacian filter response over
// the grayscale image. This is a heuristic, not a calibrated metric.
type SharpnessEstimator struct{}

// EstimateQuality implements QualityEstimator.
func (SharpnessEstimator) EstimateQuality(img image.Image) float64 {
	if img == nil {
		return 0
	}
	pixels := img.Bounds().Dx() * img.Bounds().Dy()

	var base float64
	switch {
	case pixels >= 1_000_000:
		base = 90
	case pixels >= 500_000:
		base = 80
	case pixels >= 250_000:
		base = 70
	default:
		base = 60
	}

	bonus := laplacianVariance(img) / 25
	if bonus > 10 {
		bonus = 10
	}
	return min(100, base+bonus)
}

// laplacianVariance measures edge energy on a grayscale, bounded-size copy
// of the image. A flat image scores 0; busier, sharper images score higher.
func laplacianVariance(img image.Image) float64 {
	gray := imaging.Fit(imaging.Grayscale(img), 512, 512, imaging.NearestNeighbor)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w < 3 || h < 3 {
		return 0
	}

	at := func(x, y int) float64 {
		return float64(gray.Pix[gray.PixOffset(x, y)])
	}
	responses := make([]float64, 0, (w-2)*(h-2))
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1) - 4*at(x, y)
			responses = append(responses, lap)
		}
	}
	if len(responses) < 2 {
		return 0
	}
	return stat.Variance(responses, nil)
}

// ContentValidator checks the non-color attributes of an asset: overlay
// text, declared aspect ratio and estimated visual quality.
type ContentValidator struct {
	estimator QualityEstimator
}

// NewContentValidator returns a validator using the given estimator, or the
// default SharpnessEstimator when nil.
func NewContentValidator(e QualityEstimator) *ContentValidator {
	if e == nil {
		e = SharpnessEstimator{}
	}
	return &ContentValidator{estimator: e}
}

// ValidateTextLength reports whether the overlay text fits within maxLength
// characters. Absent text always passes.
func (v *ContentValidator) ValidateTextLength(text string, maxLength int) (bool, string) {
	n := utf8.RuneCountInString(text)
	if n <= maxLength {
		return true, fmt.Sprintf("text length OK (%d/%d)", n, maxLength)
	}
	return false, fmt.Sprintf("text too long (%d/%d)", n, maxLength)
}

// FindForbiddenWords returns the forbidden words present in the text, using
// case-insensitive substring matching.
func (v *ContentValidator) FindForbiddenWords(text string, words []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			found = append(found, w)
		}
	}
	return found
}

// ValidateAspectRatio reports whether the declared ratio label is allowed.
// An empty allowed list permits everything.
func (v *ContentValidator) ValidateAspectRatio(declared string, allowed []string) (bool, string) {
	if len(allowed) == 0 {
		return true, "no aspect ratio restrictions"
	}
	for _, a := range allowed {
		if declared == a {
			return true, fmt.Sprintf("aspect ratio %s is allowed", declared)
		}
	}
	return false, fmt.Sprintf("aspect ratio %s not in allowed list: %s", declared, strings.Join(allowed, ", "))
}

// EstimateQuality exposes the configured estimator.
func (v *ContentValidator) EstimateQuality(img image.Image) float64 {
	return v.estimator.EstimateQuality(img)
}

// ValidateQuality reports whether the estimated quality meets the minimum.
func (v *ContentValidator) ValidateQuality(img image.Image, minQuality float64) (bool, float64) {
	q := v.estimator.EstimateQuality(img)
	return q >= minQuality, q
}
