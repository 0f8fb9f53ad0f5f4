package compliance

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DominantColor is one palette entry: a representative color and the share
// of opaque pixels it covers, in [0,1].
type DominantColor struct {
	Color  colorful.Color
	Weight float64
}

// Hex returns the palette entry as a #rrggbb string.
func (d DominantColor) Hex() string {
	return d.Color.Hex()
}

// ColorAnalyzer extracts a dominant-color palette from a raster image and
// answers membership queries against it under a tolerance. Matching uses
// Euclidean RGB distance scaled to the 0-255 channel range, so a tolerance
// of 50 means "within 50 units of straight-line distance in RGB space".
type ColorAnalyzer struct {
	sampleSize  int // images are downsampled to fit this edge before binning
	paletteSize int
}

// NewColorAnalyzer returns an analyzer with the default sample and palette
// sizes.
func NewColorAnalyzer() *ColorAnalyzer {
	return &ColorAnalyzer{sampleSize: 200, paletteSize: 5}
}

// colorBucket accumulates the pixels quantized into one histogram cell.
type colorBucket struct {
	key     uint32
	count   int
	r, g, b uint64 // channel sums for the representative mean
}

// ExtractDominantColors returns up to k palette entries ordered most
// prominent first. The image is downsampled with a nearest-neighbor filter
// (no new colors are invented), pixels are binned into a 32-level-per-channel
// histogram, and each bin is represented by its mean color. Ties are broken
// by packed RGB value so the palette is deterministic for identical input.
// Fully transparent pixels carry zero weight. A near-uniform image yields a
// single entry.
func (a *ColorAnalyzer) ExtractDominantColors(img image.Image, k int) []DominantColor {
	if img == nil || k <= 0 {
		return nil
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil
	}

	thumb := imaging.Fit(img, a.sampleSize, a.sampleSize, imaging.NearestNeighbor)

	buckets := make(map[uint32]*colorBucket)
	total := 0
	for i := 0; i < len(thumb.Pix); i += 4 {
		r, g, b, alpha := thumb.Pix[i], thumb.Pix[i+1], thumb.Pix[i+2], thumb.Pix[i+3]
		if alpha == 0 {
			continue
		}
		key := uint32(r>>3)<<10 | uint32(g>>3)<<5 | uint32(b>>3)
		bk, ok := buckets[key]
		if !ok {
			bk = &colorBucket{key: key}
			buckets[key] = bk
		}
		bk.count++
		bk.r += uint64(r)
		bk.g += uint64(g)
		bk.b += uint64(b)
		total++
	}
	if total == 0 {
		return nil
	}

	ordered := make([]*colorBucket, 0, len(buckets))
	for _, bk := range buckets {
		ordered = append(ordered, bk)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].key < ordered[j].key
	})

	if len(ordered) > k {
		ordered = ordered[:k]
	}
	palette := make([]DominantColor, len(ordered))
	for i, bk := range ordered {
		n := float64(bk.count)
		palette[i] = DominantColor{
			Color: colorful.Color{
				R: float64(bk.r) / n / 255,
				G: float64(bk.g) / n / 255,
				B: float64(bk.b) / n / 255,
			},
			Weight: n / float64(total),
		}
	}
	return palette
}

// MissingRequired returns the required colors that have no dominant color
// within tolerance. The match predicate is monotonic non-decreasing in
// tolerance. An empty required list trivially yields no missing colors.
func (a *ColorAnalyzer) MissingRequired(palette []DominantColor, required []string, tolerance float64) []string {
	var missing []string
	for _, raw := range required {
		want, err := parseColor(raw)
		if err != nil {
			missing = append(missing, raw)
			continue
		}
		if !paletteContains(palette, want, tolerance) {
			missing = append(missing, raw)
		}
	}
	return missing
}

// ForbiddenPresent returns the forbidden colors that appear in the palette
// within tolerance.
func (a *ColorAnalyzer) ForbiddenPresent(palette []DominantColor, forbidden []string, tolerance float64) []string {
	var found []string
	for _, raw := range forbidden {
		avoid, err := parseColor(raw)
		if err != nil {
			continue
		}
		if paletteContains(palette, avoid, tolerance) {
			found = append(found, raw)
		}
	}
	return found
}

func paletteContains(palette []DominantColor, target colorful.Color, tolerance float64) bool {
	for _, dc := range palette {
		if colorDistance(dc.Color, target) <= tolerance {
			return true
		}
	}
	return false
}

// colorDistance is the Euclidean RGB distance between two colors scaled to
// the 0-255 channel range, matching the units of color_tolerance.
func colorDistance(a, b colorful.Color) float64 {
	return a.DistanceRgb(b) * 255
}

// parseColor accepts "#rrggbb", "#rgb" or an "r,g,b" triplet.
func parseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		return c, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return colorful.Color{}, fmt.Errorf("invalid color %q, want #rrggbb or r,g,b", s)
	}
	var ch [3]float64
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return colorful.Color{}, fmt.Errorf("invalid color %q, channel %q out of range", s, p)
		}
		ch[i] = float64(v) / 255
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}
