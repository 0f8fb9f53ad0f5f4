package compliance

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillImage returns a w x h image where every pixel has the given color.
func fillImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// splitImage returns an image whose left half is one color and right half
// another.
func splitImage(w, h int, left, right color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return img
}

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func TestExtractDominantColorsUniformImage(t *testing.T) {
	palette := NewColorAnalyzer().ExtractDominantColors(fillImage(100, 100, red), 5)

	require.Len(t, palette, 1, "uniform image must yield a single dominant entry")
	assert.Equal(t, "#ff0000", palette[0].Hex())
	assert.Equal(t, 1.0, palette[0].Weight)
}

func TestExtractDominantColorsTwoColorImage(t *testing.T) {
	palette := NewColorAnalyzer().ExtractDominantColors(splitImage(100, 100, red, blue), 5)

	require.Len(t, palette, 2)
	hexes := []string{palette[0].Hex(), palette[1].Hex()}
	assert.ElementsMatch(t, []string{"#ff0000", "#0000ff"}, hexes)
	assert.InDelta(t, 0.5, palette[0].Weight, 0.02)
	assert.InDelta(t, 0.5, palette[1].Weight, 0.02)
}

func TestExtractDominantColorsMostProminentFirst(t *testing.T) {
	// 3/4 green, 1/4 red.
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 25 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, green)
			}
		}
	}

	palette := NewColorAnalyzer().ExtractDominantColors(img, 5)
	require.Len(t, palette, 2)
	assert.Equal(t, "#00ff00", palette[0].Hex())
	assert.Greater(t, palette[0].Weight, palette[1].Weight)
}

func TestExtractDominantColorsRespectsK(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 80, 80))
	colors := []color.NRGBA{red, green, blue, {R: 255, G: 255, A: 255}, {R: 255, G: 255, B: 255, A: 255}, {R: 128, G: 0, B: 128, A: 255}}
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.SetNRGBA(x, y, colors[(x*6)/80])
		}
	}

	palette := NewColorAnalyzer().ExtractDominantColors(img, 3)
	assert.Len(t, palette, 3)
}

func TestExtractDominantColorsIgnoresTransparentPixels(t *testing.T) {
	transparent := color.NRGBA{}
	palette := NewColorAnalyzer().ExtractDominantColors(splitImage(100, 100, transparent, green), 5)

	require.Len(t, palette, 1)
	assert.Equal(t, "#00ff00", palette[0].Hex())
	assert.Equal(t, 1.0, palette[0].Weight, "transparent pixels must carry zero weight")
}

func TestExtractDominantColorsFullyTransparent(t *testing.T) {
	assert.Nil(t, NewColorAnalyzer().ExtractDominantColors(fillImage(50, 50, color.NRGBA{}), 5))
}

func TestExtractDominantColorsNilImage(t *testing.T) {
	assert.Nil(t, NewColorAnalyzer().ExtractDominantColors(nil, 5))
}

func TestExtractDominantColorsDeterministic(t *testing.T) {
	img := splitImage(120, 90, red, blue)
	a := NewColorAnalyzer()
	assert.Equal(t, a.ExtractDominantColors(img, 5), a.ExtractDominantColors(img, 5))
}

func TestMissingRequired(t *testing.T) {
	a := NewColorAnalyzer()
	palette := a.ExtractDominantColors(fillImage(100, 100, red), 5)

	assert.Empty(t, a.MissingRequired(palette, nil, 50), "empty required list trivially passes")
	assert.Empty(t, a.MissingRequired(palette, []string{"#FF0000"}, 10))
	assert.Equal(t, []string{"#0000FF"}, a.MissingRequired(palette, []string{"#0000FF"}, 50))
}

func TestForbiddenPresent(t *testing.T) {
	a := NewColorAnalyzer()
	palette := a.ExtractDominantColors(splitImage(100, 100, red, blue), 5)

	assert.Empty(t, a.ForbiddenPresent(palette, nil, 50))
	assert.Equal(t, []string{"#FF0000"}, a.ForbiddenPresent(palette, []string{"#FF0000"}, 10))
	assert.Empty(t, a.ForbiddenPresent(palette, []string{"#00FF00"}, 50))
}

func TestToleranceMonotonicity(t *testing.T) {
	a := NewColorAnalyzer()
	palette := a.ExtractDominantColors(fillImage(100, 100, red), 5)

	// #ff3200 sits exactly 50 RGB-distance units away from pure red. Once a
	// tolerance admits the match, every larger tolerance must too.
	matched := false
	for tol := 0.0; tol <= 120; tol += 5 {
		missing := a.MissingRequired(palette, []string{"#ff3200"}, tol)
		if matched {
			assert.Empty(t, missing, "match must not disappear at tolerance %v", tol)
		}
		if len(missing) == 0 {
			matched = true
		}
	}
	assert.True(t, matched, "a 120 tolerance must admit a distance-50 match")
}

func TestColorDistance(t *testing.T) {
	a, err := parseColor("#ff0000")
	require.NoError(t, err)
	b, err := parseColor("#ff3200")
	require.NoError(t, err)

	assert.InDelta(t, 50, colorDistance(a, b), 0.001)
	assert.InDelta(t, 0, colorDistance(a, a), 0.001)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantHex string
		wantErr bool
	}{
		{"lowercase hex", "#ff8000", "#ff8000", false},
		{"uppercase hex", "#FF8000", "#ff8000", false},
		{"short hex", "#f00", "#ff0000", false},
		{"rgb triplet", "255, 128, 0", "#ff8000", false},
		{"channel out of range", "256,0,0", "", true},
		{"word", "red", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHex, c.Hex())
		})
	}
}
