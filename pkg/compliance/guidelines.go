package compliance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Level is the documentary strictness label carried by a guidelines document.
// It does not alter any threshold; every threshold is an explicit field. The
// label exists so callers can pick between shipped guideline files.
type Level string

// Recognized compliance levels.
const (
	LevelRelaxed  Level = "relaxed"
	LevelStandard Level = "standard"
	LevelStrict   Level = "strict"
)

// Defaults applied to guideline fields omitted from the JSON document.
const (
	DefaultColorTolerance  = 50.0
	DefaultMaxTextLength   = 200
	DefaultMinImageQuality = 60.0
)

// Guidelines is the brand policy a campaign run is validated against. It is
// loaded once at the start of a run and read-only thereafter.
type Guidelines struct {
	BrandName            string   `json:"brand_name"`
	RequiredColors       []string `json:"required_colors"`
	ForbiddenColors      []string `json:"forbidden_colors"`
	ColorTolerance       float64  `json:"color_tolerance"`
	MaxTextLength        int      `json:"max_text_length"`
	ForbiddenWords       []string `json:"forbidden_words"`
	MinImageQuality      float64  `json:"min_image_quality"`
	RequiredAspectRatios []string `json:"required_aspect_ratios"`
	ComplianceLevel      Level    `json:"compliance_level"`
}

// guidelinesDoc mirrors Guidelines with pointer fields so an omitted field
// can be told apart from an explicit zero before defaults are applied.
type guidelinesDoc struct {
	BrandName            *string  `json:"brand_name"`
	RequiredColors       []string `json:"required_colors"`
	ForbiddenColors      []string `json:"forbidden_colors"`
	ColorTolerance       *float64 `json:"color_tolerance"`
	MaxTextLength        *int     `json:"max_text_length"`
	ForbiddenWords       []string `json:"forbidden_words"`
	MinImageQuality      *float64 `json:"min_image_quality"`
	RequiredAspectRatios []string `json:"required_aspect_ratios"`
	ComplianceLevel      *string  `json:"compliance_level"`
}

// LoadGuidelines reads and parses a brand guidelines JSON document. All
// failures come back as *ConfigError.
func LoadGuidelines(path string) (*Guidelines, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}
	return ParseGuidelines(data)
}

// ParseGuidelines parses a guidelines document, applies defaults for omitted
// fields and validates ranges. A field of the wrong JSON type is an error,
// never a best-effort cast.
func ParseGuidelines(data []byte) (*Guidelines, error) {
	var doc guidelinesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ConfigError{
				Field: typeErr.Field,
				Msg:   fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
				Err:   err,
			}
		}
		return nil, &ConfigError{Msg: "malformed JSON: " + err.Error(), Err: err}
	}

	g := &Guidelines{
		RequiredColors:       doc.RequiredColors,
		ForbiddenColors:      doc.ForbiddenColors,
		ColorTolerance:       DefaultColorTolerance,
		MaxTextLength:        DefaultMaxTextLength,
		ForbiddenWords:       doc.ForbiddenWords,
		MinImageQuality:      DefaultMinImageQuality,
		RequiredAspectRatios: doc.RequiredAspectRatios,
		ComplianceLevel:      LevelRelaxed,
	}
	if doc.BrandName != nil {
		g.BrandName = *doc.BrandName
	}
	if doc.ColorTolerance != nil {
		g.ColorTolerance = *doc.ColorTolerance
	}
	if doc.MaxTextLength != nil {
		g.MaxTextLength = *doc.MaxTextLength
	}
	if doc.MinImageQuality != nil {
		g.MinImageQuality = *doc.MinImageQuality
	}
	if doc.ComplianceLevel != nil {
		g.ComplianceLevel = Level(*doc.ComplianceLevel)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Guidelines) validate() error {
	if g.ColorTolerance < 0 {
		return &ConfigError{Field: "color_tolerance", Msg: fmt.Sprintf("must not be negative, got %v", g.ColorTolerance)}
	}
	if g.MinImageQuality < 0 || g.MinImageQuality > 100 {
		return &ConfigError{Field: "min_image_quality", Msg: fmt.Sprintf("must be in [0,100], got %v", g.MinImageQuality)}
	}
	if g.MaxTextLength <= 0 {
		return &ConfigError{Field: "max_text_length", Msg: fmt.Sprintf("must be positive, got %d", g.MaxTextLength)}
	}
	switch g.ComplianceLevel {
	case LevelRelaxed, LevelStandard, LevelStrict:
	default:
		return &ConfigError{Field: "compliance_level", Msg: fmt.Sprintf("unknown level %q", g.ComplianceLevel)}
	}
	for _, c := range g.RequiredColors {
		if _, err := parseColor(c); err != nil {
			return &ConfigError{Field: "required_colors", Msg: err.Error(), Err: err}
		}
	}
	for _, c := range g.ForbiddenColors {
		if _, err := parseColor(c); err != nil {
			return &ConfigError{Field: "forbidden_colors", Msg: err.Error(), Err: err}
		}
	}
	return nil
}
