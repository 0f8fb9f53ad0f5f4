package compliance

import "fmt"

// ConfigError reports a guidelines document that cannot produce a meaningful
// report: a missing file, malformed JSON, or a field with a wrong type or
// out-of-range value. It is fatal to the run and surfaced before any asset
// is checked.
type ConfigError struct {
	Field string // offending field, empty when the whole document is unusable
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("guidelines: field %q: %s", e.Field, e.Msg)
	}
	return "guidelines: " + e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
