package log

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)

	tests := []struct {
		name     string
		fn       func()
		expected string
	}{
		{
			name:     "Print",
			fn:       func() { Print("checked asset") },
			expected: "checked asset",
		},
		{
			name:     "Printf",
			fn:       func() { Printf("score %.1f", 83.3) },
			expected: "score 83.3",
		},
		{
			name:     "Println",
			fn:       func() { Println("report written") },
			expected: "report written",
		},
		{
			name:     "Debug",
			fn:       func() { Debug("palette extracted") },
			expected: "[DEBUG] palette extracted",
		},
		{
			name:     "Debugf",
			fn:       func() { Debugf("dominant colors: %d", 5) },
			expected: "[DEBUG] dominant colors: 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("Expected log to contain %q, but got %q", tt.expected, buf.String())
			}
		})
	}
}
