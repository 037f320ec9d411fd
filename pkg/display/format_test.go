package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"auto", FormatAuto, false},
		{"", FormatAuto, false},
		{"table", FormatAuto, false},
		{"term", FormatTerminal, false},
		{"terminal", FormatTerminal, false},
		{"text", FormatText, false},
		{"plain", FormatText, false},
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"xml", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "term", FormatTerminal.String())
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "unknown", Format(99).String())
}

func TestDetectFormat(t *testing.T) {
	t.Run("buffer is never a terminal", func(t *testing.T) {
		assert.Equal(t, FormatText, DetectFormat(&bytes.Buffer{}))
	})

	t.Run("NO_COLOR forces text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, FormatText, DetectFormat(&bytes.Buffer{}))
	})

	t.Run("auto resolves, explicit formats stay", func(t *testing.T) {
		assert.Equal(t, FormatText, resolve(FormatAuto, &bytes.Buffer{}))
		assert.Equal(t, FormatJSON, resolve(FormatJSON, &bytes.Buffer{}))
	})
}
