package businessflow

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "Sheet"},
		{"forbidden characters", "Body:Active/2024", "Body_Active_2024"},
		{"short multibyte kept", "Корпус клапана", "Корпус клапана"},
		{"ascii truncated", strings.Repeat("a", 40), strings.Repeat("a", 31)},
		{"multibyte truncated by character", strings.Repeat("阀", 40), strings.Repeat("阀", 31)},
		{"mixed width truncated by character", "ValveBody " + strings.Repeat("ё", 30), "ValveBody " + strings.Repeat("ё", 21)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeSheetName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), 31)
		})
	}
}

func TestSheetWriterAcceptsLongMultibyteName(t *testing.T) {
	w, err := newSheetWriter(strings.Repeat("阀", 40), []string{"code"})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("阀", 31), w.sheet)

	content, err := w.bytes()
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
