package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/lowkey/internal/store"
)

func TestBellPatterns(t *testing.T) {
	tests := []struct {
		theme store.SoundTheme
		bells int
	}{
		{store.ThemeDigital, 3},
		{store.ThemeNature, 2},
		{store.ThemeMinimal, 1},
		{"unknown", 1},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, NewBell(&buf).Play(tt.theme))
		assert.Equal(t, tt.bells, strings.Count(buf.String(), "\a"), tt.theme)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestBellReportsWriteError(t *testing.T) {
	err := NewBell(failingWriter{}).Play(store.ThemeDigital)
	assert.ErrorContains(t, err, "digital")
}

func TestWriterNotify(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Notify("Lowkey Lofi Timer", "Break is over. Time to focus! "))
	assert.Equal(t, "Lowkey Lofi Timer: Break is over. Time to focus!\n", buf.String())
}

func TestNopAndLog(t *testing.T) {
	assert.NoError(t, Nop{}.Play(store.ThemeNature))
	assert.NoError(t, Nop{}.Notify("a", "b"))
	assert.NoError(t, LogNotifier{}.Notify("a", "b"))
}
