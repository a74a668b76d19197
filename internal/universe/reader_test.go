package universe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	input := "AAPL, MSFT\n\n# watchlist\ngoogl\nTSLA, aapl,\n  nvda  \n"

	got, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "TSLA", "NVDA"}, got)
}

func TestRead_Empty(t *testing.T) {
	got, err := Read(strings.NewReader("\n\n , ,\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.txt")
	require.NoError(t, os.WriteFile(path, []byte("MSFT\nBRK-B, KO\n"), 0o644))

	got, err := Resolve([]string{"ko", "AAPL"}, path)
	require.NoError(t, err)

	assert.Equal(t, []string{"KO", "AAPL", "MSFT", "BRK-B"}, got)
}

func TestResolve_Errors(t *testing.T) {
	_, err := Resolve(nil, "")
	assert.Error(t, err)

	_, err = Resolve([]string{"AAPL"}, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
