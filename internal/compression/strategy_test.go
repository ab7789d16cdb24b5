package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New("aggressive", DefaultConfig(), Deps{
		Counter:   stubCounter{},
		Languages: stubAnalyzer(nil),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown compression strategy "aggressive"`)
	assert.Contains(t, err.Error(), "smart")
}

func TestNew_InvalidConfigFailsFast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTokens = 0

	_, err := New("smart", cfg, Deps{
		Counter:   stubCounter{},
		Languages: stubAnalyzer(nil),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid compression config")
}

func TestNew_MissingDeps(t *testing.T) {
	_, err := New("smart", DefaultConfig(), Deps{Languages: stubAnalyzer(nil)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token counter")

	_, err = New("smart", DefaultConfig(), Deps{Counter: stubCounter{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language analyzer")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"smart"}, Names())
}
