package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "share", "stockflow"), ExpandPath("~/.local/share/stockflow"))
	assert.Equal(t, home, ExpandPath("~"))
}

func TestExpandPathEnvVar(t *testing.T) {
	t.Setenv("STOCKFLOW_TEST_DIR", "/srv/data")
	assert.Equal(t, "/srv/data/stockflow.db", ExpandPath("$STOCKFLOW_TEST_DIR/stockflow.db"))
}

func TestExpandPathEmpty(t *testing.T) {
	assert.Empty(t, ExpandPath(""))
}
