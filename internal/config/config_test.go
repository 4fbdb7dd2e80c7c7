package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "jamplate.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Roots)
	assert.Empty(t, cfg.Definitions)
	assert.Empty(t, cfg.Output)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jamplate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roots:
  - templates
  - shared
definitions:
  HOST: example.org
  ENV: prod
output: build
render: markdown
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"templates", "shared"}, cfg.Roots)
	assert.Equal(t, "example.org", cfg.Definitions["HOST"])
	assert.Equal(t, "prod", cfg.Definitions["ENV"])
	assert.Equal(t, "build", cfg.Output)
	assert.Equal(t, "markdown", cfg.Render)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jamplate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roots: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
