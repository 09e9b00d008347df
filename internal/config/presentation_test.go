package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentationConfig_DefaultsWhenNoFile(t *testing.T) {
	holder, err := NewPresentationConfigHolder(Config{})
	require.NoError(t, err)

	assert.Equal(t, NeutralColor, holder.DefaultColor())

	color, ok := holder.FallbackColor("paid")
	assert.True(t, ok)
	assert.Equal(t, "green", color)

	color, ok = holder.FallbackColor("Overdue")
	assert.True(t, ok)
	assert.Equal(t, "red", color)

	_, ok = holder.FallbackColor("archived")
	assert.False(t, ok)
}

func TestPresentationConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presentation.yml")
	content := []byte(`presentation:
  default_color: slate
  status_colors:
    paid: emerald
    void: black
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	holder, err := NewPresentationConfigHolder(Config{PresentationConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "slate", holder.DefaultColor())

	color, ok := holder.FallbackColor("paid")
	assert.True(t, ok)
	assert.Equal(t, "emerald", color)

	color, ok = holder.FallbackColor("void")
	assert.True(t, ok)
	assert.Equal(t, "black", color)

	color, ok = holder.FallbackColor("pending")
	assert.True(t, ok)
	assert.Equal(t, "yellow", color)
}

func TestPresentationConfig_MissingExplicitPath(t *testing.T) {
	_, err := NewPresentationConfigHolder(Config{PresentationConfigPath: filepath.Join(t.TempDir(), "nope.yml")})
	assert.Error(t, err)
}

func TestPresentationConfig_NilHolder(t *testing.T) {
	var holder *PresentationConfigHolder
	assert.Equal(t, NeutralColor, holder.DefaultColor())
	color, ok := holder.FallbackColor("paid")
	assert.True(t, ok)
	assert.Equal(t, "green", color)
}
