package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	c, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, 500, c.MaxSeqLen)
	assert.Equal(t, "bigwig", c.Signal.Dir)
	assert.Contains(t, c.Signal.Expected, "H2AZ")
	assert.Equal(t, []int{0, 200, 1000}, c.Signal.Extensions)
	assert.Equal(t, "mean", c.Signal.Aggregation)
	assert.Equal(t, "model_crispra", c.Models.ActivationDir)
	assert.Equal(t, "model_crispri", c.Models.InterferenceDir)
	assert.Positive(t, c.Threads)
}

func TestSettingsFileOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("max-seq-len: 250\nsignal:\n  aggregation: max\n  dir: tracks\n")
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, 250, c.MaxSeqLen)
	assert.Equal(t, "max", c.Signal.Aggregation)
	assert.Equal(t, "tracks", c.Signal.Dir)
	// untouched keys keep defaults
	assert.Equal(t, "model_crispra", c.Models.ActivationDir)
}

func TestModelDir(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	c, err := New(v)
	require.NoError(t, err)

	dir, err := c.ModelDir("a")
	require.NoError(t, err)
	assert.Equal(t, "model_crispra", dir)

	dir, err = c.ModelDir("i")
	require.NoError(t, err)
	assert.Equal(t, "model_crispri", dir)

	_, err = c.ModelDir("x")
	assert.Error(t, err)
}

func TestModeName(t *testing.T) {
	assert.Equal(t, "CRISPRa", ModeName("a"))
	assert.Equal(t, "CRISPRi", ModeName("i"))
}
