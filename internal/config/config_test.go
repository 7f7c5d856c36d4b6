package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "public", cfg.Source)
	assert.Equal(t, "public/pagefind", cfg.BundleDirPath)
	assert.Equal(t, "**/*.{html}", cfg.Glob)
	assert.Empty(t, cfg.ExcludeSelectors)
	assert.Empty(t, cfg.ForceLanguage)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Service)

	require.NoError(t, Validate(cfg))
}

func TestLoadFromDirUsesDefaultsWhenNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, Default().Source, cfg.Source)
}

func TestLoadFromDirReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	contents := "source: dist\nbundle_dir_path: dist/pagefind\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pagefind.yaml"), []byte(contents), 0o644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "dist", cfg.Source)
	assert.Equal(t, "dist/pagefind", cfg.BundleDirPath)
}

func TestLoadFromDirEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	contents := "source: dist\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pagefind.yaml"), []byte(contents), 0o644))

	t.Setenv("PAGEFIND_SOURCE", "from-env")
	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Source)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAGEFIND_SOURCE", "from-env")

	flags := viper.New()
	flags.Set("source", "from-flag")

	cfg, err := NewLoader(dir).Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Source)
}

func TestLoadFromDirRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pagefind.yaml"), []byte("source: [unterminated"), 0o644))

	_, err := LoadFromDir(dir)
	require.Error(t, err)
}
