package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestPage(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(
		"<html><head><title>t</title></head><body>"+body+"</body></html>"), 0o644))
}

func TestRunRootIndexesASite(t *testing.T) {
	src := t.TempDir()
	writeTestPage(t, src, "index.html", "hello world")

	bundleDir := filepath.Join(src, "pagefind")

	flags.Set("source", src)
	flags.Set("bundle_dir_path", bundleDir)
	flags.Set("quiet", true)
	t.Cleanup(func() {
		flags.Set("source", nil)
		flags.Set("bundle_dir_path", nil)
		flags.Set("quiet", nil)
	})

	require.NoError(t, runRoot(rootCmd, nil))

	_, err := os.Stat(filepath.Join(bundleDir, "pagefind-entry.json"))
	require.NoError(t, err)
}
