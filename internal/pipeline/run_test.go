package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/config"
	"github.com/pagefind-go/pagefind/internal/stem"
)

func writeHTML(t *testing.T, dir, relPath, body string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
}

func TestRunIndexesDiscoveredPagesAndWritesBundle(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeHTML(t, src, "index.html", `<html lang="en"><body><p>hello world</p></body></html>`)
	writeHTML(t, src, "about.html", `<html lang="en"><body><p>about this site</p></body></html>`)
	writeHTML(t, src, "skip.txt", `not html`)

	cfg := config.Default()
	cfg.Source = src
	cfg.BundleDirPath = out
	cfg.Glob = "**/*.{html}"

	stats, err := Run(context.Background(), cfg, stem.Identity, NoopProgressReporter{})
	require.NoError(t, err)
	require.Equal(t, 2, stats.PageCount)
	require.Equal(t, 1, stats.LanguageCount)

	entryBytes, err := os.ReadFile(filepath.Join(out, "pagefind-entry.json"))
	require.NoError(t, err)
	require.Contains(t, string(entryBytes), `"en"`)

	matches, err := filepath.Glob(filepath.Join(out, "index", "*.pf_index"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
}

func TestRunReturnsEmptyCorpusErrorWhenNoFilesMatch(t *testing.T) {
	src := t.TempDir()
	cfg := config.Default()
	cfg.Source = src
	cfg.BundleDirPath = t.TempDir()

	_, err := Run(context.Background(), cfg, stem.Identity, NoopProgressReporter{})
	require.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestDiscoverMatchesGlobUnderSourceRoot(t *testing.T) {
	src := t.TempDir()
	writeHTML(t, src, "a.html", "<html></html>")
	writeHTML(t, src, "nested/b.html", "<html></html>")
	writeHTML(t, src, "ignore.md", "not html")

	files, err := Discover(src, "**/*.{html}")
	require.NoError(t, err)
	require.Len(t, files, 2)
}
