// Package pipeline drives one indexing run end to end: discover source
// files, fossick them concurrently, group into per-language buckets, build
// each bucket's index artifacts, and write the bundle.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagefind-go/pagefind/internal/bundle"
	"github.com/pagefind-go/pagefind/internal/config"
	"github.com/pagefind-go/pagefind/internal/fossick"
	"github.com/pagefind-go/pagefind/internal/indexbuild"
	"github.com/pagefind-go/pagefind/internal/pageset"
	"github.com/pagefind-go/pagefind/internal/stem"
)

// ErrEmptyCorpus is returned when discovery yields zero indexable pages.
// Per spec.md §7 this is fatal in CLI mode; service-mode callers should
// treat it as "build an empty index" instead of propagating it.
var ErrEmptyCorpus = errors.New("pipeline: empty corpus")

// Stats summarizes one completed run.
type Stats struct {
	PageCount     int
	LanguageCount int
	DroppedFiles  int
}

// Version is the generator version string stamped into every meta index,
// overridable by the build so release builds can report their own tag.
var Version = "1"

// Run executes the full discover → fossick → group → build → write
// pipeline for cfg, reporting milestones to progress.
func Run(ctx context.Context, cfg *config.Config, stemmer stem.Stemmer, progress ProgressReporter) (Stats, error) {
	if progress == nil {
		progress = NoopProgressReporter{}
	}
	start := time.Now()

	files, err := Discover(cfg.Source, cfg.Glob)
	if err != nil {
		return Stats{}, fmt.Errorf("pipeline: discover: %w", err)
	}
	progress.OnDiscoveryComplete(len(files))

	pages, dropped, err := fossickAll(ctx, files, cfg, stemmer, progress)
	if err != nil {
		return Stats{}, err
	}

	if len(pages) == 0 {
		return Stats{}, ErrEmptyCorpus
	}

	buckets := pageset.Group(pages)

	results := make([]indexbuild.Result, 0, len(buckets))
	for _, bucket := range buckets {
		result, err := indexbuild.Build(bucket, Version, indexbuild.DefaultChunkSize)
		if err != nil {
			return Stats{}, fmt.Errorf("pipeline: build %s: %w", bucket.Language, err)
		}
		results = append(results, result)
	}

	if err := writeBundle(cfg.BundleDirPath, results, progress); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		PageCount:     len(pages),
		LanguageCount: len(buckets),
		DroppedFiles:  dropped,
	}
	progress.OnComplete(stats, time.Since(start))
	return stats, nil
}

// fossickAll runs Fossick over every file concurrently (§5: "tasks execute
// concurrently... results are collected via an awaited batch; ordering
// after collection is discovery order"), dropping files that fail as input
// errors per §7 rather than aborting the run.
func fossickAll(ctx context.Context, files []string, cfg *config.Config, stemmer stem.Stemmer, progress ProgressReporter) ([]fossick.Data, int, error) {
	opts := fossick.RunOptions{
		SourceRoot: cfg.Source,
		Parse: fossick.Options{
			ExcludeSelectors: cfg.ExcludeSelectors,
			ForceLanguage:    cfg.ForceLanguage,
		},
		Stemmer: stemmer,
	}

	results := make([]*fossick.Data, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fossick.Fossick(path, opts)
			if err != nil {
				log.Printf("warning: skipping %s: %v", path, err)
				return nil
			}
			results[i] = &data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("pipeline: fossick: %w", err)
	}

	pages := make([]fossick.Data, 0, len(files))
	dropped := 0
	for _, r := range results {
		if r == nil {
			dropped++
			continue
		}
		pages = append(pages, *r)
		progress.OnFileProcessed(r.FilePath)
	}
	return pages, dropped, nil
}

// writeBundle writes each language's artifacts concurrently, one goroutine
// per language (each target path is exclusive to one task), then writes
// the top-level entry manifest once every language has finished.
func writeBundle(outputDir string, results []indexbuild.Result, progress ProgressReporter) error {
	w := bundle.NewWriter(outputDir, false)

	fileCount := 0
	for _, r := range results {
		fileCount += 1 + len(r.WordIndexes) + len(r.FilterIndexes) + len(r.Fragments)
	}
	progress.OnWriteBackStart(fileCount)

	var g errgroup.Group
	for _, r := range results {
		r := r
		g.Go(func() error {
			return w.WriteLanguage(r)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("pipeline: write bundle: %w", err)
	}

	entry := bundle.BuildEntry(Version, results)
	if err := w.WriteEntry(entry); err != nil {
		return fmt.Errorf("pipeline: write entry: %w", err)
	}
	return nil
}
