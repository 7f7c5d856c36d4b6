package service

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/pagefind-go/pagefind/internal/bundle"
	"github.com/pagefind-go/pagefind/internal/fossick"
	"github.com/pagefind-go/pagefind/internal/indexbuild"
	"github.com/pagefind-go/pagefind/internal/pageset"
	"github.com/pagefind-go/pagefind/internal/pipeline"
	"github.com/pagefind-go/pagefind/internal/stem"
)

// Index is one service-managed search index: the pages added to it so
// far, plus (once BuildIndex has run) its built per-language artifacts.
type Index struct {
	opts    fossick.RunOptions
	version string

	mu      sync.Mutex
	pages   []fossick.Data
	results []indexbuild.Result
}

// newIndex constructs an Index from an optional per-index config,
// defaulting to the server's stemmer and version when fields are unset.
func newIndex(cfg *NewIndexConfig, stemmer stem.Stemmer, version string) *Index {
	opts := fossick.RunOptions{Stemmer: stemmer}
	if cfg != nil {
		opts.Parse.ForceLanguage = cfg.ForceLanguage
		opts.Parse.ExcludeSelectors = cfg.ExcludeSelectors
	}
	return &Index{opts: opts, version: version}
}

// AddFile fossicks file_contents as if read from file_path or url. The
// page URL is url when given, otherwise file_path used verbatim; no
// source-root-relative URL is derived.
func (idx *Index) AddFile(filePath, url *string, fileContents string) (fossick.Data, error) {
	if filePath == nil && url == nil {
		return fossick.Data{}, fmt.Errorf("service: add_file: either file_path or url must be provided")
	}

	resolvedURL := ""
	if url != nil {
		resolvedURL = *url
	} else {
		resolvedURL = *filePath
	}

	data, err := fossick.FossickContent(fileContents, resolvedURL, idx.opts)
	if err != nil {
		return fossick.Data{}, err
	}

	idx.mu.Lock()
	idx.pages = append(idx.pages, data)
	idx.results = nil
	idx.mu.Unlock()
	return data, nil
}

// AddRecord adds a manually-constructed record, bypassing HTML parsing.
func (idx *Index) AddRecord(url, content, language string, meta map[string]string, filters map[string][]string, sort map[string]string) fossick.Data {
	data := fossick.FossickRecord(fossick.RecordOptions{
		URL:      url,
		Content:  content,
		Language: language,
		Meta:     meta,
		Filters:  filters,
		SortKeys: sort,
		Stemmer:  idx.opts.Stemmer,
	})

	idx.mu.Lock()
	idx.pages = append(idx.pages, data)
	idx.results = nil
	idx.mu.Unlock()
	return data
}

// AddDir discovers and fossicks every file under path matching glob (or
// the default glob if empty), adding each as a page.
func (idx *Index) AddDir(path, glob string) (int, error) {
	if glob == "" {
		glob = "**/*.{html}"
	}

	files, err := pipeline.Discover(path, glob)
	if err != nil {
		return 0, err
	}

	opts := idx.opts
	opts.SourceRoot = path

	added := 0
	for _, f := range files {
		data, err := fossick.Fossick(f, opts)
		if err != nil {
			continue
		}
		idx.mu.Lock()
		idx.pages = append(idx.pages, data)
		idx.mu.Unlock()
		added++
	}
	idx.mu.Lock()
	idx.results = nil
	idx.mu.Unlock()
	return added, nil
}

// Build groups the accumulated pages by language and builds each
// language's index artifacts, caching the result until the next page is
// added.
func (idx *Index) Build() ([]indexbuild.Result, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.results != nil {
		return idx.results, nil
	}
	if len(idx.pages) == 0 {
		idx.results = nil
		return nil, nil
	}

	buckets := pageset.Group(idx.pages)
	results := make([]indexbuild.Result, 0, len(buckets))
	for _, bucket := range buckets {
		result, err := indexbuild.Build(bucket, idx.version, indexbuild.DefaultChunkSize)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	idx.results = results
	return results, nil
}

// WriteFiles builds (if needed) and writes every artifact plus the entry
// manifest to outputPath on disk, returning the resolved path.
func (idx *Index) WriteFiles(outputPath string) (string, error) {
	results, err := idx.Build()
	if err != nil {
		return "", err
	}

	w := bundle.NewWriter(outputPath, false)
	for _, r := range results {
		if err := w.WriteLanguage(r); err != nil {
			return "", err
		}
	}
	if err := w.WriteEntry(bundle.BuildEntry(idx.version, results)); err != nil {
		return "", err
	}
	return outputPath, nil
}

// GetFiles builds (if needed) and returns every artifact plus the entry
// manifest as in-memory (path, base64 content) pairs, writing nothing to
// disk.
func (idx *Index) GetFiles() ([]SyntheticFile, error) {
	results, err := idx.Build()
	if err != nil {
		return nil, err
	}

	w := bundle.NewWriter("", true)
	for _, r := range results {
		if err := w.WriteLanguage(r); err != nil {
			return nil, err
		}
	}
	if err := w.WriteEntry(bundle.BuildEntry(idx.version, results)); err != nil {
		return nil, err
	}

	files := w.Files()
	out := make([]SyntheticFile, len(files))
	for i, f := range files {
		out[i] = SyntheticFile{
			Path:    f.Path,
			Content: base64.StdEncoding.EncodeToString(f.Contents),
		}
	}
	return out, nil
}
