package bundle

import (
	"fmt"

	"github.com/pagefind-go/pagefind/internal/indexbuild"
)

// WriteLanguage writes one language's full artifact set: the meta index
// (immutable), every vocabulary and filter chunk (immutable), and every
// page fragment (immutable). All are gzip-framed.
func (w *Writer) WriteLanguage(result indexbuild.Result) error {
	metaPath := fmt.Sprintf("pagefind.%s.pf_meta", result.MetaHash)
	if err := w.writeFramed(metaPath, result.MetaBytes, Immutable); err != nil {
		return err
	}

	for hash, encoded := range result.WordIndexes {
		path := fmt.Sprintf("index/%s.pf_index", hash)
		if err := w.writeFramed(path, encoded, Immutable); err != nil {
			return err
		}
	}

	for hash, encoded := range result.FilterIndexes {
		path := fmt.Sprintf("filter/%s.pf_filter", hash)
		if err := w.writeFramed(path, encoded, Immutable); err != nil {
			return err
		}
	}

	for hash, fragmentJSON := range result.Fragments {
		path := fmt.Sprintf("fragment/%s.pf_fragment", hash)
		if err := w.writeFramed(path, []byte(fragmentJSON), Immutable); err != nil {
			return err
		}
	}

	return nil
}

// BuildEntry derives this build's pagefind-entry.json from every
// language's build Result. Per-language WASM glue is outside this
// module's scope (the spec excludes the browser runtime), so every
// language's Wasm field is always nil.
func BuildEntry(version string, results []indexbuild.Result) Entry {
	languages := make(map[string]EntryLanguage, len(results))
	for _, r := range results {
		languages[r.Language] = EntryLanguage{
			Hash:      r.MetaHash,
			PageCount: r.PageCount,
			Wasm:      nil,
		}
	}
	return Entry{Version: version, Languages: languages}
}
