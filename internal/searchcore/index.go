// Package searchcore holds the in-memory search index: the decoders that
// turn meta/index/filter artifact bytes into queryable tables, and the
// query engine, filter evaluator, and session state machine built on top
// of them.
//
// This package never touches disk or the network; it only decodes bytes
// handed to it by a caller (the CLI playground server, a future WASM
// host, a test) and answers pure in-memory queries. Concurrent access to
// one Index is the caller's responsibility - nothing here takes a lock.
package searchcore

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pagefind-go/pagefind/internal/indexbuild"
)

// Page is one page's decoded meta entry.
type Page struct {
	Hash      string
	WordCount uint32
}

// IndexChunk names a vocabulary chunk and the lexicographic word range it
// covers, used to decide which chunk(s) a query term falls into.
type IndexChunk struct {
	From string
	To   string
	Hash string
}

// WeightedLocation is one decoded (weight, position) pair for a word on a
// page. Weight is the serialized form (default 25), not the raw
// data-pagefind-weight value it was derived from.
type WeightedLocation struct {
	Weight   uint8
	Location uint32
}

// PageWord is one page's occurrences of a single vocabulary word.
type PageWord struct {
	Page uint32
	Locs []WeightedLocation
}

// Index is the decoded, queryable state for one language. It accumulates
// as meta/index/filter chunks are loaded; nothing here is removable once
// loaded, matching the append-only decode flow in the original search
// core.
type Index struct {
	Language string

	GeneratorVersion  string
	Pages             []Page
	AveragePageLength float32
	Chunks            []IndexChunk
	FilterChunkHashes map[string]string

	Words   map[string][]PageWord
	Filters map[string]map[string]*roaring.Bitmap
	Sorts   map[string][]uint32

	RankingWeights RankingWeights
}

// New returns an empty Index for language, ready for LoadMeta.
func New(language string) *Index {
	return &Index{
		Language:          language,
		FilterChunkHashes: make(map[string]string),
		Words:             make(map[string][]PageWord),
		Filters:           make(map[string]map[string]*roaring.Bitmap),
		Sorts:             make(map[string][]uint32),
		RankingWeights:    DefaultRankingWeights(),
	}
}

// LoadMeta decodes a pagefind.{hash}.pf_meta artifact and populates the
// page table, chunk list, filter-chunk hash lookup, and sort tables.
// Average page length is derived here since every page's word count is
// known as soon as meta is loaded.
func (idx *Index) LoadMeta(data []byte) error {
	meta, err := indexbuild.DecodeMeta(data)
	if err != nil {
		return err
	}

	idx.GeneratorVersion = meta.Version

	idx.Pages = make([]Page, len(meta.Pages))
	var totalWords float64
	for i, p := range meta.Pages {
		idx.Pages[i] = Page{Hash: p.Hash, WordCount: p.WordCount}
		totalWords += float64(p.WordCount)
	}
	if len(idx.Pages) > 0 {
		idx.AveragePageLength = float32(totalWords / float64(len(idx.Pages)))
	}

	idx.Chunks = make([]IndexChunk, len(meta.IndexChunks))
	for i, c := range meta.IndexChunks {
		idx.Chunks[i] = IndexChunk{From: c.From, To: c.To, Hash: c.Hash}
	}

	for _, f := range meta.Filters {
		idx.FilterChunkHashes[f.Filter] = f.Hash
	}

	for _, s := range meta.Sorts {
		pages := make([]uint32, len(s.Pages))
		for i, p := range s.Pages {
			pages[i] = uint32(p)
		}
		idx.Sorts[s.SortKey] = pages
	}

	return nil
}

// LoadIndexChunk decodes an index/{hash}.pf_index artifact and merges its
// words into the vocabulary table.
func (idx *Index) LoadIndexChunk(data []byte) error {
	words, err := indexbuild.DecodeIndexChunk(data)
	if err != nil {
		return err
	}

	for _, w := range words {
		pageWords := make([]PageWord, len(w.Pages))
		for i, p := range w.Pages {
			pageWords[i] = PageWord{
				Page: uint32(p.PageNumber),
				Locs: decodeLocations(p.Locs),
			}
		}
		idx.Words[w.Word] = pageWords
	}

	return nil
}

// LoadFilterChunk decodes a filter/{hash}.pf_filter artifact and merges
// its value-to-pages map into the filter table.
func (idx *Index) LoadFilterChunk(data []byte) error {
	fc, err := indexbuild.DecodeFilterChunk(data)
	if err != nil {
		return err
	}

	valueMap, ok := idx.Filters[fc.Filter]
	if !ok {
		valueMap = make(map[string]*roaring.Bitmap)
		idx.Filters[fc.Filter] = valueMap
	}
	for _, v := range fc.Values {
		bm := roaring.New()
		for _, p := range v.Pages {
			bm.AddInt(p)
		}
		valueMap[v.Value] = bm
	}

	return nil
}

func allPages(n int) *roaring.Bitmap {
	bm := roaring.New()
	for i := 0; i < n; i++ {
		bm.AddInt(i)
	}
	return bm
}
