package searchcore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pagefind-go/pagefind/internal/stem"
)

// SessionState is where a Session sits in the load/search lifecycle.
type SessionState int

const (
	StateEmpty SessionState = iota
	StateMetaLoaded
)

// Session drives one language's search index through the state machine:
// Empty until Init decodes meta, then MetaLoaded for the lifetime of the
// session while chunks are loaded and searches are run. It is not safe
// for concurrent use; callers serialize their own access.
type Session struct {
	state    SessionState
	language string
	stemmer  stem.Stemmer

	Index *Index
}

// NewSession returns an Empty session for language. stemmer is used both
// to stem query terms and, in ChunksForQuery, to resolve which vocabulary
// chunk a term belongs to (the vocabulary itself is stored stemmed).
func NewSession(language string, stemmer stem.Stemmer) *Session {
	return &Session{
		state:    StateEmpty,
		language: language,
		stemmer:  stemmer,
		Index:    New(language),
	}
}

// State reports the session's current lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) requireMetaLoaded() error {
	if s.state != StateMetaLoaded {
		return fmt.Errorf("searchcore: session is not ready; call Init with meta bytes first")
	}
	return nil
}

// Init decodes metaBytes and moves the session from Empty to MetaLoaded.
func (s *Session) Init(metaBytes []byte) error {
	if err := s.Index.LoadMeta(metaBytes); err != nil {
		return fmt.Errorf("searchcore: decode meta: %w", err)
	}
	s.state = StateMetaLoaded
	return nil
}

// LoadIndexChunk decodes and merges one vocabulary chunk. Valid only
// after Init.
func (s *Session) LoadIndexChunk(data []byte) error {
	if err := s.requireMetaLoaded(); err != nil {
		return err
	}
	if err := s.Index.LoadIndexChunk(data); err != nil {
		return fmt.Errorf("searchcore: decode index chunk: %w", err)
	}
	return nil
}

// LoadFilterChunk decodes and merges one filter chunk. Valid only after
// Init.
func (s *Session) LoadFilterChunk(data []byte) error {
	if err := s.requireMetaLoaded(); err != nil {
		return err
	}
	if err := s.Index.LoadFilterChunk(data); err != nil {
		return fmt.Errorf("searchcore: decode filter chunk: %w", err)
	}
	return nil
}

// AddSyntheticFilter registers a post-hoc filter tagging every page with
// each named value. Valid only after Init.
func (s *Session) AddSyntheticFilter(filterJSON string) error {
	if err := s.requireMetaLoaded(); err != nil {
		return err
	}
	return s.Index.AddSyntheticFilter(filterJSON)
}

// ChunksForQuery returns the vocabulary chunk hashes a caller must load
// before searching for query: the chunk containing each stemmed term,
// falling back to a truncated-prefix match when no chunk's exact
// interval contains it.
func (s *Session) ChunksForQuery(query string) []string {
	seen := make(map[string]bool)
	var hashes []string

	add := func(hash string) {
		if !seen[hash] {
			seen[hash] = true
			hashes = append(hashes, hash)
		}
	}

	for _, raw := range strings.Fields(query) {
		term := s.stemmer.Stem(s.language, strings.ToLower(raw))

		matched := false
		for _, c := range s.Index.Chunks {
			if c.From <= term && term <= c.To {
				add(c.Hash)
				matched = true
			}
		}
		if matched {
			continue
		}

		for _, c := range s.Index.Chunks {
			n := minLen(term, c.From, c.To)
			tf, ff, tt := truncate(term, n), truncate(c.From, n), truncate(c.To, n)
			if ff <= tf && tf <= tt {
				add(c.Hash)
			}
		}
	}

	return hashes
}

// ChunksForFilter returns the filter chunk hashes a caller must load
// before evaluating filterJSON.
func (s *Session) ChunksForFilter(filterJSON string) []string {
	return s.Index.FilterChunkHashesFor(filterJSON)
}

func minLen(strs ...string) int {
	n := len(strs[0])
	for _, s := range strs[1:] {
		if len(s) < n {
			n = len(s)
		}
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// SearchOptions configures one Search call.
type SearchOptions struct {
	// Filter is a JSON filter expression, or "" for no filter.
	Filter string
	// Sort, if non-empty, overrides score ordering with the named sort
	// table's page order.
	Sort string
	// SortDescending reverses the named sort's order.
	SortDescending bool
	// Exact requests contiguous-phrase matching instead of ranked loose
	// matching.
	Exact bool
}

// SearchResult is the outcome of one Search call: the ranked (or
// sort-overridden) pages, plus the unfiltered and filtered page indices
// needed to compute facet counts via Index.FilterCounts.
type SearchResult struct {
	Results         []PageSearchResult
	UnfilteredPages []int
	FilteredPages   []int
}

// Search runs query through the loose or exact query engine, intersects
// with filter (if given), and applies a sort override (if given). Valid
// only after Init.
func (s *Session) Search(query string, opts SearchOptions) (SearchResult, error) {
	if err := s.requireMetaLoaded(); err != nil {
		return SearchResult{}, err
	}

	var filterBM *roaring.Bitmap
	if opts.Filter != "" {
		if fb, ok := s.Index.Filter(opts.Filter); ok {
			filterBM = fb
		}
	}

	var unfiltered []int
	var results []PageSearchResult
	if opts.Exact {
		unfiltered, results = ExactSearch(s.Index, query, s.language, filterBM, s.stemmer)
	} else {
		unfiltered, results = LooseSearch(s.Index, query, s.language, filterBM, s.stemmer)
	}

	filteredPages := make([]int, len(results))
	for i, r := range results {
		filteredPages[i] = r.PageIndex
	}

	if opts.Sort != "" {
		results = s.applySortOverride(results, opts.Sort, opts.SortDescending)
	}

	return SearchResult{Results: results, UnfilteredPages: unfiltered, FilteredPages: filteredPages}, nil
}

// applySortOverride reorders results by the named sort table's page
// order instead of score. Pages absent from the sort table (it only
// covers pages that actually carry the key) keep their relative score
// order and sort after every page that does carry it.
func (s *Session) applySortOverride(results []PageSearchResult, key string, descending bool) []PageSearchResult {
	order, ok := s.Index.Sorts[key]
	if !ok {
		return results
	}

	rank := make(map[int]int, len(order))
	for i, p := range order {
		rank[int(p)] = i
	}

	out := make([]PageSearchResult, len(results))
	copy(out, results)

	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].PageIndex]
		rj, jok := rank[out[j].PageIndex]
		if iok && jok {
			if descending {
				return ri > rj
			}
			return ri < rj
		}
		if iok != jok {
			return iok
		}
		return false
	})

	return out
}
