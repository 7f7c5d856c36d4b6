// Package indexbuild turns one language bucket of fossicked pages into the
// inverted, chunked, content-addressed artifacts a search session loads:
// the meta index, vocabulary index chunks, filter chunks, and page
// fragments.
package indexbuild

import (
	"fmt"
	"sort"

	"github.com/pagefind-go/pagefind/internal/pageset"
)

// DefaultChunkSize is the vocabulary chunk byte-budget used when the
// caller doesn't override it.
const DefaultChunkSize = 20000

// hashPrefixLen is how many characters of a full hash the short hash
// starts at, before any collision-driven growth. It's language-dependent
// so that two languages' artifacts never share a literal filename purely
// by prefix coincidence.
func hashPrefixLen(language string) int {
	return len(language) + 8
}

// Result is everything needed to write one language's bundle: the meta
// artifact, its vocabulary and filter chunks, and its page fragments, all
// keyed by their content-addressed short hash.
type Result struct {
	Language      string
	PageCount     int
	WordCount     int
	MetaHash      string
	MetaBytes     []byte
	WordIndexes   map[string][]byte
	FilterIndexes map[string][]byte
	Fragments     map[string]string
	SortKeys      []string
}

// Build runs the full per-language pipeline: sort-table precomputation,
// fragment hashing, word/filter inversion, vocabulary chunking, and
// artifact hashing.
func Build(bucket pageset.Bucket, version string, chunkSize int) (Result, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	language := bucket.Language

	sorts := buildSortTables(bucket.Pages)
	metaSortKeys := make([]string, len(sorts))
	for i, s := range sorts {
		metaSortKeys[i] = s.SortKey
	}

	fragments := make(map[string]string)
	usedFragmentHashes := make(map[string]string)
	metaPages := make([]MetaPage, len(bucket.Pages))

	for _, page := range bucket.Pages {
		frag := buildFragment(page.Data)
		encoded, err := encodeFragment(frag)
		if err != nil {
			return Result{}, fmt.Errorf("indexbuild: encode fragment for %s: %w", page.Data.URL, err)
		}

		full := language + "_" + fullHash([]byte(encoded))
		hash := shortHash(full, hashPrefixLen(language), usedFragmentHashes)

		if _, exists := fragments[hash]; !exists {
			fragments[hash] = encoded
			usedFragmentHashes[hash] = full
		}

		metaPages[page.PageNumber] = MetaPage{Hash: hash, WordCount: uint32(frag.WordCount)}
	}

	wordMap := invertWords(bucket.Pages)
	filterMap := invertFilters(bucket.Pages)

	wordCount := len(wordMap)
	chunks := chunkIndex(wordMap, chunkSize)
	metaChunks := chunkMeta(chunks)

	wordIndexes := make(map[string][]byte)
	usedWordHashes := make(map[string]string)
	for i, chunk := range chunks {
		encoded := EncodeIndexChunk(chunk)
		full := language + "_" + fullHash(encoded)
		hash := shortHash(full, hashPrefixLen(language), usedWordHashes)
		wordIndexes[hash] = encoded
		usedWordHashes[hash] = full
		metaChunks[i].Hash = hash
	}

	filterNames := make([]string, 0, len(filterMap))
	for name := range filterMap {
		filterNames = append(filterNames, name)
	}
	sort.Strings(filterNames)

	filterIndexes := make(map[string][]byte)
	usedFilterHashes := make(map[string]string)
	metaFilters := make([]MetaFilter, 0, len(filterNames))
	for _, name := range filterNames {
		valueMap := filterMap[name]
		values := make([]string, 0, len(valueMap))
		for v := range valueMap {
			values = append(values, v)
		}
		sort.Strings(values)

		fc := FilterChunk{Filter: name}
		for _, v := range values {
			fc.Values = append(fc.Values, FilterValue{Value: v, Pages: valueMap[v]})
		}

		encoded := EncodeFilterChunk(fc)
		full := language + "_" + fullHash(encoded)
		hash := shortHash(full, hashPrefixLen(language), usedFilterHashes)
		filterIndexes[hash] = encoded
		usedFilterHashes[hash] = full
		metaFilters = append(metaFilters, MetaFilter{Filter: name, Hash: hash})
	}

	meta := MetaIndex{
		Version:     version,
		Pages:       metaPages,
		IndexChunks: metaChunks,
		Filters:     metaFilters,
		Sorts:       sorts,
	}
	metaBytes := EncodeMeta(meta)
	metaFullHash := fullHash(metaBytes)
	metaTruncLen := len(language) + 8
	if metaTruncLen > len(metaFullHash) {
		metaTruncLen = len(metaFullHash)
	}
	metaHash := language + "_" + metaFullHash[:metaTruncLen]

	return Result{
		Language:      language,
		PageCount:     len(bucket.Pages),
		WordCount:     wordCount,
		MetaHash:      metaHash,
		MetaBytes:     metaBytes,
		WordIndexes:   wordIndexes,
		FilterIndexes: filterIndexes,
		Fragments:     fragments,
		SortKeys:      metaSortKeys,
	}, nil
}
