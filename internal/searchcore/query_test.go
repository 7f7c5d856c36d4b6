package searchcore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/fossick"
	"github.com/pagefind-go/pagefind/internal/indexbuild"
	"github.com/pagefind-go/pagefind/internal/pageset"
	"github.com/pagefind-go/pagefind/internal/stem"
)

func buildQueryIndex(t *testing.T) *Index {
	t.Helper()

	bucket := pageset.Bucket{
		Language: "en",
		Pages: []pageset.Page{
			{PageNumber: 0, Data: fossick.Data{
				URL: "/a",
				Parse: fossick.ParseResult{
					Digest:  "search the party",
					Filters: map[string][]string{"tag": {"blog"}},
				},
				Occurrences: []fossick.Occurrence{
					{Word: "search", Position: 0, Weight: 1},
					{Word: "the", Position: 1, Weight: 1},
					{Word: "party", Position: 2, Weight: 1},
				},
			}},
			{PageNumber: 1, Data: fossick.Data{
				URL: "/b",
				Parse: fossick.ParseResult{
					Digest:  "search for partition tools",
					Filters: map[string][]string{"tag": {"docs"}},
				},
				Occurrences: []fossick.Occurrence{
					{Word: "search", Position: 0, Weight: 1},
					{Word: "for", Position: 1, Weight: 1},
					{Word: "partition", Position: 2, Weight: 1},
					{Word: "tools", Position: 3, Weight: 1},
				},
			}},
		},
	}

	result, err := indexbuild.Build(bucket, "1", indexbuild.DefaultChunkSize)
	require.NoError(t, err)

	idx := New("en")
	require.NoError(t, idx.LoadMeta(result.MetaBytes))
	for _, c := range result.WordIndexes {
		require.NoError(t, idx.LoadIndexChunk(c))
	}
	for _, c := range result.FilterIndexes {
		require.NoError(t, idx.LoadFilterChunk(c))
	}
	return idx
}

func TestLooseSearchMatchesBothPagesOnSharedTerm(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := LooseSearch(idx, "search", "en", nil, stem.Identity)
	require.Len(t, results, 2)
}

func TestLooseSearchPrefixExtensionFindsPartyAndPartition(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := LooseSearch(idx, "part", "en", nil, stem.Identity)
	require.Len(t, results, 2)
}

func TestLooseSearchNoMatchReturnsEmpty(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := LooseSearch(idx, "nonexistentword", "en", nil, stem.Identity)
	require.Empty(t, results)
}

func TestLooseSearchEmptyQueryMatchesEveryPage(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := LooseSearch(idx, "", "en", nil, stem.Identity)
	require.Len(t, results, 2)
}

func TestExactSearchRequiresEveryTerm(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := ExactSearch(idx, "search missingword", "en", nil, stem.Identity)
	require.Empty(t, results)
}

func TestExactSearchFindsConsecutivePositions(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := ExactSearch(idx, "search for", "en", nil, stem.Identity)
	require.Len(t, results, 1)
	require.Equal(t, 1, results[0].PageIndex)
	require.Equal(t, float32(1.0), results[0].PageScore)
}

func TestExactSearchSingleTermReturnsEveryOccurrence(t *testing.T) {
	idx := buildQueryIndex(t)
	_, results := ExactSearch(idx, "search", "en", nil, stem.Identity)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Len(t, r.WordLocations, 1)
	}
}

func TestFindWordExtensionsFallsBackToLongestPrefix(t *testing.T) {
	idx := buildQueryIndex(t)
	exts := findWordExtensions(idx, "partitioning")
	require.Len(t, exts, 1)
	require.Equal(t, "partition", exts[0].word)
}
