package indexbuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func wordWithPage(word string, pageNumber int, locLen int) *PackedWord {
	return &PackedWord{
		Word:  word,
		Pages: []PackedPage{{PageNumber: pageNumber, Locs: make([]int32, locLen)}},
	}
}

func mergeWord(into *PackedWord, pageNumber int, locLen int) {
	into.Pages = append(into.Pages, PackedPage{PageNumber: pageNumber, Locs: make([]int32, locLen)})
}

func testVocabulary() map[string]*PackedWord {
	apple := wordWithPage("apple", 1, 3)
	mergeWord(apple, 5, 3)
	return map[string]*PackedWord{
		"apple":   apple,
		"apricot": wordWithPage("apricot", 5, 3),
		"banana":  wordWithPage("banana", 5, 4),
		"peach":   wordWithPage("peach", 5, 3),
	}
}

func TestChunkIndexSplitsOnByteBudget(t *testing.T) {
	chunks := chunkIndex(testVocabulary(), 8)

	require.Len(t, chunks, 3)
	require.Equal(t, "apple", chunks[0][0].Word)
	require.Equal(t, "apricot", chunks[1][0].Word)
	require.Equal(t, "banana", chunks[1][1].Word)
	require.Equal(t, "peach", chunks[2][0].Word)
}

func TestChunkMetaTruncatesBoundariesToCommonPrefix(t *testing.T) {
	chunks := chunkIndex(testVocabulary(), 8)
	meta := chunkMeta(chunks)

	require.Equal(t, []MetaChunk{
		{From: "apple", To: "app"},
		{From: "apr", To: "b"},
		{From: "p", To: "peach"},
	}, meta)
}

func TestGetPrefixesCommonCases(t *testing.T) {
	a, b := getPrefixes("apple", "apricot")
	require.Equal(t, "app", a)
	require.Equal(t, "apr", b)

	a, b = getPrefixes("cataraman", "yacht")
	require.Equal(t, "c", a)
	require.Equal(t, "y", b)

	a, b = getPrefixes("cath", "cathartic")
	require.Equal(t, "cath", a)
	require.Equal(t, "catha", b)
}

func TestGetPrefixesWhenFirstIsLongerThanSecond(t *testing.T) {
	a, b := getPrefixes("catha", "cath")
	require.Equal(t, "catha", a)
	require.Equal(t, "cath", b)
}
