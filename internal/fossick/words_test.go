package fossick

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/stem"
)

func TestDiscreteWordsHyphenated(t *testing.T) {
	require.Equal(t, []string{"these", "words", "are", "hyphenated"}, discreteWords("these-words-are-hyphenated"))
}

func TestDiscreteWordsUnderscored(t *testing.T) {
	require.Equal(t, []string{"array", "structures"}, discreteWords("__array_structures"))
}

func TestDiscreteWordsCamelCase(t *testing.T) {
	require.Equal(t, []string{"wk", "web", "view", "component"}, discreteWords("WKWebVIEWComponent"))
}

func TestDiscreteWordsDotted(t *testing.T) {
	require.Equal(t, []string{"page", "find"}, discreteWords("page.Find"))
}

func TestDiscreteWordsApostrophe(t *testing.T) {
	require.Equal(t, []string{"l", "alphabet"}, discreteWords("l'alphabet"))
}

func TestExtractWordsBasic(t *testing.T) {
	occ := ExtractWords("hello world", nil, "en", stem.Identity)
	require.Len(t, occ, 2)
	require.Equal(t, "hello", occ[0].Word)
	require.Equal(t, 0, occ[0].Position)
	require.Equal(t, "world", occ[1].Word)
	require.Equal(t, 1, occ[1].Position)
	require.Equal(t, 1, occ[0].Weight)
}

func TestExtractWordsAppliesWeightSpans(t *testing.T) {
	spans := []WeightSpan{{Offset: 0, Weight: 1}, {Offset: 2, Weight: 50}}
	occ := ExtractWords("alpha beta gamma", spans, "en", stem.Identity)
	require.Equal(t, 1, occ[0].Weight)
	require.Equal(t, 1, occ[1].Weight)
	require.Equal(t, 50, occ[2].Weight)
}

func TestExtractWordsDecomposesCompoundToken(t *testing.T) {
	occ := ExtractWords("these-words-are-hyphenated", nil, "en", stem.Identity)
	words := map[string]bool{}
	for _, o := range occ {
		words[o.Word] = true
	}
	require.True(t, words["words"])
	require.True(t, words["hyphenated"])
}

func TestExtractWordsStemsViaProvidedStemmer(t *testing.T) {
	occ := ExtractWords("running", nil, "en", stem.Default)
	require.Len(t, occ, 1)
	require.Equal(t, "run", occ[0].Word)
}
