package fossick

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pagefind-go/pagefind/internal/stem"
)

// lowerCaser performs Unicode-aware lowercasing (language.Und: no
// language-specific casing rules, since the digest's own declared
// language is handled downstream by the stemmer, not the caser).
var lowerCaser = cases.Lower(language.Und)

// Occurrence is one emitted (word, position, weight) triple from the word
// extractor, before inversion groups them by word.
type Occurrence struct {
	Word     string
	Position int
	Weight   int
}

var (
	nonWordRe      = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	acronymBoundaryRe = regexp.MustCompile(`([\p{Lu}]+)([\p{Lu}][\p{Ll}])`)
	caseBoundaryRe = regexp.MustCompile(`([\p{Ll}\p{N}])([\p{Lu}])`)
	asciiPunctRe   = regexp.MustCompile("[!\"#$%&'()*+,./:;<=>?@\\[\\]^`{|}~_-]")
)

// isCompound reports whether raw contains internal separators or
// camel-case boundaries, meaning it should also be decomposed into
// separate word forms.
func isCompound(raw string) bool {
	if asciiPunctRe.MatchString(raw) {
		return true
	}
	return caseBoundaryRe.MatchString(raw) || acronymBoundaryRe.MatchString(raw)
}

// discreteWords decomposes a compound token into its lowercased,
// space-joined constituent words: punctuation becomes a boundary, and
// camelCase/acronym boundaries are split the same way a human would read
// them aloud ("WKWebVIEWComponent" -> "wk web view component").
func discreteWords(raw string) []string {
	s := asciiPunctRe.ReplaceAllString(raw, " ")
	s = acronymBoundaryRe.ReplaceAllString(s, "$1 $2")
	s = caseBoundaryRe.ReplaceAllString(s, "$1 $2")
	s = lowerCaser.String(s)
	return strings.Fields(s)
}

// emojiRanges are the Unicode blocks this extractor treats as emoji when
// scanning grapheme clusters. This is a deliberately coarse approximation
// of a full emoji-sequence database (no such lookup table exists anywhere
// in the retrieval pack); it covers the blocks that account for the large
// majority of emoji in the wild.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x203C, Hi: 0x3299, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1},
	},
}

func isEmojiGrapheme(g string) bool {
	for _, r := range g {
		if unicode.Is(emojiRanges, r) {
			return true
		}
	}
	return false
}

// extraEmoji scans raw (pre-stripping) for grapheme clusters recognized
// as emoji, returning each as its own term, in order.
func extraEmoji(raw string) []string {
	var out []string
	gr := uniseg.NewGraphemes(raw)
	for gr.Next() {
		cluster := gr.Str()
		if isEmojiGrapheme(cluster) {
			out = append(out, cluster)
		}
	}
	return out
}

// ExtractWords turns a normalized digest into an ordered list of word
// occurrences. Position is the digest's whitespace-token index; weight
// comes from the narrowest WeightSpan covering that position (25 is the
// serialized form of the neutral weight 1, applied by the caller when
// persisting, not here — ExtractWords always returns the raw weight).
func ExtractWords(digest string, spans []WeightSpan, lang string, stemmer stem.Stemmer) []Occurrence {
	if stemmer == nil {
		stemmer = stem.Identity
	}

	tokens := strings.Fields(digest)
	var occurrences []Occurrence

	spanIdx := 0
	currentWeight := 1
	for pos, rawToken := range tokens {
		for spanIdx < len(spans) && spans[spanIdx].Offset <= pos {
			currentWeight = spans[spanIdx].Weight
			spanIdx++
		}

		lower := lowerCaser.String(rawToken)
		stripped := nonWordRe.ReplaceAllString(lower, "")
		if stripped != "" {
			occurrences = append(occurrences, Occurrence{
				Word:     stemmer.Stem(lang, stripped),
				Position: pos,
				Weight:   currentWeight,
			})
		}

		if isCompound(rawToken) {
			for _, w := range discreteWords(rawToken) {
				w = nonWordRe.ReplaceAllString(w, "")
				if w == "" || w == stripped {
					continue
				}
				occurrences = append(occurrences, Occurrence{
					Word:     stemmer.Stem(lang, w),
					Position: pos,
					Weight:   currentWeight,
				})
			}
		}

		for _, e := range extraEmoji(rawToken) {
			occurrences = append(occurrences, Occurrence{
				Word:     e,
				Position: pos,
				Weight:   currentWeight,
			})
		}
	}

	return occurrences
}
