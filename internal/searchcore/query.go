package searchcore

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/pagefind-go/pagefind/internal/stem"
)

// stemsFromTerm splits a query on spaces and stems every piece. An
// all-whitespace query stems to nothing: LooseSearch then matches every
// page (subject to filters), while ExactSearch returns no results.
func stemsFromTerm(term, language string, stemmer stem.Stemmer) []string {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	parts := strings.Split(term, " ")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = stemmer.Stem(language, p)
	}
	return out
}

type wordExtension struct {
	word      string
	pageWords []PageWord
}

// findWordExtensions returns every vocabulary word that extends term
// (starts with it). If none exist, it falls back to the single longest
// vocabulary word that term itself extends - the "partition" catching a
// search for "partitioning" when no word starts with "partitioning".
func findWordExtensions(idx *Index, term string) []wordExtension {
	keys := make([]string, 0, len(idx.Words))
	for k := range idx.Words {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var extensions []wordExtension
	longestPrefix := ""
	haveLongestPrefix := false

	for _, key := range keys {
		if strings.HasPrefix(key, term) {
			extensions = append(extensions, wordExtension{word: key, pageWords: idx.Words[key]})
		} else if strings.HasPrefix(term, key) && len(key) > len(longestPrefix) {
			longestPrefix = key
			haveLongestPrefix = true
		}
	}

	if len(extensions) == 0 && haveLongestPrefix {
		extensions = append(extensions, wordExtension{word: longestPrefix, pageWords: idx.Words[longestPrefix]})
	}

	return extensions
}

func bitmapOfPages(pageWords []PageWord) *roaring.Bitmap {
	bm := roaring.New()
	for _, pw := range pageWords {
		bm.AddInt(int(pw.Page))
	}
	return bm
}

func intersectAll(maps []*roaring.Bitmap) *roaring.Bitmap {
	if len(maps) == 0 {
		return nil
	}
	out := maps[0].Clone()
	for _, m := range maps[1:] {
		out.And(m)
	}
	return out
}

func unionAll(maps []*roaring.Bitmap) *roaring.Bitmap {
	if len(maps) == 0 {
		return nil
	}
	out := maps[0].Clone()
	for _, m := range maps[1:] {
		out.Or(m)
	}
	return out
}

func toIntSlice(bm *roaring.Bitmap) []int {
	if bm == nil {
		return nil
	}
	arr := bm.ToArray()
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	return out
}

// ExactSearch requires every stemmed term in query to exist, then keeps
// only pages where the terms appear at consecutive positions in order.
// A single-term query returns every occurrence on a matching page,
// rather than only the first - the original's exact_term only ever
// returns a page's first occurrence here, an artifact of a loop that was
// never meant to special-case the single-term count; this diverges
// deliberately to honor the documented behavior.
func ExactSearch(idx *Index, query, language string, filterResults *roaring.Bitmap, stemmer stem.Stemmer) (unfiltered []int, results []PageSearchResult) {
	terms := stemsFromTerm(query, language, stemmer)
	if len(terms) == 0 {
		return nil, nil
	}

	termEntries := make([][]PageWord, len(terms))
	maps := make([]*roaring.Bitmap, len(terms))
	for i, t := range terms {
		pw, ok := idx.Words[t]
		if !ok {
			return nil, nil
		}
		termEntries[i] = pw
		maps[i] = bitmapOfPages(pw)
	}

	candidate := intersectAll(maps)
	unfiltered = toIntSlice(candidate)

	if filterResults != nil {
		candidate.And(filterResults)
	}

	it := candidate.Iterator()
	for it.HasNext() {
		pageIndex := it.Next()
		page := idx.Pages[pageIndex]

		var perTerm [][]WeightedLocation
		for _, pw := range termEntries {
			for _, p := range pw {
				if p.Page == pageIndex {
					perTerm = append(perTerm, p.Locs)
					break
				}
			}
		}
		if len(perTerm) == 0 {
			continue
		}

		if len(perTerm) == 1 {
			locs := make([]BalancedWordScore, len(perTerm[0]))
			for i, wl := range perTerm[0] {
				locs[i] = BalancedWordScore{Weight: wl.Weight, BalancedScore: float32(wl.Weight), WordLocation: wl.Location}
			}
			results = append(results, PageSearchResult{
				Page: page.Hash, PageIndex: int(pageIndex), PageLength: page.WordCount,
				PageScore: 1.0, WordLocations: locs,
			})
			continue
		}

		loc0, rest := perTerm[0], perTerm[1:]
		for _, wl := range loc0 {
			pos := wl.Location
			i := pos
			success := true
			for _, subsequent := range rest {
				i++
				found := false
				for _, sw := range subsequent {
					if sw.Location == i {
						found = true
						break
					}
				}
				if !found {
					success = false
					break
				}
			}
			if !success {
				continue
			}

			locs := make([]BalancedWordScore, 0, i-pos+1)
			for w := pos; w <= i; w++ {
				locs = append(locs, BalancedWordScore{Weight: 1, BalancedScore: 1.0, WordLocation: w})
			}
			results = append(results, PageSearchResult{
				Page: page.Hash, PageIndex: int(pageIndex), PageLength: page.WordCount,
				PageScore: 1.0, WordLocations: locs,
			})
			break
		}
	}

	return unfiltered, results
}

type matchedWord struct {
	word             string
	pageWord         PageWord
	lengthBonus      float32
	numPagesMatching int
}

type verboseLoc struct {
	word        string
	weight      uint8
	location    uint32
	lengthBonus float32
}

// LooseSearch stems and extends every query term, scores each matching
// page with a BM25 variant weighted by vocabulary-length similarity, and
// orders results by descending score.
func LooseSearch(idx *Index, query, language string, filterResults *roaring.Bitmap, stemmer stem.Stemmer) (unfiltered []int, results []PageSearchResult) {
	totalPages := len(idx.Pages)
	terms := stemsFromTerm(query, language, stemmer)

	var maps []*roaring.Bitmap
	var matched []matchedWord

	for _, t := range terms {
		var wordMaps []*roaring.Bitmap
		for _, ext := range findWordExtensions(idx, t) {
			diff := absDiff(len(ext.word), len(t)) + 1
			if diff > 255 {
				diff = 255
			}
			lb := wordLengthBonus(uint8(diff), idx.RankingWeights.TermSimilarity)

			for _, pw := range ext.pageWords {
				matched = append(matched, matchedWord{
					word: ext.word, pageWord: pw, lengthBonus: lb, numPagesMatching: len(ext.pageWords),
				})
			}
			wordMaps = append(wordMaps, bitmapOfPages(ext.pageWords))
		}
		if u := unionAll(wordMaps); u != nil {
			maps = append(maps, u)
		}
	}

	// A term was given but matched nothing: force the whole search empty.
	if len(terms) > 0 && len(maps) == 0 {
		maps = append(maps, roaring.New())
	}

	var candidate *roaring.Bitmap
	if len(maps) > 0 {
		candidate = intersectAll(maps)
		unfiltered = toIntSlice(candidate)
		maps = []*roaring.Bitmap{candidate}
	}

	if filterResults != nil {
		maps = append(maps, filterResults)
	} else if len(maps) == 0 {
		maps = append(maps, allPages(totalPages))
	}

	final := intersectAll(maps)
	if final == nil {
		return unfiltered, nil
	}

	it := final.Iterator()
	for it.HasNext() {
		pageIndex := it.Next()
		page := idx.Pages[pageIndex]

		var locs []verboseLoc
		for _, mw := range matched {
			if mw.pageWord.Page != pageIndex {
				continue
			}
			for _, wl := range mw.pageWord.Locs {
				locs = append(locs, verboseLoc{word: mw.word, weight: wl.Weight, location: wl.Location, lengthBonus: mw.lengthBonus})
			}
		}
		sort.Slice(locs, func(i, j int) bool { return locs[i].location < locs[j].location })

		var unique []BalancedWordScore
		weightedWords := make(map[string]float64)
		var weightedOrder []string

		addWeight := func(word string, weight float64) {
			if _, ok := weightedWords[word]; !ok {
				weightedOrder = append(weightedOrder, word)
			}
			weightedWords[word] += weight
		}

		if len(locs) > 0 {
			working := locs[0]
			for _, next := range locs[1:] {
				if working.location == next.location {
					if next.weight < working.weight {
						working.weight = next.weight
						working.lengthBonus = next.lengthBonus
					} else if next.weight == working.weight {
						working.weight += next.weight
						working.lengthBonus += next.lengthBonus
					}
					continue
				}
				addWeight(working.word, float64(working.weight))
				unique = append(unique, calculateIndividualWordScore(working.weight, working.lengthBonus, working.location))
				working = next
			}
			addWeight(working.word, float64(working.weight))
			unique = append(unique, calculateIndividualWordScore(working.weight, working.lengthBonus, working.location))
		}

		var pageScore float32
		for _, word := range weightedOrder {
			var wordInfo matchedWord
			for _, mw := range matched {
				if mw.word == word {
					wordInfo = mw
					break
				}
			}
			params := BM25Params{
				// Divide by the default serialized weight minus one, so a
				// single default-weighted occurrence counts as TF 25/24.
				WeightedTermFrequency: float32(weightedWords[word]) / 24.0,
				DocumentLength:        float32(page.WordCount),
				AveragePageLength:     idx.AveragePageLength,
				TotalPages:            totalPages,
				PagesContainingTerm:   wordInfo.numPagesMatching,
				LengthBonus:           wordInfo.lengthBonus,
			}
			pageScore += calculateBM25WordScore(params, idx.RankingWeights).Score
		}

		results = append(results, PageSearchResult{
			Page: page.Hash, PageIndex: int(pageIndex), PageLength: page.WordCount,
			PageScore: pageScore, WordLocations: unique,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].PageScore > results[j].PageScore })

	return unfiltered, results
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
