package indexbuild

import (
	"sort"

	"github.com/pagefind-go/pagefind/internal/fossick"
	"github.com/pagefind-go/pagefind/internal/pageset"
)

// PackedPage is one page's delta-weight encoded position list for a single
// word.
type PackedPage struct {
	PageNumber int
	Locs       []int32
}

// PackedWord is the inverse index entry for one word: every page it
// appears on, and where.
type PackedWord struct {
	Word  string
	Pages []PackedPage
}

// invertWords builds the word -> pages inverse index for one language
// bucket. Word iteration order doesn't matter here; chunking sorts by word
// afterward.
func invertWords(pages []pageset.Page) map[string]*PackedWord {
	wordMap := make(map[string]*PackedWord)

	for _, page := range pages {
		byWord := make(map[string][]fossick.Occurrence)
		for _, occ := range page.Data.Occurrences {
			byWord[occ.Word] = append(byWord[occ.Word], occ)
		}

		for word, occs := range byWord {
			positions := make([]int, len(occs))
			weights := make([]int, len(occs))
			order := make([]int, len(occs))
			for i, occ := range occs {
				positions[i] = occ.Position
				weights[i] = serializeWeight(occ.Weight)
				order[i] = i
			}
			sort.SliceStable(order, func(a, b int) bool {
				return sortKeyFor(weights[order[a]]) < sortKeyFor(weights[order[b]])
			})
			sortedPositions := make([]int, len(order))
			sortedWeights := make([]int, len(order))
			for i, idx := range order {
				sortedPositions[i] = positions[idx]
				sortedWeights[i] = weights[idx]
			}

			packedPage := PackedPage{
				PageNumber: page.PageNumber,
				Locs:       encodeDeltaWeights(sortedPositions, sortedWeights),
			}

			pw, ok := wordMap[word]
			if !ok {
				pw = &PackedWord{Word: word}
				wordMap[word] = pw
			}
			pw.Pages = append(pw.Pages, packedPage)
		}
	}

	return wordMap
}

// invertFilters builds the filter -> value -> [page_number] inverse index
// for one language bucket.
func invertFilters(pages []pageset.Page) map[string]map[string][]int {
	filterMap := make(map[string]map[string][]int)

	for _, page := range pages {
		for filter, values := range page.Data.Parse.Filters {
			valueMap, ok := filterMap[filter]
			if !ok {
				valueMap = make(map[string][]int)
				filterMap[filter] = valueMap
			}
			for _, value := range values {
				valueMap[value] = append(valueMap[value], page.PageNumber)
			}
		}
	}

	return filterMap
}
