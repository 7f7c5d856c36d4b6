package indexbuild

import (
	"sort"
	"strconv"

	"github.com/pagefind-go/pagefind/internal/pageset"
)

// MetaSort is one precomputed sort order: the page numbers of every page
// that declared sortKey, ordered by that key's value.
type MetaSort struct {
	SortKey string
	Pages   []int
}

func parseIntSort(v string) (int32, bool) {
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

func parseFloatSort(v string) (float32, bool) {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func sortValueAsFloat(v string) float32 {
	if n, ok := parseIntSort(v); ok {
		return float32(n)
	}
	f, _ := parseFloatSort(v)
	return f
}

// buildSortTables collects every sort key declared across pages and
// precomputes one page ordering per key: numeric if every present value for
// that key parses as an integer or float, string otherwise.
func buildSortTables(pages []pageset.Page) []MetaSort {
	keySet := map[string]bool{}
	for _, page := range pages {
		for key := range page.Data.Parse.SortKeys {
			keySet[key] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sorts := make([]MetaSort, 0, len(keys))
	for _, key := range keys {
		type entry struct {
			value      string
			pageNumber int
		}
		var entries []entry
		numeric := true
		for _, page := range pages {
			v, ok := page.Data.Parse.SortKeys[key]
			if !ok {
				continue
			}
			entries = append(entries, entry{value: v, pageNumber: page.PageNumber})
			if _, okInt := parseIntSort(v); !okInt {
				if _, okFloat := parseFloatSort(v); !okFloat {
					numeric = false
				}
			}
		}

		if numeric {
			sort.SliceStable(entries, func(a, b int) bool {
				return sortValueAsFloat(entries[a].value) < sortValueAsFloat(entries[b].value)
			})
		} else {
			sort.SliceStable(entries, func(a, b int) bool {
				return entries[a].value < entries[b].value
			})
		}

		pageNumbers := make([]int, len(entries))
		for i, e := range entries {
			pageNumbers[i] = e.pageNumber
		}
		sorts = append(sorts, MetaSort{SortKey: key, Pages: pageNumbers})
	}

	return sorts
}
