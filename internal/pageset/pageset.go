// Package pageset assigns dense page numbers to fossicked pages and groups
// them into per-language buckets, each of which the indexer builds into an
// independent bundle.
package pageset

import (
	"sort"

	"github.com/pagefind-go/pagefind/internal/fossick"
)

// Page is one fossicked page with its dense, bucket-relative page number
// assigned. The page number is stable within a language bucket only: two
// pages in different buckets may share a page number.
type Page struct {
	PageNumber int
	Data       fossick.Data
}

// Bucket is one language's independent set of pages, ready for inversion.
type Bucket struct {
	Language string
	Pages    []Page
}

// unknownLanguage is the language tag fossick assigns a page with no
// detectable language declaration.
const unknownLanguage = "unknown"

// Group buckets pages by exact language tag in discovery order, then merges
// the "unknown" bucket into the primary language bucket (the bucket with
// the most pages, tie-broken by lexicographically later tag) if any
// non-unknown bucket exists. Each bucket's pages receive dense page numbers
// starting at 0, in the order they were discovered.
func Group(pages []fossick.Data) []Bucket {
	order := make([]string, 0)
	byLang := make(map[string][]fossick.Data)
	for _, p := range pages {
		lang := p.Parse.Language
		if _, seen := byLang[lang]; !seen {
			order = append(order, lang)
		}
		byLang[lang] = append(byLang[lang], p)
	}

	if unknownPages, ok := byLang[unknownLanguage]; ok {
		delete(byLang, unknownLanguage)
		removeFromOrder(&order, unknownLanguage)

		if len(byLang) > 0 {
			primary := primaryLanguage(byLang)
			byLang[primary] = append(byLang[primary], unknownPages...)
		} else {
			byLang[unknownLanguage] = unknownPages
			order = append(order, unknownLanguage)
		}
	}

	buckets := make([]Bucket, 0, len(order))
	for _, lang := range order {
		group := byLang[lang]
		if len(group) == 0 {
			continue
		}
		numbered := make([]Page, len(group))
		for i, d := range group {
			numbered[i] = Page{PageNumber: i, Data: d}
		}
		buckets = append(buckets, Bucket{Language: lang, Pages: numbered})
	}
	return buckets
}

// primaryLanguage picks the bucket with the most pages; ties are broken by
// the lexicographically later language tag, a deterministic tiebreak that
// doesn't depend on map iteration order.
func primaryLanguage(byLang map[string][]fossick.Data) string {
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	best := langs[0]
	for _, lang := range langs[1:] {
		if len(byLang[lang]) > len(byLang[best]) {
			best = lang
		} else if len(byLang[lang]) == len(byLang[best]) && lang > best {
			best = lang
		}
	}
	return best
}

func removeFromOrder(order *[]string, lang string) {
	for i, l := range *order {
		if l == lang {
			*order = append((*order)[:i], (*order)[i+1:]...)
			return
		}
	}
}
