package pageset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/fossick"
)

func page(lang, url string) fossick.Data {
	return fossick.Data{
		URL:   url,
		Parse: fossick.ParseResult{Language: lang},
	}
}

func TestGroupBucketsByExactLanguageTag(t *testing.T) {
	buckets := Group([]fossick.Data{
		page("en", "/a"),
		page("fr", "/b"),
		page("en", "/c"),
	})

	require.Len(t, buckets, 2)
	byLang := map[string]Bucket{}
	for _, b := range buckets {
		byLang[b.Language] = b
	}
	require.Len(t, byLang["en"].Pages, 2)
	require.Len(t, byLang["fr"].Pages, 1)
}

func TestGroupAssignsDensePageNumbersPerBucket(t *testing.T) {
	buckets := Group([]fossick.Data{
		page("en", "/a"),
		page("en", "/b"),
		page("en", "/c"),
	})

	require.Len(t, buckets, 1)
	for i, p := range buckets[0].Pages {
		require.Equal(t, i, p.PageNumber)
	}
}

func TestGroupMergesUnknownIntoPrimaryLanguage(t *testing.T) {
	buckets := Group([]fossick.Data{
		page("en", "/a"),
		page("en", "/b"),
		page("fr", "/c"),
		page("unknown", "/d"),
	})

	require.Len(t, buckets, 2)
	var en Bucket
	for _, b := range buckets {
		require.NotEqual(t, "unknown", b.Language)
		if b.Language == "en" {
			en = b
		}
	}
	require.Len(t, en.Pages, 3)
}

func TestGroupPrimaryLanguageTiesBreakLexicographicallyLater(t *testing.T) {
	buckets := Group([]fossick.Data{
		page("en", "/a"),
		page("fr", "/b"),
		page("unknown", "/c"),
	})

	require.Len(t, buckets, 2)
	var fr Bucket
	for _, b := range buckets {
		if b.Language == "fr" {
			fr = b
		}
	}
	require.Len(t, fr.Pages, 2)
}

func TestGroupKeepsUnknownAsOwnBucketWhenNoOtherLanguage(t *testing.T) {
	buckets := Group([]fossick.Data{
		page("unknown", "/a"),
		page("unknown", "/b"),
	})

	require.Len(t, buckets, 1)
	require.Equal(t, "unknown", buckets[0].Language)
	require.Len(t, buckets[0].Pages, 2)
}
