package indexbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/fossick"
	"github.com/pagefind-go/pagefind/internal/pageset"
)

func sortPage(pageNumber int, sortKeys map[string]string) pageset.Page {
	return pageset.Page{
		PageNumber: pageNumber,
		Data:       fossick.Data{Parse: fossick.ParseResult{SortKeys: sortKeys}},
	}
}

func TestBuildSortTablesOrdersNumericAscending(t *testing.T) {
	pages := []pageset.Page{
		sortPage(0, map[string]string{"weight": "30"}),
		sortPage(1, map[string]string{"weight": "10"}),
		sortPage(2, map[string]string{"weight": "20"}),
	}

	sorts := buildSortTables(pages)
	require.Len(t, sorts, 1)
	require.Equal(t, "weight", sorts[0].SortKey)
	require.Equal(t, []int{1, 2, 0}, sorts[0].Pages)
}

func TestBuildSortTablesFallsBackToStringWhenAnyValueNonNumeric(t *testing.T) {
	pages := []pageset.Page{
		sortPage(0, map[string]string{"title": "Banana"}),
		sortPage(1, map[string]string{"title": "Apple"}),
	}

	sorts := buildSortTables(pages)
	require.Equal(t, []int{1, 0}, sorts[0].Pages)
}

func TestBuildSortTablesSkipsPagesMissingTheKey(t *testing.T) {
	pages := []pageset.Page{
		sortPage(0, map[string]string{"date": "2"}),
		sortPage(1, nil),
	}

	sorts := buildSortTables(pages)
	require.Equal(t, []int{0}, sorts[0].Pages)
}
