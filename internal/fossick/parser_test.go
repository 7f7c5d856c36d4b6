package fossick

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseBody(t *testing.T, fragments ...string) ParseResult {
	t.Helper()
	p := NewParser(Options{})
	html := "<html><body>" + strings.Join(fragments, "") + "</body></html>"
	require.NoError(t, p.Write(strings.NewReader(html)))
	return p.Result()
}

func TestNormalizeContentBoundary(t *testing.T) {
	require.Equal(t, "Hello Wor ld?", normalizeContent("\nHello  Wor\n ld? \n \n"))
}

func TestBlockPunctuation(t *testing.T) {
	result := parseBody(t,
		"<p>Sentences should have periods</p>",
		"<p>Unless one exists.</p>",
		"<div>Or it ends with punctuation:</div>",
		"<article>Except for 'quotes'</article>",
	)
	require.Equal(t,
		"Sentences should have periods. Unless one exists. Or it ends with punctuation: Except for 'quotes'.",
		result.Digest,
	)
}

func TestIgnoredSubtrees(t *testing.T) {
	result := parseBody(t,
		"<p>Elements like:</p>",
		"<form>Should <b>not</b> be indexed</form>",
		"<p>forms</p>",
		"<div> As well as <div data-ignore>Manually ignored <p>Elements</p></div>*crickets*</div>",
	)
	require.Equal(t, "Elements like: forms. As well as *crickets*.", result.Digest)
}

func TestPagefindIgnoreAttributeAlsoExcludes(t *testing.T) {
	result := parseBody(t,
		"<p>Keep this</p>",
		"<div data-pagefind-ignore>Drop this</div>",
	)
	require.Equal(t, "Keep this.", result.Digest)
}

func TestTitleCapturesFirstH1(t *testing.T) {
	result := parseBody(t,
		"<h1>Welcome Home</h1>",
		"<p>Body text</p>",
		"<h1>Second heading ignored for title</h1>",
	)
	require.Equal(t, "Welcome Home", result.Title)
}

func TestMetaFilterSortAttributesCaptured(t *testing.T) {
	result := parseBody(t,
		`<div data-pagefind-meta="author:Jane Doe" data-pagefind-filter="tag:guide" data-pagefind-sort="date:2024-01-01">Content</div>`,
	)
	require.Equal(t, "Jane Doe", result.Meta["author"])
	require.Equal(t, []string{"guide"}, result.Filters["tag"])
	require.Equal(t, "2024-01-01", result.SortKeys["date"])
}

func TestVoidElementsDoNotUnbalanceStack(t *testing.T) {
	result := parseBody(t,
		"<p>Before<br>After<img src=\"x.png\">Tail</p>",
	)
	require.Equal(t, "BeforeAfterTail.", result.Digest)
}

func TestAnchorLocationRecorded(t *testing.T) {
	result := parseBody(t,
		"<p>one two three</p>",
		`<h2 id="section-two">Heading Two</h2>`,
		"<p>more words follow</p>",
	)
	require.Len(t, result.Anchors, 1)
	require.Equal(t, "section-two", result.Anchors[0].ID)
	require.Equal(t, "Heading Two", result.Anchors[0].Text)
	require.Equal(t, 3, result.Anchors[0].Location)
}
