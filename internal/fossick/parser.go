// Package fossick extracts a normalized text digest, title, language,
// metadata, filters, sort keys and anchors from a single HTML page, and
// turns that digest into weighted word positions ready for inversion.
//
// The HTML side replaces the teacher's callback-and-Rc<RefCell<>> node tree
// with an explicit stack of owned node buffers: pushing a node on a start
// tag, popping and appending to the parent on the matching end tag. This is
// the systems-language re-expression the design notes call for — no shared
// mutable state, no reference counting.
package fossick

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// sentenceSelectors are block-level tags whose closing text gets trailing
// ". " punctuation so adjacent blocks read like separate sentences.
var sentenceSelectors = map[string]bool{
	"p": true, "td": true, "div": true, "ul": true,
	"li": true, "article": true, "section": true,
}

// removeSelectors are tags whose entire subtree is dropped from the digest.
var removeSelectors = map[string]bool{
	"script": true, "noscript": true, "label": true, "form": true,
	"svg": true, "footer": true, "header": true, "nav": true, "iframe": true,
}

// voidElements never receive a matching end tag; the tokenizer never
// balances them, so the node stack must not push one.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var (
	newlinesRe         = regexp.MustCompile(`[\n\r]+`)
	trimNewlinesRe     = regexp.MustCompile(`^[\n\r\s]+|[\n\r\s]+$`)
	extraneousSpacesRe = regexp.MustCompile(`\s{2,}`)
	sentenceCharsRe    = regexp.MustCompile(`[\w'")$*]$`)
)

// normalizeContent trims leading/trailing newlines and whitespace, folds
// any run of newlines to a single space, and collapses runs of 2+
// whitespace characters to one space. It is idempotent, and never changes
// the count of whitespace-separated fields in its input — which is what
// lets token positions survive normalization unchanged.
func normalizeContent(s string) string {
	s = trimNewlinesRe.ReplaceAllString(s, "")
	s = newlinesRe.ReplaceAllString(s, " ")
	s = extraneousSpacesRe.ReplaceAllString(s, " ")
	return s
}

// Anchor is an in-page element the digest links back to, keyed by the
// token position in the digest at which it was encountered.
type Anchor struct {
	ElementTag string
	ID         string
	Text       string
	Location   int
}

// WeightSpan marks that, starting at token index Offset, subsequent tokens
// carry Weight until the next span begins.
type WeightSpan struct {
	Offset int
	Weight int
}

// ParseResult is everything the HTML digest extractor produces for one page.
type ParseResult struct {
	Digest           string
	CustomBodyDigest string
	Title            string
	Language         string
	Meta             map[string]string
	Filters          map[string][]string
	SortKeys         map[string]string
	Anchors          []Anchor
	WeightSpans      []WeightSpan
	HasCustomBody    bool
	HasHTMLElement   bool
}

// node is one frame of the digest extractor's element stack. buf/spans/
// anchors are expressed relative to the node's own content; they're
// shifted into the parent's coordinate space when popped, so that by the
// time they reach the root they're expressed in final-digest token
// indices.
type node struct {
	tag      string
	weight   int
	anchorID string
	ignored  bool

	buf     strings.Builder
	spans   []WeightSpan
	anchors []Anchor

	customBuf      strings.Builder
	customBodyRoot bool
}

func tokenCount(s string) int { return len(strings.Fields(s)) }

// Options configures extraction behavior that would otherwise be a hidden
// global: extra tag names to exclude, and a forced language override.
// The custom body root is detected from the data-pagefind-body attribute
// alone; there is no option to select it.
type Options struct {
	ExcludeSelectors []string // additional tags treated like the remove-set
	ForceLanguage    string   // overrides any in-document language declaration
}

// Parser streams HTML tokens and builds a ParseResult.
type Parser struct {
	opts Options

	stack        []*node
	inBody       bool
	inCustomBody bool
	customBodySeen bool

	title          string
	language       string
	meta           map[string]string
	filters        map[string][]string
	sortKeys       map[string]string
	hasHTMLElement bool
}

// NewParser returns a Parser ready to consume HTML bytes via Write.
func NewParser(opts Options) *Parser {
	root := &node{weight: 1}
	return &Parser{
		opts:     opts,
		stack:    []*node{root},
		meta:     map[string]string{},
		filters:  map[string][]string{},
		sortKeys: map[string]string{},
	}
}

func (p *Parser) top() *node { return p.stack[len(p.stack)-1] }

func (p *Parser) excluded(tag string) bool {
	if removeSelectors[tag] {
		return true
	}
	for _, sel := range p.opts.ExcludeSelectors {
		if sel == tag {
			return true
		}
	}
	return false
}

// Write feeds a chunk of HTML bytes into the tokenizer. Malformed markup
// is absorbed by the tokenizer's own error recovery; extraction continues
// best-effort rather than failing the whole page.
func (p *Parser) Write(r io.Reader) error {
	z := html.NewTokenizer(r)
	z.SetMaxBuf(readBufferSize)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return nil
			}
			return fmt.Errorf("fossick: tokenize: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken:
			p.handleStartTag(z.Token(), tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			p.handleEndTag(z.Token())
		case html.TextToken:
			p.handleText(z.Token())
		}
	}
}

func attr(tok html.Token, name string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (p *Parser) handleStartTag(tok html.Token, selfClosing bool) {
	tag := tok.Data

	switch tag {
	case "html":
		p.hasHTMLElement = true
		if lang, ok := attr(tok, "lang"); ok && p.language == "" {
			p.language = lang
		}
	case "body":
		p.inBody = true
	}

	if lang, ok := attr(tok, "data-pagefind-language"); ok {
		p.language = lang
	}
	if v, ok := attr(tok, "data-pagefind-meta"); ok {
		parseKeyedPairs(v, func(k, val string) { p.meta[k] = val })
	}
	if v, ok := attr(tok, "data-pagefind-filter"); ok {
		parseKeyedPairs(v, func(k, val string) { p.filters[k] = append(p.filters[k], val) })
	}
	if v, ok := attr(tok, "data-pagefind-sort"); ok {
		parseKeyedPairs(v, func(k, val string) { p.sortKeys[k] = val })
	}

	if !p.inBody && tag != "body" {
		return
	}
	if selfClosing || voidElements[tag] {
		return
	}

	weight := p.top().weight
	if w, ok := attr(tok, "data-pagefind-weight"); ok {
		if parsed, err := parsePositiveInt(w); err == nil {
			weight = parsed
		}
	}

	n := &node{tag: tag, weight: weight}
	if _, ok := attr(tok, "data-pagefind-body"); ok && !p.inCustomBody {
		p.customBodySeen = true
		p.inCustomBody = true
		n.customBodyRoot = true
	}
	if _, ok := attr(tok, "data-pagefind-ignore"); ok {
		n.ignore()
	}
	if _, ok := attr(tok, "data-ignore"); ok {
		n.ignore()
	}
	if p.excluded(tag) {
		n.ignore()
	}
	if id, ok := attr(tok, "id"); ok {
		n.anchorID = id
	}

	p.stack = append(p.stack, n)
}

// ignore marks the node (and, transitively, everything pushed inside it)
// as excluded from the digest: its buffer is built up like any other, but
// discarded instead of appended to the parent when popped.
func (n *node) ignore() { n.ignored = true }

func (p *Parser) handleEndTag(tok html.Token) {
	tag := tok.Data
	if tag == "body" {
		p.inBody = false
		return
	}
	if voidElements[tag] {
		return
	}
	if len(p.stack) <= 1 {
		return
	}

	n := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	parent := p.top()

	if n.customBodyRoot {
		p.inCustomBody = false
	}

	if sentenceSelectors[tag] && !n.ignored {
		padSentence(&n.buf)
		padSentence(&n.customBuf)
	}

	baseOffset := tokenCount(parent.buf.String())

	if n.anchorID != "" && !n.ignored {
		text := normalizeContent(n.buf.String())
		if text != "" {
			parent.anchors = append(parent.anchors, Anchor{
				ElementTag: tag,
				ID:         n.anchorID,
				Text:       text,
				Location:   baseOffset,
			})
		}
	}

	if n.ignored {
		return
	}

	for _, s := range n.spans {
		parent.spans = append(parent.spans, WeightSpan{Offset: baseOffset + s.Offset, Weight: s.Weight})
	}
	for _, a := range n.anchors {
		a.Location += baseOffset
		parent.anchors = append(parent.anchors, a)
	}

	parent.buf.WriteString(n.buf.String())
	parent.customBuf.WriteString(n.customBuf.String())
}

func padSentence(b *strings.Builder) {
	content := b.String()
	if content == "" {
		return
	}
	padded := " " + content
	b.Reset()
	b.WriteString(padded)
	trimmed := strings.TrimRight(padded, " \t\n\r")
	if sentenceCharsRe.MatchString(trimmed) {
		b.WriteString(". ")
	}
}

func (p *Parser) handleText(tok html.Token) {
	if !p.inBody {
		return
	}
	text := tok.Data
	top := p.top()

	top.spans = append(top.spans, WeightSpan{Offset: tokenCount(top.buf.String()), Weight: top.weight})
	top.buf.WriteString(text)
	if p.inCustomBody {
		top.customBuf.WriteString(text)
	}

	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].tag == "h1" {
			if p.title == "" {
				if normalized := normalizeContent(text); normalized != "" {
					p.title = normalized
				}
			}
			break
		}
	}
}

// Result finalizes parsing and returns the extracted page data. Call once
// after all bytes have been written.
func (p *Parser) Result() ParseResult {
	root := p.stack[0]
	digest := normalizeContent(root.buf.String())
	customDigest := normalizeContent(root.customBuf.String())

	lang := p.language
	if p.opts.ForceLanguage != "" {
		lang = p.opts.ForceLanguage
	}
	if lang == "" {
		lang = "unknown"
	}

	return ParseResult{
		Digest:           digest,
		CustomBodyDigest: customDigest,
		Title:            p.title,
		Language:         lang,
		Meta:             p.meta,
		Filters:          p.filters,
		SortKeys:         p.sortKeys,
		Anchors:          root.anchors,
		WeightSpans:      root.spans,
		HasCustomBody:    p.customBodySeen,
		HasHTMLElement:   p.hasHTMLElement,
	}
}

// parseKeyedPairs splits a "k:v, k2:v2" data-attribute value into pairs. A
// bare value with no colon is recorded under itself as both key and value,
// matching how single-token filter/meta shorthand is commonly authored.
func parseKeyedPairs(raw string, emit func(key, value string)) {
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, ":"); ok {
			emit(strings.TrimSpace(k), strings.TrimSpace(v))
		} else {
			emit(part, part)
		}
	}
}

func parsePositiveInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("fossick: invalid weight %q", s)
	}
	return n, nil
}
