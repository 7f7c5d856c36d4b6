package fossick

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagefind-go/pagefind/internal/stem"
)

// maxReadAttempts bounds the retry-with-backoff loop around opening a
// source file; a file that never becomes readable within this budget is
// dropped as an input error rather than blocking the whole run.
const maxReadAttempts = 20

// readRetryDelay is how long Fossick waits between open attempts.
const readRetryDelay = 100 * time.Millisecond

// readBufferSize matches the source's bounded read buffer: read in fixed
// chunks and feed them to the tokenizer rather than slurping the file.
const readBufferSize = 20000

// Data is everything a fossicked page contributes to the page set: the
// raw parse result plus the word occurrences derived from whichever
// digest (full-body or custom-body) ends up being used.
type Data struct {
	FilePath      string
	URL           string
	Parse         ParseResult
	Occurrences   []Occurrence
	HasCustomBody bool
}

// RunOptions bundles the per-run configuration a Fossicker needs: where
// the corpus root is (for URL construction), the HTML extraction options,
// and the stemmer to apply to every extracted word.
type RunOptions struct {
	SourceRoot string
	Parse      Options
	Stemmer    stem.Stemmer
}

// Fossick reads filePath, parses it as HTML, and returns the extracted
// page data. options.SourceRoot must be a prefix of filePath.
func Fossick(filePath string, options RunOptions) (Data, error) {
	var lastErr error
	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		data, err := fossickOnce(filePath, options)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !os.IsNotExist(err) && !os.IsPermission(err) {
			break
		}
		time.Sleep(readRetryDelay)
	}
	return Data{}, fmt.Errorf("fossick: %s: %w", filePath, lastErr)
}

func fossickOnce(filePath string, options RunOptions) (Data, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()

	parser := NewParser(options.Parse)
	if err := parser.Write(f); err != nil {
		return Data{}, fmt.Errorf("fossick: parse %s: %w", filePath, err)
	}

	return fromParseResult(parser.Result(), filePath, buildURL(filePath, options.SourceRoot), options.Stemmer), nil
}

// FossickContent parses raw HTML held in memory, as if it had been read
// from a file at url, without touching disk. It backs the service API's
// AddFile action for callers that hand over file contents directly
// instead of a filesystem path.
func FossickContent(content, url string, options RunOptions) (Data, error) {
	parser := NewParser(options.Parse)
	if err := parser.Write(strings.NewReader(content)); err != nil {
		return Data{}, fmt.Errorf("fossick: parse %s: %w", url, err)
	}
	return fromParseResult(parser.Result(), "", url, options.Stemmer), nil
}

func fromParseResult(result ParseResult, filePath, url string, stemmer stem.Stemmer) Data {
	digest := result.Digest
	spans := result.WeightSpans
	if result.HasCustomBody && result.CustomBodyDigest != "" {
		// Weight spans are in full-digest token positions; the custom-body
		// digest gets neutral weighting instead.
		digest = result.CustomBodyDigest
		spans = nil
	}

	occurrences := ExtractWords(digest, spans, result.Language, stemmer)

	return Data{
		FilePath:      filePath,
		URL:           url,
		Parse:         result,
		Occurrences:   occurrences,
		HasCustomBody: result.HasCustomBody,
	}
}

// RecordOptions are the manually-supplied fields for a record added
// through the service API's AddRecord action, bypassing HTML parsing
// entirely: content is treated as an already-normalized digest.
type RecordOptions struct {
	URL      string
	Content  string
	Language string
	Meta     map[string]string
	Filters  map[string][]string
	SortKeys map[string]string
	Stemmer  stem.Stemmer
}

// FossickRecord builds a Data value directly from manually-supplied
// fields, with no HTML parsing step, mirroring the service API's
// add_record path in the original implementation.
func FossickRecord(opts RecordOptions) Data {
	occurrences := ExtractWords(opts.Content, nil, opts.Language, opts.Stemmer)
	return Data{
		URL: opts.URL,
		Parse: ParseResult{
			Digest:         opts.Content,
			Title:          "",
			Language:       opts.Language,
			Meta:           opts.Meta,
			Filters:        opts.Filters,
			SortKeys:       opts.SortKeys,
			HasHTMLElement: true,
		},
		Occurrences: occurrences,
	}
}

// buildURL converts an absolute file path under sourceRoot into a
// site-relative URL: directory-style "index.html" pages become their
// parent directory with a trailing slash, everything else keeps its
// filename.
func buildURL(filePath, sourceRoot string) string {
	rel, err := filepath.Rel(sourceRoot, filePath)
	if err != nil {
		rel = filePath
	}
	rel = filepath.ToSlash(rel)
	rel = strings.ReplaceAll(rel, "index.html", "")
	return "/" + rel
}
