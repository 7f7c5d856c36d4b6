package indexbuild

import (
	"encoding/json"

	"github.com/pagefind-go/pagefind/internal/fossick"
)

// Fragment is the per-page JSON blob a search session loads at query time
// to render a result. Two pages with byte-identical encoded Fragment JSON
// share one hash and become one record in the bundle.
type Fragment struct {
	URL       string              `json:"url"`
	Content   string              `json:"content"`
	WordCount int                 `json:"word_count"`
	Filters   map[string][]string `json:"filters"`
	Meta      map[string]string   `json:"meta"`
	Anchors   []FragmentAnchor    `json:"anchors"`
}

// FragmentAnchor is the JSON-facing shape of a fossick.Anchor.
type FragmentAnchor struct {
	ElementTag string `json:"element_tag"`
	ID         string `json:"id"`
	Text       string `json:"text"`
	Location   int    `json:"location"`
}

func buildFragment(d fossick.Data) Fragment {
	digest := d.Parse.Digest
	if d.Parse.HasCustomBody && d.Parse.CustomBodyDigest != "" {
		digest = d.Parse.CustomBodyDigest
	}

	anchors := make([]FragmentAnchor, len(d.Parse.Anchors))
	for i, a := range d.Parse.Anchors {
		anchors[i] = FragmentAnchor{
			ElementTag: a.ElementTag,
			ID:         a.ID,
			Text:       a.Text,
			Location:   a.Location,
		}
	}

	return Fragment{
		URL:       d.URL,
		Content:   digest,
		WordCount: len(d.Occurrences),
		Filters:   d.Parse.Filters,
		Meta:      d.Parse.Meta,
		Anchors:   anchors,
	}
}

func encodeFragment(f Fragment) (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
