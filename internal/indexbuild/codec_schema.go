package indexbuild

import (
	"github.com/pagefind-go/pagefind/internal/codec"
)

// EncodeMeta serializes a MetaIndex using the bundle's typed binary codec.
func EncodeMeta(m MetaIndex) []byte {
	w := codec.NewWriter()
	w.String(m.Version)

	w.Array(len(m.Pages))
	for _, p := range m.Pages {
		w.Array(2)
		w.String(p.Hash)
		w.U32(p.WordCount)
	}

	w.Array(len(m.IndexChunks))
	for _, c := range m.IndexChunks {
		w.Array(3)
		w.String(c.From)
		w.String(c.To)
		w.String(c.Hash)
	}

	w.Array(len(m.Filters))
	for _, f := range m.Filters {
		w.Array(2)
		w.String(f.Filter)
		w.String(f.Hash)
	}

	w.Array(len(m.Sorts))
	for _, s := range m.Sorts {
		w.Array(2)
		w.String(s.SortKey)
		w.Array(len(s.Pages))
		for _, p := range s.Pages {
			w.U32(uint32(p))
		}
	}

	return w.Bytes()
}

// DecodeMeta is the inverse of EncodeMeta.
func DecodeMeta(data []byte) (MetaIndex, error) {
	r := codec.NewReader(data)
	var m MetaIndex

	version, err := r.String()
	if err != nil {
		return m, err
	}
	m.Version = version

	pageCount, err := r.Array()
	if err != nil {
		return m, err
	}
	m.Pages = make([]MetaPage, pageCount)
	for i := range m.Pages {
		if _, err := r.Array(); err != nil {
			return m, err
		}
		hash, err := r.String()
		if err != nil {
			return m, err
		}
		wc, err := r.U32()
		if err != nil {
			return m, err
		}
		m.Pages[i] = MetaPage{Hash: hash, WordCount: wc}
	}

	chunkCount, err := r.Array()
	if err != nil {
		return m, err
	}
	m.IndexChunks = make([]MetaChunk, chunkCount)
	for i := range m.IndexChunks {
		if _, err := r.Array(); err != nil {
			return m, err
		}
		from, err := r.String()
		if err != nil {
			return m, err
		}
		to, err := r.String()
		if err != nil {
			return m, err
		}
		hash, err := r.String()
		if err != nil {
			return m, err
		}
		m.IndexChunks[i] = MetaChunk{From: from, To: to, Hash: hash}
	}

	filterCount, err := r.Array()
	if err != nil {
		return m, err
	}
	m.Filters = make([]MetaFilter, filterCount)
	for i := range m.Filters {
		if _, err := r.Array(); err != nil {
			return m, err
		}
		filter, err := r.String()
		if err != nil {
			return m, err
		}
		hash, err := r.String()
		if err != nil {
			return m, err
		}
		m.Filters[i] = MetaFilter{Filter: filter, Hash: hash}
	}

	sortCount, err := r.Array()
	if err != nil {
		return m, err
	}
	m.Sorts = make([]MetaSort, sortCount)
	for i := range m.Sorts {
		if _, err := r.Array(); err != nil {
			return m, err
		}
		key, err := r.String()
		if err != nil {
			return m, err
		}
		pageCount, err := r.Array()
		if err != nil {
			return m, err
		}
		pages := make([]int, pageCount)
		for j := range pages {
			v, err := r.U32()
			if err != nil {
				return m, err
			}
			pages[j] = int(v)
		}
		m.Sorts[i] = MetaSort{SortKey: key, Pages: pages}
	}

	return m, nil
}

// EncodeIndexChunk serializes one vocabulary chunk (a set of inverted
// words) using the bundle's typed binary codec.
func EncodeIndexChunk(words []*PackedWord) []byte {
	w := codec.NewWriter()
	w.Array(len(words))
	for _, word := range words {
		w.Array(2)
		w.String(word.Word)
		w.Array(len(word.Pages))
		for _, p := range word.Pages {
			w.Array(2)
			w.U32(uint32(p.PageNumber))
			w.Array(len(p.Locs))
			for _, loc := range p.Locs {
				w.I32(loc)
			}
		}
	}
	return w.Bytes()
}

// DecodeIndexChunk is the inverse of EncodeIndexChunk.
func DecodeIndexChunk(data []byte) ([]*PackedWord, error) {
	r := codec.NewReader(data)
	wordCount, err := r.Array()
	if err != nil {
		return nil, err
	}
	words := make([]*PackedWord, wordCount)
	for i := range words {
		if _, err := r.Array(); err != nil {
			return nil, err
		}
		word, err := r.String()
		if err != nil {
			return nil, err
		}
		pageCount, err := r.Array()
		if err != nil {
			return nil, err
		}
		pages := make([]PackedPage, pageCount)
		for j := range pages {
			if _, err := r.Array(); err != nil {
				return nil, err
			}
			pageNumber, err := r.U32()
			if err != nil {
				return nil, err
			}
			locCount, err := r.Array()
			if err != nil {
				return nil, err
			}
			locs := make([]int32, locCount)
			for k := range locs {
				v, err := r.I32()
				if err != nil {
					return nil, err
				}
				locs[k] = v
			}
			pages[j] = PackedPage{PageNumber: int(pageNumber), Locs: locs}
		}
		words[i] = &PackedWord{Word: word, Pages: pages}
	}
	return words, nil
}

// FilterChunk is one filter's decoded inverse index: every value and the
// pages that carry it.
type FilterChunk struct {
	Filter string
	Values []FilterValue
}

// FilterValue is one filter value's page list.
type FilterValue struct {
	Value string
	Pages []int
}

// EncodeFilterChunk serializes one filter's inverse index.
func EncodeFilterChunk(chunk FilterChunk) []byte {
	w := codec.NewWriter()
	w.String(chunk.Filter)
	w.Array(len(chunk.Values))
	for _, v := range chunk.Values {
		w.Array(2)
		w.String(v.Value)
		w.Array(len(v.Pages))
		for _, p := range v.Pages {
			w.U32(uint32(p))
		}
	}
	return w.Bytes()
}

// DecodeFilterChunk is the inverse of EncodeFilterChunk.
func DecodeFilterChunk(data []byte) (FilterChunk, error) {
	r := codec.NewReader(data)
	var fc FilterChunk

	filter, err := r.String()
	if err != nil {
		return fc, err
	}
	fc.Filter = filter

	valueCount, err := r.Array()
	if err != nil {
		return fc, err
	}
	fc.Values = make([]FilterValue, valueCount)
	for i := range fc.Values {
		if _, err := r.Array(); err != nil {
			return fc, err
		}
		value, err := r.String()
		if err != nil {
			return fc, err
		}
		pageCount, err := r.Array()
		if err != nil {
			return fc, err
		}
		pages := make([]int, pageCount)
		for j := range pages {
			v, err := r.U32()
			if err != nil {
				return fc, err
			}
			pages[j] = int(v)
		}
		fc.Values[i] = FilterValue{Value: value, Pages: pages}
	}

	return fc, nil
}
