package searchcore

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/buger/jsonparser"
)

type filterBehaviour int

const (
	behaviourAny filterBehaviour = iota
	behaviourAll
)

// collapse combines a set of page bitmaps per behaviour. An empty input
// collapses to the empty set, matching the original's "no maps, no
// matches" default.
func collapse(maps []*roaring.Bitmap, behaviour filterBehaviour) *roaring.Bitmap {
	if len(maps) == 0 {
		return roaring.New()
	}
	out := maps[0].Clone()
	for _, m := range maps[1:] {
		if behaviour == behaviourAny {
			out.Or(m)
		} else {
			out.And(m)
		}
	}
	return out
}

func (idx *Index) invert(set *roaring.Bitmap) *roaring.Bitmap {
	out := allPages(len(idx.Pages))
	out.AndNot(set)
	return out
}

func isOperatorKey(key string) bool {
	switch key {
	case "any", "all", "not", "none":
		return true
	default:
		return false
	}
}

func behaviourForOperator(key string) filterBehaviour {
	if key == "any" || key == "none" {
		return behaviourAny
	}
	return behaviourAll
}

func invertsResult(key string) bool {
	return key == "not" || key == "none"
}

// buildFilterSet looks up filterKey's value map and collapses the sets
// named by value, which may be a single string, an array of strings
// and/or nested operator objects, or a nested operator object.
func (idx *Index) buildFilterSet(filterKey string, value []byte, valueType jsonparser.ValueType, behaviour filterBehaviour) *roaring.Bitmap {
	valueMap := idx.Filters[filterKey]

	lookup := func(v []byte) *roaring.Bitmap {
		s, err := jsonparser.ParseString(v)
		if err != nil {
			return roaring.New()
		}
		if valueMap == nil {
			return roaring.New()
		}
		if bm, ok := valueMap[s]; ok {
			return bm.Clone()
		}
		return roaring.New()
	}

	var maps []*roaring.Bitmap

	switch valueType {
	case jsonparser.String:
		maps = append(maps, lookup(value))

	case jsonparser.Array:
		_, _ = jsonparser.ArrayEach(value, func(elem []byte, elemType jsonparser.ValueType, _ int, _ error) {
			switch elemType {
			case jsonparser.String:
				maps = append(maps, lookup(elem))
			case jsonparser.Object:
				if inner := idx.buildFilterSet(filterKey, elem, jsonparser.Object, behaviourAll); inner != nil {
					maps = append(maps, inner)
				}
			}
		})

	case jsonparser.Object:
		_ = jsonparser.ObjectEach(value, func(k, v []byte, vt jsonparser.ValueType, _ int) error {
			key := string(k)
			if !isOperatorKey(key) {
				return nil
			}
			inner := idx.buildFilterSet(filterKey, v, vt, behaviourForOperator(key))
			if inner == nil {
				return nil
			}
			if invertsResult(key) {
				inner = idx.invert(inner)
			}
			maps = append(maps, inner)
			return nil
		})

	default:
		return nil
	}

	if len(maps) == 0 {
		return nil
	}
	return collapse(maps, behaviour)
}

// parseFilterObject implements the object-level grammar: every key is
// either an operator (any/all/not/none) recursing into a nested
// object/array, or a filter name whose value builds a leaf set.
func (idx *Index) parseFilterObject(data []byte, behaviour filterBehaviour) *roaring.Bitmap {
	var maps []*roaring.Bitmap

	_ = jsonparser.ObjectEach(data, func(k, v []byte, vt jsonparser.ValueType, _ int) error {
		key := string(k)

		var inner *roaring.Bitmap
		switch {
		case isOperatorKey(key) && vt == jsonparser.Object:
			inner = idx.parseFilterObject(v, behaviourForOperator(key))
		case isOperatorKey(key) && vt == jsonparser.Array:
			inner = idx.parseFilterArray(v, behaviourForOperator(key))
		default:
			inner = idx.buildFilterSet(key, v, vt, behaviourAll)
		}

		if inner == nil {
			return nil
		}
		if isOperatorKey(key) && invertsResult(key) {
			inner = idx.invert(inner)
		}
		maps = append(maps, inner)
		return nil
	})

	if len(maps) == 0 {
		return nil
	}
	return collapse(maps, behaviour)
}

// parseFilterArray implements the array-of-objects grammar: each element
// is evaluated as its own "all" conjunction, then combined per behaviour.
func (idx *Index) parseFilterArray(data []byte, behaviour filterBehaviour) *roaring.Bitmap {
	var maps []*roaring.Bitmap
	_, _ = jsonparser.ArrayEach(data, func(elem []byte, elemType jsonparser.ValueType, _ int, _ error) {
		if elemType != jsonparser.Object {
			return
		}
		if inner := idx.parseFilterObject(elem, behaviourAll); inner != nil {
			maps = append(maps, inner)
		}
	})
	if len(maps) == 0 {
		return nil
	}
	return collapse(maps, behaviour)
}

func topLevelType(data []byte) jsonparser.ValueType {
	_, vt, _, err := jsonparser.Get(data)
	if err != nil {
		return jsonparser.NotExist
	}
	return vt
}

// Filter evaluates a JSON filter expression against the loaded filter
// tables. The second return is false when the JSON is malformed or its
// top level isn't an object - callers treat that as "no filter".
func (idx *Index) Filter(filterJSON string) (*roaring.Bitmap, bool) {
	data := []byte(filterJSON)
	if topLevelType(data) != jsonparser.Object {
		return nil, false
	}
	result := idx.parseFilterObject(data, behaviourAll)
	if result == nil {
		return roaring.New(), true
	}
	return result, true
}

// digFilterNames walks a filter expression collecting every leaf filter
// name; operator keys (any/all/not/none) recurse but never themselves
// count as a name.
func digFilterNames(data []byte, valueType jsonparser.ValueType) []string {
	var names []string

	switch valueType {
	case jsonparser.Object:
		_ = jsonparser.ObjectEach(data, func(k, v []byte, vt jsonparser.ValueType, _ int) error {
			key := string(k)
			if isOperatorKey(key) && (vt == jsonparser.Object || vt == jsonparser.Array) {
				names = append(names, digFilterNames(v, vt)...)
				return nil
			}
			names = append(names, key)
			return nil
		})
	case jsonparser.Array:
		_, _ = jsonparser.ArrayEach(data, func(elem []byte, elemType jsonparser.ValueType, _ int, _ error) {
			if elemType == jsonparser.Object || elemType == jsonparser.Array {
				names = append(names, digFilterNames(elem, elemType)...)
			}
		})
	}

	return names
}

// FilterChunkHashesFor returns the filter-chunk hashes a caller must load
// before evaluating filterJSON, derived from every leaf filter name in
// the expression.
func (idx *Index) FilterChunkHashesFor(filterJSON string) []string {
	data := []byte(filterJSON)
	if topLevelType(data) != jsonparser.Object {
		return nil
	}

	seen := make(map[string]bool)
	var hashes []string
	for _, name := range digFilterNames(data, jsonparser.Object) {
		hash, ok := idx.FilterChunkHashes[name]
		if !ok || seen[hash] {
			continue
		}
		seen[hash] = true
		hashes = append(hashes, hash)
	}
	return hashes
}

// AddSyntheticFilter registers a filter built by a caller after the fact
// (e.g. the JS API), rather than decoded from a filter chunk: every named
// value maps to the full page set for the language.
func (idx *Index) AddSyntheticFilter(filterJSON string) error {
	data := []byte(filterJSON)
	if topLevelType(data) != jsonparser.Object {
		return nil
	}

	all := allPages(len(idx.Pages))

	return jsonparser.ObjectEach(data, func(k, v []byte, vt jsonparser.ValueType, _ int) error {
		filterName := string(k)
		valueMap, ok := idx.Filters[filterName]
		if !ok {
			valueMap = make(map[string]*roaring.Bitmap)
			idx.Filters[filterName] = valueMap
		}

		switch vt {
		case jsonparser.String:
			if s, err := jsonparser.ParseString(v); err == nil {
				valueMap[s] = all.Clone()
			}
		case jsonparser.Array:
			_, _ = jsonparser.ArrayEach(v, func(elem []byte, elemType jsonparser.ValueType, _ int, _ error) {
				if elemType != jsonparser.String {
					return
				}
				if s, err := jsonparser.ParseString(elem); err == nil {
					valueMap[s] = all.Clone()
				}
			})
		}
		return nil
	})
}

// FilterCount is a filter value's result-page count under two scopes.
type FilterCount struct {
	// Unfiltered is the count against the query's term-matched pages,
	// before any filter was applied.
	Unfiltered int
	// Filtered is the count against the final, filtered result set.
	Filtered int
}

// FilterCounts computes, for every loaded filter name and value, how
// many pages it would contribute under the two scopes UI facets need:
// the unfiltered (term-matched only) result set, and the final filtered
// result set.
func (idx *Index) FilterCounts(unfilteredPages, filteredPages []int) map[string]map[string]FilterCount {
	unfilteredSet := roaring.New()
	for _, p := range unfilteredPages {
		unfilteredSet.AddInt(p)
	}
	filteredSet := roaring.New()
	for _, p := range filteredPages {
		filteredSet.AddInt(p)
	}

	out := make(map[string]map[string]FilterCount, len(idx.Filters))
	for name, values := range idx.Filters {
		counts := make(map[string]FilterCount, len(values))
		for value, bm := range values {
			u := bm.Clone()
			u.And(unfilteredSet)
			f := bm.Clone()
			f.And(filteredSet)
			counts[value] = FilterCount{
				Unfiltered: int(u.GetCardinality()),
				Filtered:   int(f.GetCardinality()),
			}
		}
		out[name] = counts
	}
	return out
}
