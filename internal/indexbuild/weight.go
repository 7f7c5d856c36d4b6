package indexbuild

// defaultSerializedWeight is the on-wire value a raw weight of 1 serializes
// to. Most words carry the default weight, so sorting it first in a word's
// position list keeps the common case free of weight-change markers.
const defaultSerializedWeight = 25

// maxSerializedWeight caps how large a single weight-change marker can get
// on the wire.
const maxSerializedWeight = 255

// serializeWeight maps a fossick.Occurrence's raw weight (1 by default,
// overridden by data-pagefind-weight) onto the wire's 0-255 weight scale.
func serializeWeight(weight int) int {
	if weight <= 0 {
		weight = 1
	}
	serialized := weight * defaultSerializedWeight
	if serialized > maxSerializedWeight {
		serialized = maxSerializedWeight
	}
	return serialized
}

// sortKeyFor orders positions so the default weight sorts first, then
// ascending by weight; this is what lets the delta-weight encoder emit the
// fewest weight-change markers.
func sortKeyFor(serializedWeight int) int {
	if serializedWeight == defaultSerializedWeight {
		return 0
	}
	return serializedWeight
}

// encodeDeltaWeights packs a word's (position, weight) pairs for one page
// into the wire's delta-weight position list: consecutive positions at the
// same weight are emitted bare, and a weight change is flagged by emitting
// -(weight)-1 immediately before the next position. Callers must already
// have sorted positions by sortKeyFor.
func encodeDeltaWeights(positions []int, weights []int) []int32 {
	out := make([]int32, 0, len(positions))
	currentWeight := defaultSerializedWeight
	for i, pos := range positions {
		w := weights[i]
		if w != currentWeight {
			out = append(out, int32(-w-1), int32(pos))
			currentWeight = w
		} else {
			out = append(out, int32(pos))
		}
	}
	return out
}

// decodeDeltaWeights is the inverse of encodeDeltaWeights: it expands the
// wire position list back into parallel position/weight slices.
func decodeDeltaWeights(locs []int32) (positions []int, weights []int) {
	currentWeight := defaultSerializedWeight
	for i := 0; i < len(locs); i++ {
		v := locs[i]
		if v < 0 {
			currentWeight = int(-v - 1)
			continue
		}
		positions = append(positions, int(v))
		weights = append(weights, currentWeight)
	}
	return positions, weights
}
