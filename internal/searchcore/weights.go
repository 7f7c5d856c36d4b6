package searchcore

// decodeLocations reverses the delta-weight encoding applied at index
// time: positions are emitted in ascending (weight, location) order with
// a negative marker preceding any position whose weight differs from the
// running weight. The running weight starts at the default serialized
// value (25) and persists until the next marker.
func decodeLocations(locs []int32) []WeightedLocation {
	var out []WeightedLocation
	weight := int32(25)

	for _, loc := range locs {
		if loc < 0 {
			absWeight := (loc + 1) * -1
			if absWeight > 255 {
				absWeight = 255
			}
			weight = absWeight
			continue
		}
		out = append(out, WeightedLocation{Weight: uint8(weight), Location: uint32(loc)})
	}

	return out
}
