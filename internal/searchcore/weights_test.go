package searchcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeLocationsDefaultWeight(t *testing.T) {
	got := decodeLocations([]int32{0, 2, 4})
	require.Equal(t, []WeightedLocation{
		{Weight: 25, Location: 0},
		{Weight: 25, Location: 2},
		{Weight: 25, Location: 4},
	}, got)
}

func TestDecodeLocationsAppliesWeightMarker(t *testing.T) {
	// -51 marks weight 50 for the position that follows.
	got := decodeLocations([]int32{-51, 3, 4})
	require.Equal(t, []WeightedLocation{
		{Weight: 50, Location: 3},
		{Weight: 50, Location: 4},
	}, got)
}

func TestDecodeLocationsCapsWeightAt255(t *testing.T) {
	got := decodeLocations([]int32{-1000, 1})
	require.Equal(t, uint8(255), got[0].Weight)
}

func TestDecodeLocationsRoundTripsIndexbuildEncoding(t *testing.T) {
	// Mirrors the exact wire values indexbuild emits for a run of
	// default-weighted positions followed by one heavier one.
	locs := []int32{0, 1, -76, 2}
	got := decodeLocations(locs)
	require.Equal(t, []WeightedLocation{
		{Weight: 25, Location: 0},
		{Weight: 25, Location: 1},
		{Weight: 75, Location: 2},
	}, got)
}
