package indexbuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeWeightDefaultIsTwentyFive(t *testing.T) {
	require.Equal(t, 25, serializeWeight(1))
}

func TestSerializeWeightScalesAndCaps(t *testing.T) {
	require.Equal(t, 50, serializeWeight(2))
	require.Equal(t, 255, serializeWeight(20))
}

func TestEncodeDecodeDeltaWeightsRoundTrip(t *testing.T) {
	positions := []int{0, 1, 5, 6}
	weights := []int{25, 25, 50, 50}

	locs := encodeDeltaWeights(positions, weights)
	gotPositions, gotWeights := decodeDeltaWeights(locs)

	require.Equal(t, positions, gotPositions)
	require.Equal(t, weights, gotWeights)
}

func TestEncodeDeltaWeightsOmitsMarkerWhenAllDefault(t *testing.T) {
	locs := encodeDeltaWeights([]int{0, 2, 4}, []int{25, 25, 25})
	require.Equal(t, []int32{0, 2, 4}, locs)
}

func TestEncodeDeltaWeightsMarksFirstNonDefaultWeight(t *testing.T) {
	locs := encodeDeltaWeights([]int{3}, []int{50})
	require.Equal(t, []int32{-51, 3}, locs)
}
