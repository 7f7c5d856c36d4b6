package indexbuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetaRoundTrip(t *testing.T) {
	meta := MetaIndex{
		Version: "1",
		Pages:   []MetaPage{{Hash: "en_aaaa", WordCount: 12}},
		IndexChunks: []MetaChunk{
			{From: "a", To: "m", Hash: "en_bbbb"},
		},
		Filters: []MetaFilter{{Filter: "tag", Hash: "en_cccc"}},
		Sorts:   []MetaSort{{SortKey: "date", Pages: []int{2, 0, 1}}},
	}

	decoded, err := DecodeMeta(EncodeMeta(meta))
	require.NoError(t, err)
	require.Equal(t, meta, decoded)
}

func TestIndexChunkRoundTrip(t *testing.T) {
	words := []*PackedWord{
		{Word: "cat", Pages: []PackedPage{{PageNumber: 0, Locs: []int32{0, 4, -51, 9}}}},
	}

	decoded, err := DecodeIndexChunk(EncodeIndexChunk(words))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Equal(t, "cat", decoded[0].Word)
	require.Equal(t, []int32{0, 4, -51, 9}, decoded[0].Pages[0].Locs)
}

func TestFilterChunkRoundTrip(t *testing.T) {
	chunk := FilterChunk{
		Filter: "tag",
		Values: []FilterValue{{Value: "guide", Pages: []int{0, 2}}},
	}

	decoded, err := DecodeFilterChunk(EncodeFilterChunk(chunk))
	require.NoError(t, err)
	require.Equal(t, chunk, decoded)
}
