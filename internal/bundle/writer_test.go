package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagefind-go/pagefind/internal/codec"
)

func TestWriteFramedRoundTripsThroughCodec(t *testing.T) {
	w := NewWriter(t.TempDir(), false)
	require.NoError(t, w.writeFramed("index/abc.pf_index", []byte("payload"), Disk))

	data, err := readFile(w.root, "index/abc.pf_index")
	require.NoError(t, err)

	decoded, err := codec.DecodeFrame(data)
	require.NoError(t, err)
	require.Equal(t, "payload", string(decoded))
}

func TestWriteFramedImmutableSkipsExistingFile(t *testing.T) {
	w := NewWriter(t.TempDir(), false)
	require.NoError(t, w.writeFramed("pagefind.x.pf_meta", []byte("first"), Immutable))
	require.NoError(t, w.writeFramed("pagefind.x.pf_meta", []byte("second"), Immutable))

	data, err := readFile(w.root, "pagefind.x.pf_meta")
	require.NoError(t, err)
	decoded, err := codec.DecodeFrame(data)
	require.NoError(t, err)
	require.Equal(t, "first", string(decoded))
}

func TestSyntheticModeCollectsFilesWithoutTouchingDisk(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, true)
	require.NoError(t, w.writeFramed("fragment/h.pf_fragment", []byte("frag"), Immutable))

	require.Len(t, w.Files(), 1)
	require.Equal(t, "fragment/h.pf_fragment", w.Files()[0].Path)

	_, err := readFile(dir, "fragment/h.pf_fragment")
	require.Error(t, err)
}

func readFile(root, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, relPath))
}
