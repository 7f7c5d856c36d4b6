package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Magic is prepended to the uncompressed body of every gzip-framed bundle
// file. Readers check for it after decompression, not before, so it lives
// inside the gzip stream rather than as a file-level header. This is
// load-bearing for cache-busting across format revisions but carries no
// integrity guarantee of its own; retained exactly for bundle compatibility.
const Magic = "pagefind_dcd"

// EncodeFrame gzip-compresses body with Magic prepended to the
// uncompressed bytes, matching the bundle writer's on-disk format.
func EncodeFrame(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("codec: create gzip writer: %w", err)
	}
	if _, err := io.WriteString(gz, Magic); err != nil {
		return nil, fmt.Errorf("codec: write magic: %w", err)
	}
	if _, err := gz.Write(body); err != nil {
		return nil, fmt.Errorf("codec: write body: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("codec: close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeFrame gunzips data and strips the leading Magic prefix, returning
// the original body. It returns an error if the stream doesn't gunzip or
// doesn't carry the expected magic.
func DecodeFrame(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("codec: open gzip reader: %w", err)
	}
	defer gz.Close()

	decompressed, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("codec: decompress: %w", err)
	}

	if len(decompressed) < len(Magic) || string(decompressed[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("codec: missing pagefind_dcd magic prefix")
	}

	return decompressed[len(Magic):], nil
}
