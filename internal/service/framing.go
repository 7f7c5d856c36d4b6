package service

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// frameDelimiter separates consecutive base64 frames on the wire, per
// spec.md §6: "reads base64-encoded JSON frames separated by a single ','
// byte".
const frameDelimiter = ','

// FrameReader reads length-delimited (by a trailing comma, not a length
// prefix) base64 request frames from an underlying stream.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r for frame-at-a-time reading.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadRequest reads the next frame and decodes it as a Request. Returns
// io.EOF when the stream is exhausted.
func (fr *FrameReader) ReadRequest() (Request, error) {
	raw, err := fr.r.ReadBytes(frameDelimiter)
	if err != nil && len(raw) == 0 {
		return Request{}, err
	}
	if len(raw) > 0 && raw[len(raw)-1] == frameDelimiter {
		raw = raw[:len(raw)-1]
	}

	decoded, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return Request{}, fmt.Errorf("service: decode frame: %w", err)
	}

	var req Request
	if err := json.Unmarshal(decoded, &req); err != nil {
		return Request{}, fmt.Errorf("service: unmarshal request: %w", err)
	}
	return req, nil
}

// FrameWriter writes base64 response frames, each followed by the
// delimiter, flushing after every frame so a caller reading stdout sees
// it immediately.
type FrameWriter struct {
	w *bufio.Writer
}

// NewFrameWriter wraps w for frame-at-a-time writing.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: bufio.NewWriter(w)}
}

// WriteResponse encodes resp and writes it as one frame.
func (fw *FrameWriter) WriteResponse(resp Response) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("service: marshal response: %w", err)
	}

	b64 := base64.StdEncoding.EncodeToString(encoded)
	if _, err := fw.w.WriteString(b64); err != nil {
		return fmt.Errorf("service: write frame: %w", err)
	}
	if err := fw.w.WriteByte(frameDelimiter); err != nil {
		return fmt.Errorf("service: write frame delimiter: %w", err)
	}
	return fw.w.Flush()
}
