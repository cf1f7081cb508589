package r2client

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ContentEncodingZstd is the Content-Encoding recorded on compressed objects.
const ContentEncodingZstd = "zstd"

// Compress streams src into dst as zstd and returns the compressed size.
func Compress(dst io.Writer, src io.Reader) (int64, error) {
	cw := &countingWriter{w: dst}
	enc, err := zstd.NewWriter(cw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, fmt.Errorf("compress: create encoder: %w", err)
	}
	if _, err := io.Copy(enc, src); err != nil {
		_ = enc.Close()
		return 0, fmt.Errorf("compress: copy: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("compress: close encoder: %w", err)
	}
	return cw.n, nil
}

// Decompress returns a reader yielding the plain content of the zstd
// stream r. Close releases the decoder.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decompress: create decoder: %w", err)
	}
	return dec.IOReadCloser(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
