package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression applied to an object.
type Codec int

const (
	// CodecNone stores objects as is.
	CodecNone Codec = iota
	// CodecZstd stores zstd frames.
	CodecZstd
	// CodecLZ4 stores LZ4 frames.
	CodecLZ4
)

// CodecFor picks the codec implied by an object name's extension.
func CodecFor(name string) Codec {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return CodecZstd
	case strings.HasSuffix(name, ".lz4"):
		return CodecLZ4
	default:
		return CodecNone
	}
}

// OpenReader opens name in s and decompresses it according to CodecFor.
func OpenReader(ctx context.Context, s Store, name string) (io.ReadCloser, error) {
	rc, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(rc, CodecFor(name))
	if err != nil {
		return nil, errors.Join(err, rc.Close())
	}
	return r, nil
}

// CreateWriter creates name in s and compresses it according to CodecFor.
func CreateWriter(ctx context.Context, s Store, name string) (io.WriteCloser, error) {
	wc, err := s.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewWriter(wc, CodecFor(name))
}

// NewReader wraps rc with a decompressor for codec. Closing the result
// closes rc.
func NewReader(rc io.ReadCloser, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case CodecZstd:
		dec, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: dec, close: func() error {
			dec.Close()
			return rc.Close()
		}}, nil
	case CodecLZ4:
		return &readCloser{Reader: lz4.NewReader(rc), close: rc.Close}, nil
	default:
		return rc, nil
	}
}

// NewWriter wraps wc with a compressor for codec. Closing the result
// flushes the compressor and then closes wc.
func NewWriter(wc io.WriteCloser, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case CodecZstd:
		enc, err := zstd.NewWriter(wc)
		if err != nil {
			return nil, errors.Join(err, wc.Close())
		}
		return &writeCloser{Writer: enc, flush: enc.Close, wc: wc}, nil
	case CodecLZ4:
		zw := lz4.NewWriter(wc)
		return &writeCloser{Writer: zw, flush: zw.Close, wc: wc}, nil
	default:
		return wc, nil
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r *readCloser) Close() error { return r.close() }

type writeCloser struct {
	io.Writer
	flush func() error
	wc    io.WriteCloser
}

func (w *writeCloser) Close() error {
	if err := w.flush(); err != nil {
		return errors.Join(err, Abort(w.wc))
	}
	return w.wc.Close()
}

func (w *writeCloser) Abort() error {
	return Abort(w.wc)
}
