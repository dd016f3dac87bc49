package minio

import (
	"context"
	"errors"
	"io"
	"path"
	"sync/atomic"

	"github.com/axiomhq/bpe/storage"
	"github.com/minio/minio-go/v7"
)

// partSize bounds the memory buffered per upload part for streams of
// unknown length.
const partSize = 16 << 20

// Store implements storage.Store for MinIO and S3-compatible servers.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a Store. rootPrefix is prepended to every key.
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return true
	}
	return false
}

// Open streams an object. Missing objects are reported when Open is called,
// not on the first read.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

// Create streams writes into a single PutObject call.
func (s *Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &writer{
		pw:   pw,
		done: make(chan error, 1),
	}
	key := s.key(name)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, key, pr, -1, minio.PutObjectOptions{
			ContentType: "text/plain; charset=utf-8",
			PartSize:    partSize,
		})
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

type writer struct {
	pw       *io.PipeWriter
	done     chan error
	finished atomic.Bool
}

func (w *writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *writer) Close() error {
	if !w.finished.CompareAndSwap(false, true) {
		return errors.New("minio: writer already closed")
	}
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

// Abort cancels the upload; the object is not created.
func (w *writer) Abort() error {
	if !w.finished.CompareAndSwap(false, true) {
		return nil
	}
	_ = w.pw.CloseWithError(errors.New("minio: upload aborted"))
	<-w.done
	return nil
}
