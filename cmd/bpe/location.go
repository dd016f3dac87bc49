package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/axiomhq/bpe/storage"
	miniostore "github.com/axiomhq/bpe/storage/minio"
	s3store "github.com/axiomhq/bpe/storage/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	envMinioEndpoint  = "BPE_MINIO_ENDPOINT"
	envMinioAccessKey = "BPE_MINIO_ACCESS_KEY"
	envMinioSecretKey = "BPE_MINIO_SECRET_KEY"
	envMinioInsecure  = "BPE_MINIO_INSECURE"
)

// splitObjectURL splits "scheme://bucket/key" into bucket and key.
func splitObjectURL(loc, scheme string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(loc, scheme+"://")
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", usagef("invalid location %q: want %s://bucket/key", loc, scheme)
	}
	return bucket, key, nil
}

// resolve maps a location to the store holding it and the object name
// within that store.
func resolve(ctx context.Context, loc string, e env) (storage.Store, string, error) {
	switch {
	case strings.HasPrefix(loc, "s3://"):
		bucket, key, err := splitObjectURL(loc, "s3")
		if err != nil {
			return nil, "", err
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load aws config: %w", err)
		}
		return s3store.NewStore(awss3.NewFromConfig(cfg), bucket, ""), key, nil
	case strings.HasPrefix(loc, "minio://"):
		bucket, key, err := splitObjectURL(loc, "minio")
		if err != nil {
			return nil, "", err
		}
		endpoint := e.getenv(envMinioEndpoint)
		if endpoint == "" {
			return nil, "", usagef("%s is required for minio:// locations", envMinioEndpoint)
		}
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(e.getenv(envMinioAccessKey), e.getenv(envMinioSecretKey), ""),
			Secure: e.getenv(envMinioInsecure) != "1",
		})
		if err != nil {
			return nil, "", usagef("minio client: %v", err)
		}
		return miniostore.NewStore(client, bucket, ""), key, nil
	case strings.Contains(loc, "://"):
		return nil, "", usagef("unsupported location scheme in %q", loc)
	default:
		return storage.NewLocalStore("."), loc, nil
	}
}

func openLocation(ctx context.Context, loc string, e env) (io.ReadCloser, error) {
	if loc == "-" {
		return io.NopCloser(e.stdin), nil
	}
	s, name, err := resolve(ctx, loc, e)
	if err != nil {
		return nil, err
	}
	r, err := storage.OpenReader(ctx, s, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}
	return r, nil
}

func createLocation(ctx context.Context, loc string, e env) (io.WriteCloser, error) {
	if loc == "-" {
		return nopWriteCloser{e.stdout}, nil
	}
	s, name, err := resolve(ctx, loc, e)
	if err != nil {
		return nil, err
	}
	w, err := storage.CreateWriter(ctx, s, name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", loc, err)
	}
	return w, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
