// Package storage abstracts where corpora and vocabularies live.
//
// A Store opens named objects for streaming reads and creates them for
// streaming writes. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem; reads are memory-mapped
//   - MemoryStore: in-process map, mostly for tests
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with multipart uploads
//
// # Compression
//
// OpenReader and CreateWriter wrap any Store and compress or decompress
// transparently by name: ".zst" selects zstd and ".lz4" selects LZ4 frames.
// Other names pass through unchanged.
package storage
