// Package minio provides a storage.Store backed by the MinIO client.
//
// It works with MinIO and other S3-compatible servers:
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := miniostore.NewStore(client, "corpora", "")
package minio
