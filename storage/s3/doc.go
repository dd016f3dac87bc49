// Package s3 provides a storage.Store for Amazon S3.
//
// Writes stream through the SDK's multipart upload manager, so objects of
// any size are created without buffering them in full:
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := s3store.NewStore(s3.NewFromConfig(cfg), "my-bucket", "corpora/")
package s3
