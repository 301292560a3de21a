// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("codebooks/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	c, err := cache.New(store)
//
// Writes go through the S3 transfer manager, so large blobs are uploaded in
// parallel parts with CRC32C checksums. Listing follows continuation tokens.
package s3
