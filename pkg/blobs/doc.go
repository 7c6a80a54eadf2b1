// Package blobs stores and retrieves binary objects addressed by blob
// identifiers (see package blobid).
//
// A Client is built over an ObjectStore; implementations for memory, S3,
// MinIO and gocloud.dev buckets live under storage/. Uploads mint a fresh
// identifier from the bucket, an optional name prefix and the file name's
// extension, resolve the content type from the file name unless one is
// given, and record the original file name as object metadata.
//
// Streams
//
// GetStream returns a Content whose stream keeps the store response alive
// until it is closed. Close it on every path:
//
//	content, err := client.GetStream(ctx, id)
//	if err != nil {
//		return err
//	}
//	defer content.Close()
//
// Cancelling ctx also closes the stream. ReadToStream and Get manage the
// response themselves.
package blobs
