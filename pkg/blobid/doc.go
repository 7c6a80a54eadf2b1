// Package blobid implements self-describing identifiers for objects kept in
// an S3-compatible object store.
//
// An identifier encodes the bucket, an optional name prefix, a generated
// unique suffix and an optional extension:
//
//	blb_<bucket>_<objectKey>
//	objectKey = [prefix/]suffix[.extension]
//
// For example:
//
//	id, err := blobid.New("uploads",
//	    blobid.WithNamePrefix("users/photos"),
//	    blobid.WithExtension(".JPG"),
//	)
//	// id.String() == "blb_uploads_users/photos/AZL0mQx1d3-8nT0h5JwD3w.jpg"
//
//	parsed, err := blobid.Parse(id.String())
//	// parsed == id
//
// The serialized form is at most MaxLength characters and is what gets
// stored in database columns, embedded in JSON and used as a map key. ID
// implements encoding.TextMarshaler, json.Marshaler, sql.Scanner and
// driver.Valuer for that purpose.
package blobid
