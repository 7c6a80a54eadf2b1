package blobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/Aurora-Science-Hub/Framework/internal/trace"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/contenttype"
)

// maxPreallocSize caps the buffer Get reserves up front from the reported
// object size. Larger objects still load; the buffer grows as it reads.
const maxPreallocSize = 64 << 20

// Client uploads, reads, inspects and deletes blobs addressed by blob
// identifiers.
type Client interface {
	// AddFile uploads data to the default bucket.
	AddFile(ctx context.Context, fileName string, data io.Reader, opts ...AddOption) (blobid.ID, error)

	// AddFileToBucket uploads data to bucket under a fresh identifier whose
	// extension is taken from fileName.
	AddFileToBucket(ctx context.Context, bucket, fileName string, data io.Reader, opts ...AddOption) (blobid.ID, error)

	// Get reads the whole object into memory. Prefer GetStream or
	// ReadToStream for large objects.
	Get(ctx context.Context, id blobid.ID) (*Metadata, []byte, error)

	// GetStream opens the object for streaming. The returned Content must be
	// closed; cancelling ctx closes it as well.
	GetStream(ctx context.Context, id blobid.ID) (*Content, error)

	// ReadToStream copies the object into dst, which is left open.
	ReadToStream(ctx context.Context, id blobid.ID, dst io.Writer) (*Metadata, error)

	// GetMetadata returns the object's metadata without its content.
	GetMetadata(ctx context.Context, id blobid.ID) (*Metadata, error)

	// Exists reports whether the object exists. Only not-found maps to
	// false; any other store failure is returned.
	Exists(ctx context.Context, id blobid.ID) (bool, error)

	// Delete removes the object. Deleting a missing object succeeds.
	Delete(ctx context.Context, id blobid.ID) error
}

// BlobClient implements Client over an ObjectStore.
type BlobClient struct {
	store         ObjectStore
	defaultBucket string
	logger        *slog.Logger
}

var _ Client = (*BlobClient)(nil)

// New creates a client over store.
func New(store ObjectStore, opts ...Option) (*BlobClient, error) {
	if store == nil {
		return nil, errors.New("object store is required")
	}

	c := &BlobClient{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.defaultBucket != "" && !blobid.ValidBucket(c.defaultBucket) {
		return nil, fmt.Errorf("%w: default bucket %q", ErrInvalidArgument, c.defaultBucket)
	}

	return c, nil
}

// DefaultBucket returns the bucket AddFile uploads to, or "".
func (c *BlobClient) DefaultBucket() string {
	return c.defaultBucket
}

func (c *BlobClient) AddFile(ctx context.Context, fileName string, data io.Reader, opts ...AddOption) (blobid.ID, error) {
	if c.defaultBucket == "" {
		return blobid.ID{}, ErrDefaultBucketNotConfigured
	}
	return c.AddFileToBucket(ctx, c.defaultBucket, fileName, data, opts...)
}

func (c *BlobClient) AddFileToBucket(ctx context.Context, bucket, fileName string, data io.Reader, opts ...AddOption) (blobid.ID, error) {
	if strings.TrimSpace(bucket) == "" {
		return blobid.ID{}, invalidArgument("bucket is required")
	}
	if strings.TrimSpace(fileName) == "" {
		return blobid.ID{}, invalidArgument("file name is required")
	}
	if data == nil {
		return blobid.ID{}, invalidArgument("data is required")
	}

	var o addOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	ext := o.extension
	if !o.hasExt {
		ext = strings.TrimPrefix(path.Ext(fileName), ".")
	}

	id, err := blobid.New(bucket, blobid.WithNamePrefix(o.namePrefix), blobid.WithExtension(ext))
	if err != nil {
		return blobid.ID{}, err
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = contenttype.FromFileName(fileName)
	}

	ctx, span := c.start(ctx, "blobs.AddFile", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(ctx, "Uploading blob", "file_name", fileName, "content_type", contentType)

	err = c.store.Put(ctx, id.Bucket(), id.ObjectKey(), data, PutOptions{
		ContentType: contentType,
		Metadata:    uploadMetadata(fileName, o.attributes),
		Size:        sizeOf(data),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload blob", "file_name", fileName, "error", err)
		return blobid.ID{}, trace.RecordError(span, &OpError{Op: "add", ID: id, Err: err}, "failed to upload blob")
	}

	logger.InfoContext(ctx, "Blob uploaded", "file_name", fileName, "content_type", contentType)
	return id, nil
}

func (c *BlobClient) Get(ctx context.Context, id blobid.ID) (*Metadata, []byte, error) {
	if id.IsZero() {
		return nil, nil, invalidArgument("blob id is required")
	}

	ctx, span := c.start(ctx, "blobs.Get", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(ctx, "Downloading blob into memory")

	obj, err := c.store.Get(ctx, id.Bucket(), id.ObjectKey())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to download blob", "error", err)
		return nil, nil, trace.RecordError(span, &OpError{Op: "get", ID: id, Err: err}, "failed to download blob")
	}

	stream := newResponseStream(obj.Body, obj.Response)
	defer stream.Close()

	var buf bytes.Buffer
	if obj.Info.Size > 0 {
		buf.Grow(int(min(obj.Info.Size, maxPreallocSize)))
	}
	if _, err := buf.ReadFrom(stream); err != nil {
		logger.ErrorContext(ctx, "Failed to read blob", "error", err)
		return nil, nil, trace.RecordError(span, &OpError{Op: "get", ID: id, Err: err}, "failed to read blob")
	}

	md := newMetadata(id, obj.Info)
	logger.InfoContext(ctx, "Blob downloaded", "size", md.Size)
	return md, buf.Bytes(), nil
}

func (c *BlobClient) GetStream(ctx context.Context, id blobid.ID) (*Content, error) {
	if id.IsZero() {
		return nil, invalidArgument("blob id is required")
	}

	spanCtx, span := c.start(ctx, "blobs.GetStream", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(spanCtx, "Opening blob stream")

	obj, err := c.store.Get(spanCtx, id.Bucket(), id.ObjectKey())
	if err != nil {
		logger.ErrorContext(spanCtx, "Failed to open blob stream", "error", err)
		return nil, trace.RecordError(span, &OpError{Op: "stream", ID: id, Err: err}, "failed to open blob stream")
	}

	stream := newResponseStream(obj.Body, obj.Response)
	stream.closeOnDone(ctx)

	md := newMetadata(id, obj.Info)
	logger.InfoContext(spanCtx, "Blob stream opened", "size", md.Size, "content_type", md.ContentType)
	return &Content{Metadata: md, Stream: stream}, nil
}

func (c *BlobClient) ReadToStream(ctx context.Context, id blobid.ID, dst io.Writer) (*Metadata, error) {
	if id.IsZero() {
		return nil, invalidArgument("blob id is required")
	}
	if dst == nil {
		return nil, invalidArgument("destination is required")
	}

	ctx, span := c.start(ctx, "blobs.ReadToStream", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(ctx, "Copying blob to destination")

	obj, err := c.store.Get(ctx, id.Bucket(), id.ObjectKey())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read blob", "error", err)
		return nil, trace.RecordError(span, &OpError{Op: "read", ID: id, Err: err}, "failed to read blob")
	}

	stream := newResponseStream(obj.Body, obj.Response)
	defer stream.Close()

	n, err := io.Copy(dst, stream)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to copy blob", "copied", n, "error", err)
		return nil, trace.RecordError(span, &OpError{Op: "read", ID: id, Err: err}, "failed to copy blob")
	}

	md := newMetadata(id, obj.Info)
	logger.InfoContext(ctx, "Blob copied to destination", "size", n)
	return md, nil
}

func (c *BlobClient) GetMetadata(ctx context.Context, id blobid.ID) (*Metadata, error) {
	if id.IsZero() {
		return nil, invalidArgument("blob id is required")
	}

	ctx, span := c.start(ctx, "blobs.GetMetadata", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(ctx, "Getting blob metadata")

	info, err := c.store.Head(ctx, id.Bucket(), id.ObjectKey())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get blob metadata", "error", err)
		return nil, trace.RecordError(span, &OpError{Op: "stat", ID: id, Err: err}, "failed to get blob metadata")
	}

	md := newMetadata(id, *info)
	logger.InfoContext(ctx, "Blob metadata retrieved", "size", md.Size)
	return md, nil
}

func (c *BlobClient) Exists(ctx context.Context, id blobid.ID) (bool, error) {
	if id.IsZero() {
		return false, invalidArgument("blob id is required")
	}

	ctx, span := c.start(ctx, "blobs.Exists", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(ctx, "Checking blob existence")

	_, err := c.store.Head(ctx, id.Bucket(), id.ObjectKey())
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("exists", true))
		return true, nil
	case errors.Is(err, ErrNotFound):
		logger.DebugContext(ctx, "Blob does not exist")
		span.SetAttributes(attribute.Bool("exists", false))
		return false, nil
	default:
		logger.WarnContext(ctx, "Failed to check blob existence", "error", err)
		return false, trace.RecordError(span, &OpError{Op: "exists", ID: id, Err: err}, "failed to check blob existence")
	}
}

func (c *BlobClient) Delete(ctx context.Context, id blobid.ID) error {
	if id.IsZero() {
		return invalidArgument("blob id is required")
	}

	ctx, span := c.start(ctx, "blobs.Delete", id)
	defer span.End()

	logger := c.logger.With(idAttrs(id)...)
	logger.DebugContext(ctx, "Deleting blob")

	err := c.store.Delete(ctx, id.Bucket(), id.ObjectKey())
	switch {
	case err == nil:
		logger.InfoContext(ctx, "Blob deleted")
		return nil
	case errors.Is(err, ErrNotFound):
		logger.WarnContext(ctx, "Blob to delete does not exist")
		return nil
	default:
		logger.ErrorContext(ctx, "Failed to delete blob", "error", err)
		return trace.RecordError(span, &OpError{Op: "delete", ID: id, Err: err}, "failed to delete blob")
	}
}

func (c *BlobClient) start(ctx context.Context, name string, id blobid.ID) (context.Context, oteltrace.Span) {
	ctx, span := trace.Start(ctx, name)
	span.SetAttributes(
		attribute.String("blob_id", id.String()),
		attribute.String("bucket", id.Bucket()),
		attribute.String("object_key", id.ObjectKey()),
	)
	return ctx, span
}

func idAttrs(id blobid.ID) []any {
	return []any{"blob_id", id.String(), "bucket", id.Bucket(), "object_key", id.ObjectKey()}
}

// sizeOf returns the length of readers that know it, or -1.
func sizeOf(r io.Reader) int64 {
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len())
	case *os.File:
		fi, err := v.Stat()
		if err != nil || !fi.Mode().IsRegular() {
			return -1
		}
		offset, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return fi.Size() - offset
	}
	return -1
}
