package blobs_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/contenttype"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/storage/memory"
)

const testBucket = "test-bucket"

func newClient(t *testing.T, opts ...blobs.Option) (*blobs.BlobClient, *memory.Store) {
	t.Helper()
	store := memory.New()
	client, err := blobs.New(store, append([]blobs.Option{blobs.WithDefaultBucket(testBucket)}, opts...)...)
	require.NoError(t, err)
	return client, store
}

func TestNew(t *testing.T) {
	t.Run("requires store", func(t *testing.T) {
		_, err := blobs.New(nil)
		require.Error(t, err)
	})

	t.Run("rejects invalid default bucket", func(t *testing.T) {
		_, err := blobs.New(memory.New(), blobs.WithDefaultBucket("Bad_Bucket"))
		assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	})

	t.Run("default bucket is optional", func(t *testing.T) {
		client, err := blobs.New(memory.New(), blobs.WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.Empty(t, client.DefaultBucket())
	})
}

func TestAddFile(t *testing.T) {
	ctx := context.Background()

	t.Run("derives identifier and metadata", func(t *testing.T) {
		client, store := newClient(t)

		id, err := client.AddFile(ctx, "report.PDF", strings.NewReader("%PDF-1.7"),
			blobs.WithNamePrefix("/docs/2024/"),
			blobs.WithAttributes(map[string]string{"owner": "alice"}),
		)
		require.NoError(t, err)

		assert.Equal(t, testBucket, id.Bucket())
		assert.Equal(t, "docs/2024", id.NamePrefix())
		assert.Equal(t, "pdf", id.Extension())
		assert.Equal(t, 1, store.Len(testBucket))

		info, err := store.Head(ctx, id.Bucket(), id.ObjectKey())
		require.NoError(t, err)
		assert.Equal(t, contenttype.PDF, info.ContentType)
		assert.Equal(t, "report.PDF", info.Metadata[blobs.OriginalFileNameKey])
		assert.Equal(t, "alice", info.Metadata["owner"])
	})

	t.Run("explicit content type wins", func(t *testing.T) {
		client, _ := newClient(t)

		id, err := client.AddFile(ctx, "data.bin", strings.NewReader("{}"), blobs.WithContentType("application/json"))
		require.NoError(t, err)

		md, err := client.GetMetadata(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "application/json", md.ContentType)
	})

	t.Run("no extension", func(t *testing.T) {
		client, _ := newClient(t)

		id, err := client.AddFile(ctx, "README", strings.NewReader("hi"))
		require.NoError(t, err)
		assert.Empty(t, id.Extension())
		assert.Equal(t, id.Suffix(), id.ObjectKey())

		md, err := client.GetMetadata(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, contenttype.OctetStream, md.ContentType)
	})

	t.Run("extension override", func(t *testing.T) {
		client, _ := newClient(t)

		id, err := client.AddFile(ctx, "archive.tar.gz", strings.NewReader("x"), blobs.WithExtension("tgz"))
		require.NoError(t, err)
		assert.Equal(t, "tgz", id.Extension())
	})

	t.Run("last extension of compound names", func(t *testing.T) {
		client, _ := newClient(t)

		id, err := client.AddFile(ctx, "archive.tar.gz", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, "gz", id.Extension())
	})

	t.Run("file name attribute is authoritative", func(t *testing.T) {
		client, store := newClient(t)

		id, err := client.AddFile(ctx, "real.txt", strings.NewReader("x"),
			blobs.WithAttributes(map[string]string{"Original-FileName": "fake.txt"}))
		require.NoError(t, err)

		info, err := store.Head(ctx, id.Bucket(), id.ObjectKey())
		require.NoError(t, err)
		assert.Equal(t, map[string]string{blobs.OriginalFileNameKey: "real.txt"}, info.Metadata)
	})

	t.Run("explicit bucket", func(t *testing.T) {
		client, store := newClient(t)

		id, err := client.AddFileToBucket(ctx, "other-bucket", "a.txt", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, "other-bucket", id.Bucket())
		assert.Equal(t, 1, store.Len("other-bucket"))
		assert.Equal(t, 0, store.Len(testBucket))
	})
}

func TestAddFile_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	client, err := blobs.New(store, blobs.WithDefaultBucket(testBucket))
	require.NoError(t, err)

	tests := []struct {
		name     string
		bucket   string
		fileName string
		data     io.Reader
		opts     []blobs.AddOption
	}{
		{name: "blank bucket", bucket: "  ", fileName: "a.txt", data: strings.NewReader("x")},
		{name: "blank file name", bucket: testBucket, fileName: " ", data: strings.NewReader("x")},
		{name: "nil data", bucket: testBucket, fileName: "a.txt"},
		{name: "invalid bucket", bucket: "Invalid", fileName: "a.txt", data: strings.NewReader("x")},
		{name: "extension too long", bucket: testBucket, fileName: "a.verylongextension", data: strings.NewReader("x")},
		{name: "prefix with delimiter", bucket: testBucket, fileName: "a.txt", data: strings.NewReader("x"),
			opts: []blobs.AddOption{blobs.WithNamePrefix("a_b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := client.AddFileToBucket(ctx, tt.bucket, tt.fileName, tt.data, tt.opts...)
			assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
			assert.True(t, id.IsZero())
		})
	}

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddFile_DefaultBucketNotConfigured(t *testing.T) {
	client, err := blobs.New(memory.New())
	require.NoError(t, err)

	_, err = client.AddFile(context.Background(), "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, blobs.ErrDefaultBucketNotConfigured)
}

func TestAddFile_StoreFailure(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.MatchedBy(func(o blobs.PutOptions) bool {
		return o.ContentType == contenttype.TextPlain && o.Size == 5
	})).Return(errAccessDenied)

	client, err := blobs.New(store, blobs.WithDefaultBucket(testBucket))
	require.NoError(t, err)

	id, err := client.AddFile(context.Background(), "a.txt", strings.NewReader("hello"))
	require.Error(t, err)
	assert.True(t, id.IsZero())
	assert.ErrorIs(t, err, errAccessDenied)

	var opErr *blobs.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "add", opErr.Op)
	assert.Equal(t, testBucket, opErr.ID.Bucket())
	store.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	id, err := client.AddFile(ctx, "notes.txt", strings.NewReader("hello world"),
		blobs.WithAttributes(map[string]string{"owner": "alice"}))
	require.NoError(t, err)

	md, data, err := client.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "hello world", string(data))
	assert.Equal(t, id, md.ID)
	assert.Equal(t, int64(11), md.Size)
	assert.Equal(t, contenttype.TextPlain, md.ContentType)
	assert.Equal(t, "notes.txt", md.OriginalFileName)
	assert.Equal(t, map[string]string{"owner": "alice"}, md.Attributes)
	assert.NotEmpty(t, md.ETag)
	assert.WithinDuration(t, time.Now(), md.LastModified, time.Minute)
}

func TestGet_ReleasesResponse(t *testing.T) {
	id := blobid.MustParse("blb_test-bucket_abc.txt")
	obj, body, resp := newTrackedObject("payload", blobs.ObjectInfo{Size: 7})

	store := &mockStore{}
	store.On("Get", mock.Anything, "test-bucket", "abc.txt").Return(obj, nil)

	client, err := blobs.New(store)
	require.NoError(t, err)

	_, data, err := client.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, int32(1), body.closes.Load())
	assert.Equal(t, int32(1), resp.releases.Load())
}

func TestGet_UntrustedSize(t *testing.T) {
	id := blobid.MustParse("blb_test-bucket_huge.bin")
	obj, body, _ := newTrackedObject("x", blobs.ObjectInfo{Size: 1 << 62})

	store := &mockStore{}
	store.On("Get", mock.Anything, "test-bucket", "huge.bin").Return(obj, nil)

	client, err := blobs.New(store)
	require.NoError(t, err)

	md, data, err := client.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.Equal(t, int64(1<<62), md.Size)
	assert.Equal(t, int32(1), body.closes.Load())
}

func TestGet_NotFound(t *testing.T) {
	client, _ := newClient(t)
	id := blobid.MustParse("blb_test-bucket_missing.txt")

	_, _, err := client.Get(context.Background(), id)
	assert.ErrorIs(t, err, blobs.ErrNotFound)

	_, err = client.GetStream(context.Background(), id)
	assert.ErrorIs(t, err, blobs.ErrNotFound)

	_, err = client.GetMetadata(context.Background(), id)
	assert.ErrorIs(t, err, blobs.ErrNotFound)

	_, err = client.ReadToStream(context.Background(), id, io.Discard)
	assert.ErrorIs(t, err, blobs.ErrNotFound)
}

func TestZeroID(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	var id blobid.ID

	_, _, err := client.Get(ctx, id)
	assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	_, err = client.GetStream(ctx, id)
	assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	_, err = client.ReadToStream(ctx, id, io.Discard)
	assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	_, err = client.GetMetadata(ctx, id)
	assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	_, err = client.Exists(ctx, id)
	assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	assert.ErrorIs(t, client.Delete(ctx, id), blobs.ErrInvalidArgument)
}

func TestGetStream(t *testing.T) {
	ctx := context.Background()

	t.Run("reads and closes", func(t *testing.T) {
		id := blobid.MustParse("blb_test-bucket_folder/abc.bin")
		obj, body, resp := newTrackedObject("streamed bytes", blobs.ObjectInfo{
			Size:        14,
			ContentType: contenttype.OctetStream,
			Metadata:    map[string]string{"ORIGINAL-FILENAME": "abc.bin"},
		})

		store := &mockStore{}
		store.On("Get", mock.Anything, "test-bucket", "folder/abc.bin").Return(obj, nil)
		client, err := blobs.New(store)
		require.NoError(t, err)

		content, err := client.GetStream(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, "abc.bin", content.Metadata.OriginalFileName)
		assert.Nil(t, content.Metadata.Attributes)

		got, err := io.ReadAll(content)
		require.NoError(t, err)
		assert.Equal(t, "streamed bytes", string(got))
		assert.Equal(t, int32(0), resp.releases.Load())

		require.NoError(t, content.Close())
		require.NoError(t, content.Close())
		assert.Equal(t, int32(1), body.closes.Load())
		assert.Equal(t, int32(1), resp.releases.Load())

		_, err = content.Read(make([]byte, 1))
		assert.ErrorIs(t, err, blobs.ErrClosed)
	})

	t.Run("cancellation releases response", func(t *testing.T) {
		id := blobid.MustParse("blb_test-bucket_abc.bin")
		obj, body, resp := newTrackedObject("unread", blobs.ObjectInfo{Size: 6})

		store := &mockStore{}
		store.On("Get", mock.Anything, "test-bucket", "abc.bin").Return(obj, nil)
		client, err := blobs.New(store)
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		content, err := client.GetStream(cctx, id)
		require.NoError(t, err)

		cancel()
		assert.Eventually(t, func() bool {
			return resp.releases.Load() == 1 && body.closes.Load() == 1
		}, time.Second, 5*time.Millisecond)

		require.NoError(t, content.Close())
		assert.Equal(t, int32(1), resp.releases.Load())
	})

	t.Run("close errors are combined", func(t *testing.T) {
		id := blobid.MustParse("blb_test-bucket_abc.bin")
		obj, body, resp := newTrackedObject("x", blobs.ObjectInfo{Size: 1})
		body.failure = errors.New("body broken")
		resp.failure = errors.New("connection reset")

		store := &mockStore{}
		store.On("Get", mock.Anything, "test-bucket", "abc.bin").Return(obj, nil)
		client, err := blobs.New(store)
		require.NoError(t, err)

		content, err := client.GetStream(ctx, id)
		require.NoError(t, err)

		err = content.Close()
		require.Error(t, err)
		assert.ErrorIs(t, err, body.failure)
		assert.ErrorIs(t, err, resp.failure)
		assert.Equal(t, int32(1), resp.releases.Load())
	})

	t.Run("through memory store", func(t *testing.T) {
		client, _ := newClient(t)
		id, err := client.AddFile(ctx, "a.txt", strings.NewReader("abc"))
		require.NoError(t, err)

		content, err := client.GetStream(ctx, id)
		require.NoError(t, err)
		defer content.Close()

		var buf bytes.Buffer
		_, err = io.Copy(&buf, content.Stream)
		require.NoError(t, err)
		assert.Equal(t, "abc", buf.String())
	})
}

func TestReadToStream(t *testing.T) {
	ctx := context.Background()

	t.Run("copies into destination", func(t *testing.T) {
		client, _ := newClient(t)
		id, err := client.AddFile(ctx, "big.csv", strings.NewReader("a,b\n1,2\n"))
		require.NoError(t, err)

		var dst bytes.Buffer
		md, err := client.ReadToStream(ctx, id, &dst)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", dst.String())
		assert.Equal(t, contenttype.TextCSV, md.ContentType)
		assert.Equal(t, "big.csv", md.OriginalFileName)
	})

	t.Run("nil destination", func(t *testing.T) {
		client, _ := newClient(t)
		_, err := client.ReadToStream(ctx, blobid.MustParse("blb_test-bucket_a"), nil)
		assert.ErrorIs(t, err, blobs.ErrInvalidArgument)
	})

	t.Run("write failure releases response", func(t *testing.T) {
		id := blobid.MustParse("blb_test-bucket_abc.bin")
		obj, body, resp := newTrackedObject("data", blobs.ObjectInfo{Size: 4})

		store := &mockStore{}
		store.On("Get", mock.Anything, "test-bucket", "abc.bin").Return(obj, nil)
		client, err := blobs.New(store)
		require.NoError(t, err)

		_, err = client.ReadToStream(ctx, id, failingWriter{})
		require.Error(t, err)

		var opErr *blobs.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "read", opErr.Op)
		assert.Equal(t, int32(1), body.closes.Load())
		assert.Equal(t, int32(1), resp.releases.Load())
	})
}

func TestGetMetadata(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	id, err := client.AddFile(ctx, "photo.JPG", strings.NewReader("jpeg"), blobs.WithNamePrefix("users/photos"))
	require.NoError(t, err)

	md, err := client.GetMetadata(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, md.ID)
	assert.Equal(t, int64(4), md.Size)
	assert.Equal(t, contenttype.ImageJPEG, md.ContentType)
	assert.Equal(t, "photo.JPG", md.OriginalFileName)
	assert.Nil(t, md.Attributes)
}

func TestExists(t *testing.T) {
	ctx := context.Background()

	t.Run("present and absent", func(t *testing.T) {
		client, _ := newClient(t)
		id, err := client.AddFile(ctx, "a.txt", strings.NewReader("x"))
		require.NoError(t, err)

		ok, err := client.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = client.Exists(ctx, blobid.MustParse("blb_test-bucket_nothing-here"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("access denied is an error", func(t *testing.T) {
		store := &mockStore{}
		store.On("Head", mock.Anything, "test-bucket", "secret").Return(nil, errAccessDenied)
		client, err := blobs.New(store)
		require.NoError(t, err)

		ok, err := client.Exists(ctx, blobid.MustParse("blb_test-bucket_secret"))
		assert.False(t, ok)
		assert.ErrorIs(t, err, errAccessDenied)
		assert.NotErrorIs(t, err, blobs.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		client, store := newClient(t)
		id, err := client.AddFile(ctx, "a.txt", strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, client.Delete(ctx, id))
		require.NoError(t, client.Delete(ctx, id))
		assert.Equal(t, 0, store.Len(testBucket))

		ok, err := client.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := &mockStore{}
		store.On("Delete", mock.Anything, "test-bucket", "locked").Return(errAccessDenied)
		client, err := blobs.New(store)
		require.NoError(t, err)

		err = client.Delete(ctx, blobid.MustParse("blb_test-bucket_locked"))
		assert.ErrorIs(t, err, errAccessDenied)

		var opErr *blobs.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "delete", opErr.Op)
	})
}

func TestConcurrentUploads(t *testing.T) {
	ctx := context.Background()
	client, store := newClient(t)

	const n = 50
	var wg sync.WaitGroup
	ids := make([]blobid.ID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := client.AddFile(ctx, "f.txt", strings.NewReader("x"))
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, store.Len(testBucket))
	seen := make(map[blobid.ID]struct{}, n)
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, _ := newClient(t, blobs.WithLogger(logger))

	id, err := client.AddFile(context.Background(), "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Uploading blob")
	assert.Contains(t, out, "Blob uploaded")
	assert.Contains(t, out, "blob_id="+id.String())
	assert.Contains(t, out, "object_key="+id.ObjectKey())
}
