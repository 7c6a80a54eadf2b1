package blobs_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, bucket, key string, body io.Reader, opts blobs.PutOptions) error {
	args := m.Called(ctx, bucket, key, body, opts)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, bucket, key string) (*blobs.ObjectReader, error) {
	args := m.Called(ctx, bucket, key)
	obj, _ := args.Get(0).(*blobs.ObjectReader)
	return obj, args.Error(1)
}

func (m *mockStore) Head(ctx context.Context, bucket, key string) (*blobs.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key)
	info, _ := args.Get(0).(*blobs.ObjectInfo)
	return info, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

// errAccessDenied stands in for a store's forbidden response.
var errAccessDenied = errors.New("AccessDenied: access denied")

// trackingBody records how often it was closed.
type trackingBody struct {
	io.Reader
	closes  atomic.Int32
	failure error
}

func (b *trackingBody) Close() error {
	b.closes.Add(1)
	return b.failure
}

// trackingResponse is a store response handle that counts releases.
type trackingResponse struct {
	releases atomic.Int32
	failure  error
}

func (r *trackingResponse) Close() error {
	r.releases.Add(1)
	return r.failure
}

func newTrackedObject(data string, info blobs.ObjectInfo) (*blobs.ObjectReader, *trackingBody, *trackingResponse) {
	body := &trackingBody{Reader: strings.NewReader(data)}
	resp := &trackingResponse{}
	return &blobs.ObjectReader{Info: info, Body: body, Response: resp}, body, resp
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
