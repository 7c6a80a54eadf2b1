package blobs

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// Content is an open blob returned by GetStream. It must be closed on every
// path, which releases the store response backing the stream.
type Content struct {
	Metadata *Metadata
	Stream   io.ReadCloser
}

func (c *Content) Read(p []byte) (int, error) {
	return c.Stream.Read(p)
}

// Close closes the stream. It is safe to call more than once.
func (c *Content) Close() error {
	if c == nil || c.Stream == nil {
		return nil
	}
	return c.Stream.Close()
}

// responseStream ties a body to the store response it was read from. Close
// releases the body first and the response second, exactly once.
type responseStream struct {
	body     io.ReadCloser
	response io.Closer

	closed atomic.Bool
	once   sync.Once
	err    error

	mu   sync.Mutex
	stop func() bool
}

func newResponseStream(body io.ReadCloser, response io.Closer) *responseStream {
	return &responseStream{body: body, response: response}
}

// closeOnDone closes the stream when ctx is done. The registration is
// dropped once the stream is closed.
func (s *responseStream) closeOnDone(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop = context.AfterFunc(ctx, func() {
		_ = s.Close()
	})
}

func (s *responseStream) Read(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.body.Read(p)
}

// WriteTo lets io.Copy use the body's own WriterTo when it has one.
func (s *responseStream) WriteTo(w io.Writer) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return io.Copy(w, s.body)
}

func (s *responseStream) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)

		s.mu.Lock()
		stop := s.stop
		s.mu.Unlock()
		if stop != nil {
			stop()
		}

		var result *multierror.Error
		if err := s.body.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close body: %w", err))
		}
		if s.response != nil {
			if err := s.response.Close(); err != nil {
				result = multierror.Append(result, fmt.Errorf("release response: %w", err))
			}
		}
		s.err = result.ErrorOrNil()
	})
	return s.err
}
