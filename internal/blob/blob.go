// Package blob abstracts the external document storage as a capability
// interface so the restore and undo paths can be exercised with a no-op
// implementation in tests.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrNotFound = errors.New("blob not found")

type Store interface {
	// Probe checks that the blob behind the URL is reachable. A failed
	// probe is reported as a warning by callers, never as a hard error.
	Probe(ctx context.Context, url string) error

	// Delete removes the blob. Returns ErrNotFound when the blob is
	// already gone.
	Delete(ctx context.Context, url string) error
}

// HTTPStore talks to document URLs directly over HTTP.
type HTTPStore struct {
	client *http.Client
}

func NewHTTPStore(timeout time.Duration) *HTTPStore {
	return &HTTPStore{client: &http.Client{Timeout: timeout}}
}

func (s *HTTPStore) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("creating probe request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("probing %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("probing %s: %w", url, ErrNotFound)
	default:
		return fmt.Errorf("probing %s: unexpected status %d", url, resp.StatusCode)
	}
}

func (s *HTTPStore) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("creating delete request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("deleting %s: %w", url, ErrNotFound)
	default:
		return fmt.Errorf("deleting %s: unexpected status %d", url, resp.StatusCode)
	}
}

// Noop satisfies Store without touching the network.
type Noop struct{}

func (Noop) Probe(context.Context, string) error  { return nil }
func (Noop) Delete(context.Context, string) error { return nil }
