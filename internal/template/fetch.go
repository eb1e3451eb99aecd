package template

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kjourdan1/meshctl/internal/azure"
)

// maxDocumentSize bounds downloads; ARM itself rejects templates over 4 MiB.
const maxDocumentSize = 4 << 20

// StatusError is a non-2xx answer from a template host.
type StatusError struct {
	URI        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: %d %s", e.URI, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetch downloads the document at uri. Transport errors, 429 and 5xx answers
// are retried; other non-2xx answers fail immediately.
func (l *Loader) Fetch(ctx context.Context, uri string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	return azure.Retry(ctx, l.Retry, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, azure.Permanent(fmt.Errorf("invalid template URI %q: %w", uri, err))
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &StatusError{URI: uri, StatusCode: resp.StatusCode}
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, azure.Permanent(&StatusError{URI: uri, StatusCode: resp.StatusCode})
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxDocumentSize {
			return nil, azure.Permanent(fmt.Errorf("template at %s exceeds %d bytes", uri, maxDocumentSize))
		}
		return data, nil
	})
}
