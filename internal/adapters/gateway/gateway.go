// Package gateway implements the outbound HTTP clients for the product,
// client and wallet collaborator services.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
)

// defaultTimeout bounds every collaborator call when no timeout is configured.
const defaultTimeout = 5 * time.Second

// httpDoer lets tests substitute the HTTP client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doJSON performs an HTTP exchange and decodes a JSON response into out.
// Transport failures and 5xx responses map to apperrors.ErrRemoteUnavailable,
// a 404 maps to apperrors.ErrNotFound and anything else unexpected wraps
// apperrors.ErrInternal, so callers can classify with errors.Is.
func doJSON(ctx context.Context, client httpDoer, service, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode %s request: %v", apperrors.ErrInternal, service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to build %s request: %v", apperrors.ErrInternal, service, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrRemoteUnavailable, service, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s returned 404", apperrors.ErrNotFound, service)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s returned status %d", apperrors.ErrRemoteUnavailable, service, resp.StatusCode)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("%w: %s returned status %d", apperrors.ErrInternal, service, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", apperrors.ErrInternal, service, err)
	}
	return nil
}
