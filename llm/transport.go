package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// httpDoer lets tests substitute the HTTP client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// postJSON sends a JSON POST within the given timeout and returns the
// response body and status. Transport-level failures and timeouts come
// back as errors; non-2xx statuses are returned to the caller, which
// converts them into the adapter's *types.ProviderError.
func postJSON(ctx context.Context, client httpDoer, url string, headers map[string]string, payload any, timeout time.Duration, debug bool) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if debug {
		slog.Debug("sending completion request", "url", url, "bytes", len(body))
	}
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if debug {
		slog.Debug("received completion response", "url", url, "status", resp.StatusCode, "bytes", len(raw), "duration", time.Since(start))
	}
	return resp.StatusCode, raw, nil
}

// isTimeout reports whether the transport error was a deadline hit.
func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded
}
