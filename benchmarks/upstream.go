package benchmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUpstream matches every failure reported by the benchmark API itself.
var ErrUpstream = errors.New("benchmark api error")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s - %s", e.Status, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUpstream
}

// NetworkError means the API could not be reached or sent something that
// is not JSON.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Upstream issues GET requests against the benchmark API. It keeps no
// state between calls and never retries.
type Upstream struct {
	baseURL    string
	httpClient *http.Client
}

// NewUpstream uses http.DefaultClient when httpClient is nil.
func NewUpstream(baseURL string, httpClient *http.Client) *Upstream {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Upstream{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Get fetches path with rawQuery appended untouched and returns the JSON
// body. Failures are *APIError or *NetworkError.
func (u *Upstream) Get(ctx context.Context, path, rawQuery string) ([]byte, error) {
	target := u.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(body)
		if err != nil {
			text = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       text,
		}
	}
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if !json.Valid(body) {
		return nil, &NetworkError{Err: errors.New("invalid JSON in response")}
	}
	return body, nil
}
