// Package questions provides the client for the external
// question-generation service and the indexing of its results.
package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/coldcall/internal/schemas"
	"github.com/jonathan/coldcall/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client is an abstraction over the question-generation service.
type Client interface {
	// Generate requests interview questions for the missing fields of a
	// candidate snapshot.
	Generate(ctx context.Context, req *types.QuestionRequest) (*types.QuestionResponse, error)
}

// TransportError indicates the service could not be reached or its
// response could not be read. Distinct from an application-level
// rejection.
type TransportError struct {
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("question service unreachable at %s: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// UpstreamError indicates the service answered with a non-success
// status or a malformed payload. Message carries the upstream error
// text verbatim when available.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("question service rejected request (status %d): %s", e.StatusCode, e.Message)
}

// Options configures the HTTP client.
type Options struct {
	Timeout time.Duration
}

// HTTPClient implements Client over the service's JSON HTTP endpoint.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPClient creates a client posting to the given endpoint URL.
func NewHTTPClient(endpoint string, opts *Options) *HTTPClient {
	timeout := DefaultTimeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	return &HTTPClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate posts the request and decodes the response. Failures map to
// the error taxonomy: *TransportError when the service is unreachable,
// *UpstreamError for non-success statuses and malformed payloads.
func (c *HTTPClient) Generate(ctx context.Context, req *types.QuestionRequest) (*types.QuestionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question request: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: c.endpoint, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: c.endpoint, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(respBody),
		}
	}

	if err := schemas.ValidateQuestionResponse(respBody); err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}

	var out types.QuestionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}
	return &out, nil
}

// upstreamMessage extracts the `error` string from a failure body,
// falling back to the raw body when it is not the documented shape.
func upstreamMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if len(body) == 0 {
		return "no error detail provided"
	}
	return string(body)
}
