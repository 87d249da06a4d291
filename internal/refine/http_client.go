package refine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"noterefiner/internal/model"
)

const defaultHTTPTimeout = 60 * time.Second

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Request is the body of POST /api/refine.
type Request struct {
	Note string `json:"note"`
	Mode string `json:"mode"`
}

// Response is the reply of POST /api/refine: either Output or Error is set.
type Response struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HTTPClient calls a remote refinement endpoint.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient targets baseURL + "/api/refine". A non-positive timeout uses the default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/refine",
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ Refiner = (*HTTPClient)(nil)

// Refine posts {note, mode} and returns the output field.
func (c *HTTPClient) Refine(ctx context.Context, note string, mode model.Mode) (string, error) {
	body, err := json.Marshal(Request{Note: note, Mode: string(mode)})
	if err != nil {
		return "", fmt.Errorf("encode refine request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build refine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refine request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read refine response: %w", err)
	}

	var out Response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RemoteError{Status: resp.StatusCode, Message: out.Error}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode refine response: %w", decodeErr)
	}
	if out.Error != "" {
		return "", &RemoteError{Status: resp.StatusCode, Message: out.Error}
	}
	if out.Output == "" {
		return "", ErrEmptyOutput
	}
	return out.Output, nil
}
