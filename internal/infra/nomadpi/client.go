package nomadpi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"nomadpi-assistant/internal/domain"
	"nomadpi-assistant/internal/infra/metrics"
)

const (
	DefaultOrigin  = "http://localhost:3000"
	DefaultTimeout = 10 * time.Second
)

// Client talks to the NomadPi core API. Requests are never retried: the
// caller decides what a failure means.
type Client struct {
	baseURL    string
	origin     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL, origin string, timeout time.Duration) *Client {
	if origin == "" {
		origin = DefaultOrigin
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		origin:     origin,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.IntegrationError{Path: path, Err: fmt.Errorf("marshaling request: %w", err)}
	}
	return c.doRequest(ctx, http.MethodPost, path, data)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (raw json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveBackendRequest(method, time.Since(start), err)
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimPrefix(path, "/"), bodyReader)
	if err != nil {
		return nil, &domain.IntegrationError{Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Origin", c.origin)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.IntegrationError{Path: path, Timeout: isTimeout(err), Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.IntegrationError{Path: path, Timeout: isTimeout(err), Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.IntegrationError{
			Path:   path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("nomadpi API error: %s", strings.TrimSpace(string(respBody))),
		}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(respBody), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
