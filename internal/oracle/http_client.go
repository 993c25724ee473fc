package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPClient struct {
	inner *http.Client
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{inner: &http.Client{Timeout: timeout}}
}

// StatusError is a non-2xx response. Code is the "error" field of a JSON
// error body, when there is one.
type StatusError struct {
	Status int
	Code   string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Code)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// PostJSON sends body and decodes a 2xx JSON response into out.
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, headers map[string]string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, headers, out)
}

// GetJSON fetches endpoint and decodes a 2xx JSON response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, endpoint string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, headers, out)
}

func (c *HTTPClient) do(req *http.Request, headers map[string]string, out any) error {
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	bodyRaw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{Status: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(bodyRaw, &body) == nil {
			serr.Code = body.Error
		}
		return serr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(bodyRaw, out)
}
