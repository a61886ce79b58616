package posterctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/posterboard/internal/domain/model"
)

// httpClient wraps http.Client with a timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

// post sends body as JSON to url.
func (c *httpClient) post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	return resp, nil
}

type layoutRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// remoteLayout asks the service at baseURL to lay out text.
func remoteLayout(ctx context.Context, cfg *Config, text string) (model.Layout, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + "/layout"
	resp, err := newHTTPClient(cfg.Timeout).post(ctx, url, layoutRequest{Text: text})
	if err != nil {
		return model.Layout{}, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Layout{}, fmt.Errorf("%w: read response: %w", ErrRemote, err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return model.Layout{}, fmt.Errorf("%w: %d %s: %s", ErrRemote, resp.StatusCode, e.Code, e.Message)
		}
		return model.Layout{}, fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
	}

	var layout model.Layout
	if err := json.Unmarshal(body, &layout); err != nil {
		return model.Layout{}, fmt.Errorf("%w: decode layout: %w", ErrRemote, err)
	}
	return layout, nil
}
