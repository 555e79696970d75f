// Package client is a thin HTTP client for the inference surface.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"tabular-backend/pkg/api"
)

type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

// Ping reports whether the serving container has loaded its artifact.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/ping")
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ping returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Invoke posts a raw payload and returns the response body verbatim along
// with its content type.
func (c *Client) Invoke(ctx context.Context, payload []byte, contentType, accept string) ([]byte, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("Accept", accept).
		SetBody(payload).
		Post("/invocations")
	if err != nil {
		return nil, "", fmt.Errorf("invocation failed: %w", err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("invocation returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// InvokeCSV posts a CSV payload and decodes the structured JSON response.
func (c *Client) InvokeCSV(ctx context.Context, payload []byte) (*api.InstancesResponse, error) {
	body, _, err := c.Invoke(ctx, payload, api.ContentTypeCSV, api.ContentTypeJSON)
	if err != nil {
		return nil, err
	}

	var out api.InstancesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("invalid instances response: %w", err)
	}
	return &out, nil
}

// ListRuns fetches the recorded training runs.
func (c *Client) ListRuns(ctx context.Context, kind string) (*api.ListRunsResponse, error) {
	req := c.http.R().SetContext(ctx)
	if kind != "" {
		req.SetQueryParam("kind", kind)
	}

	resp, err := req.Get("/runs")
	if err != nil {
		return nil, fmt.Errorf("list runs failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list runs returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var out api.ListRunsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("invalid list runs response: %w", err)
	}
	return &out, nil
}
