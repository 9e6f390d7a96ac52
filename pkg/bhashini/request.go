package bhashini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// Do posts a pipeline document and decodes the answer. It is the one
// request/response path shared by every service.
func (c *Client) Do(ctx context.Context, req *PipelineRequest) (*PipelineResponse, error) {
	var resp PipelineResponse
	if err := c.postJSON(ctx, c.config.pipelineURL, req, &resp, authFull); err != nil {
		return nil, err
	}
	return &resp, nil
}

// authMode selects which credentials a request carries.
type authMode int

const (
	authNone authMode = iota
	// Authorization header only.
	authToken
	// Every pipeline credential header.
	authFull
)

// postJSON sends body as JSON to url and decodes the 2xx answer into result.
func (c *Client) postJSON(ctx context.Context, url string, body, result any, auth authMode) error {
	data, err := json.Marshal(body)
	if err != nil {
		return wrapError(err, "marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return wrapError(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	switch auth {
	case authFull:
		c.setAuthHeaders(req)
	case authToken:
		if c.config.authToken != "" {
			req.Header.Set("Authorization", c.config.authToken)
		}
	}

	resp, err := c.config.httpClient.Do(req)
	if err != nil {
		return wrapError(err, "send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return wrapError(err, "unmarshal response")
		}
	}
	return nil
}
