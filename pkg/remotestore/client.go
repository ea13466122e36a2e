package remotestore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"dhcp-admin-be/pkg/schema"
)

// Client wraps the upstream REST backend holding the record
// collections. It owns no local state: nothing is mutated until a
// response resolves, and no call is retried automatically.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches the raw collection body for an endpoint. The body is
// verified to be valid JSON; structural interpretation is the
// normalizer's job.
func (c *Client) List(ctx context.Context, endpoint string) ([]byte, error) {
	return c.getJSON(ctx, endpoint, endpoint)
}

// Fetch retrieves an arbitrary upstream path (nav manifest, banner).
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	return c.getJSON(ctx, path, path)
}

// Create POSTs a new record and returns the server's canonicalized copy.
func (c *Client) Create(ctx context.Context, endpoint string, fields map[string]string) (schema.Record, error) {
	return c.writeRecord(ctx, http.MethodPost, c.baseURL+"/"+endpoint, endpoint, fields)
}

// Update PUTs the record's fields and returns the server's copy.
func (c *Client) Update(ctx context.Context, endpoint, id string, fields map[string]string) (schema.Record, error) {
	return c.writeRecord(ctx, http.MethodPut, c.baseURL+"/"+endpoint+"/"+id, endpoint, fields)
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, endpoint, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/"+endpoint+"/"+id, nil)
	if err != nil {
		return &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Failure{Kind: FailureStatus, StatusCode: res.StatusCode, Endpoint: endpoint}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &Failure{Kind: FailureStatus, StatusCode: res.StatusCode, Endpoint: endpoint}
	}
	if !json.Valid(body) {
		return nil, &Failure{Kind: FailureParse, Endpoint: endpoint}
	}
	return body, nil
}

func (c *Client) writeRecord(ctx context.Context, method, url, endpoint string, fields map[string]string) (schema.Record, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, &Failure{Kind: FailureParse, Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Endpoint: endpoint, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &Failure{Kind: FailureStatus, StatusCode: res.StatusCode, Endpoint: endpoint}
	}

	rec, _, err := schema.NormalizeRecord(body)
	if err != nil {
		return nil, &Failure{Kind: FailureParse, Endpoint: endpoint, Err: err}
	}
	return rec, nil
}
