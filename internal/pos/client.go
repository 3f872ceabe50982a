package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"pharmacy/m/domain"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Result is the envelope of mutation responses.
type Result struct {
	Message string `json:"message"`
	ID      any    `json:"id,omitempty"`
}

// Client talks JSON to the pharmacy API. Identical concurrent GETs and
// identical concurrent checkouts share a single round trip.
type Client struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group
}

// NewClient returns a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context, resource string, out any) error {
	return c.get(ctx, "/"+url.PathEscape(resource), out)
}

func (c *Client) Get(ctx context.Context, resource, id string, out any) error {
	return c.get(ctx, "/"+url.PathEscape(resource)+"/"+url.PathEscape(id), out)
}

func (c *Client) Create(ctx context.Context, resource string, body any) (Result, error) {
	var res Result
	err := c.send(ctx, http.MethodPost, "/"+url.PathEscape(resource), body, &res)
	return res, err
}

func (c *Client) Update(ctx context.Context, resource, id string, body any) (Result, error) {
	var res Result
	err := c.send(ctx, http.MethodPut, "/"+url.PathEscape(resource)+"/"+url.PathEscape(id), body, &res)
	return res, err
}

func (c *Client) Delete(ctx context.Context, resource, id string) (Result, error) {
	var res Result
	err := c.send(ctx, http.MethodDelete, "/"+url.PathEscape(resource)+"/"+url.PathEscape(id), nil, &res)
	return res, err
}

// Checkout submits a cart. A second identical request made while the first
// is in flight waits for and shares the first one's outcome.
func (c *Client) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	var res domain.CheckoutResponse
	payload, err := json.Marshal(req)
	if err != nil {
		return res, fmt.Errorf("encode checkout: %w", err)
	}
	data, err := c.shared(ctx, "checkout "+string(payload), http.MethodPost, "/sales/checkout", payload)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("decode checkout response: %w", err)
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.shared(ctx, "GET "+path, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// shared runs one round trip per key at a time. The round trip ignores the
// starting caller's cancellation, bounded by the client timeout, so one caller
// giving up does not fail the others waiting on it.
func (c *Client) shared(ctx context.Context, key, method, path string, payload []byte) ([]byte, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		return c.roundTrip(context.WithoutCancel(ctx), method, path, payload)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	data, err := c.roundTrip(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// roundTrip returns the body of a 2xx response or an *APIError.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else {
			apiErr.Message = fmt.Sprintf("API request failed with status: %d", resp.StatusCode)
		}
		return nil, apiErr
	}
	return data, nil
}
