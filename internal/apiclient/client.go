// Package apiclient talks to the content REST API that owns every post and
// category. It attaches the admin bearer token when one is supplied and
// maps failures onto the errs taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pencilpost/internal/errs"
	"pencilpost/internal/metrics"
	"pencilpost/internal/models"
)

const maxBodyBytes = 10 << 20

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client for the API rooted at {apiURL}/api.
func New(apiURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(apiURL, timeout, &http.Client{})
}

// NewWithHTTPClient lets tests and callers supply their own transport.
// Timeouts are applied per request through the context, not on httpClient.
func NewWithHTTPClient(apiURL string, timeout time.Duration, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(apiURL, "/") + "/api",
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Timeout returns the per-request deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// envelope is the common wrapper the API puts around payloads.
type envelope[T any] struct {
	Success     *bool  `json:"success"`
	Message     string `json:"message"`
	Data        T      `json:"data"`
	CurrentPage *int   `json:"currentPage"`
	TotalPages  *int   `json:"totalPages"`
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends req and decodes a 2xx JSON body into out (if out is non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	raw, _, err := c.send(ctx, req, "application/json")
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errs.Network(fmt.Errorf("decode %s %s: %w", req.method, req.path, err), false)
	}
	return nil
}

// send performs the round trip and returns the raw 2xx body.
func (c *Client) send(ctx context.Context, req request, accept string) (_ []byte, _ string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", accept)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	defer func() {
		metrics.RecordAPICall(req.path, req.method, errs.KindName(err), time.Since(start))
	}()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		timeout := isTimeout(err)
		log.Warn().Err(err).Str("method", req.method).Str("path", req.path).Bool("timeout", timeout).Msg("api request failed")
		return nil, "", errs.Network(err, timeout)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", errs.Network(fmt.Errorf("read response: %w", err), isTimeout(err))
	}

	log.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", decodeError(resp.StatusCode, raw)
	}
	return raw, resp.Header.Get("Content-Type"), nil
}

func decodeError(status int, raw []byte) error {
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	apiErr := errs.FromStatus(status, msg)
	apiErr.Fields = parseFieldErrors(eb.Errors)
	return apiErr
}

// parseFieldErrors accepts either {"field": "msg"} or
// [{"field"|"path": ..., "message"|"msg": ...}].
func parseFieldErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil && len(asMap) > 0 {
		return asMap
	}
	var asList []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &asList); err != nil || len(asList) == 0 {
		return nil
	}
	fields := make(map[string]string, len(asList))
	for _, e := range asList {
		name := e.Field
		if name == "" {
			name = e.Path
		}
		msg := e.Message
		if msg == "" {
			msg = e.Msg
		}
		if name != "" {
			fields[name] = msg
		}
	}
	return fields
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// pagedFrom checks that both pagination counters were present. A response
// without them is treated as malformed rather than defaulted to page 1.
func pagedFrom[T any](items []T, currentPage, totalPages *int, pageSize int) (models.PagedResult[T], error) {
	if currentPage == nil || totalPages == nil {
		return models.PagedResult[T]{}, errs.Validation("malformed pagination in API response", map[string]string{
			"pagination": "currentPage and totalPages are required",
		})
	}
	r := models.PagedResult[T]{Items: items, CurrentPage: *currentPage, TotalPages: *totalPages}
	if r.Items == nil {
		r.Items = []T{}
	}
	if err := r.Validate(pageSize); err != nil {
		return models.PagedResult[T]{}, errs.Validation("inconsistent pagination in API response", map[string]string{
			"pagination": err.Error(),
		})
	}
	return r, nil
}
