// Package inference is the HTTP client for the classification, prioritization
// and research-chat endpoints of the legal backend.
//
// Every call is a single POST: no retries, no caching, no deduplication.
// A call resolves to a fully decoded result or an *Error, never both.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/logging"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response is read for the detail field.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	// BaseURL is prepended to the endpoint path. Empty keeps paths relative.
	BaseURL string

	// Timeout bounds a whole call. Zero leaves the transport default in place.
	Timeout time.Duration

	// HTTPClient overrides the underlying client (tests, custom transports).
	HTTPClient *http.Client
}

// Client talks to the three inference endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client from options.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
	}
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Classify asks for the case category.
func (c *Client) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResult, error) {
	var wire classifyResponse
	if err := c.post(ctx, EndpointClassify, req, &wire); err != nil {
		return ClassifyResult{}, err
	}
	res, err := wire.result()
	if err != nil {
		return ClassifyResult{}, &Error{Endpoint: EndpointClassify, Status: http.StatusOK, Err: err}
	}
	return res, nil
}

// Prioritize asks for the case priority.
func (c *Client) Prioritize(ctx context.Context, req PrioritizeRequest) (PrioritizeResult, error) {
	var wire prioritizeResponse
	if err := c.post(ctx, EndpointPrioritize, req, &wire); err != nil {
		return PrioritizeResult{}, err
	}
	res, err := wire.result()
	if err != nil {
		return PrioritizeResult{}, &Error{Endpoint: EndpointPrioritize, Status: http.StatusOK, Err: err}
	}
	return res, nil
}

// Chat sends a question with its prior transcript and returns the answer and sources.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	if req.History == nil {
		req.History = []Turn{}
	}
	var wire chatResponse
	if err := c.post(ctx, EndpointChat, req, &wire); err != nil {
		return ChatResult{}, err
	}
	res, err := wire.result()
	if err != nil {
		return ChatResult{}, &Error{Endpoint: EndpointChat, Status: http.StatusOK, Err: err}
	}
	return res, nil
}

// post performs exactly one request and decodes a 2xx body into out.
func (c *Client) post(ctx context.Context, ep Endpoint, payload any, out any) error {
	requestID := uuid.NewString()
	log := logging.Get(logging.CategoryAPI).With("endpoint", ep.Name(), "request_id", requestID)
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Endpoint: ep, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+string(ep), bytes.NewReader(body))
	if err != nil {
		return &Error{Endpoint: ep, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	logging.APIDebug("POST %s (%d bytes) request_id=%s", httpReq.URL, len(body), requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("transport error after %s: %v", time.Since(start), err)
		return &Error{Endpoint: ep, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := parseDetail(raw)
		log.Warn("status %d after %s detail=%q", resp.StatusCode, time.Since(start), detail)
		return &Error{Endpoint: ep, Status: resp.StatusCode, Detail: detail}
	}

	if err := decodeStrict(resp.Body, out); err != nil {
		log.Warn("undecodable response after %s: %v", time.Since(start), err)
		return &Error{Endpoint: ep, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	logging.API("%s status %d in %s request_id=%s", ep.Name(), resp.StatusCode, time.Since(start), requestID)
	return nil
}

// decodeStrict decodes exactly one JSON value; anything but whitespace after it is an error.
func decodeStrict(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(out); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after response body")
	}
	return nil
}
