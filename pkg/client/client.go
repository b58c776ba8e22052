package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/metrics"
	"github.com/netpivot/devicesync/pkg/types"
)

// DefaultTimeout bounds each request round trip. Exceeding it is treated the
// same as a dropped connection: one reconnect, one retry.
const DefaultTimeout = 10 * time.Second

// Response is an appliance API response with its body fully read, so callers
// never have to manage the body stream themselves.
type Response struct {
	Status int
	Body   []byte
}

// Channel owns the HTTPS connection to one appliance. Appliance certificates
// are typically self-signed, so certificate validation is disabled. On a
// transport-level failure the channel tears the connection down, re-dials
// once, and retries the request once before surfacing a TransportError.
//
// A Channel is used strictly sequentially by the reconciler for its
// appliance and is never shared across appliances.
type Channel struct {
	host    string
	apiKey  string
	baseURL string
	timeout time.Duration

	transport *http.Transport
	client    *http.Client
	log       zerolog.Logger
}

// Option configures a Channel.
type Option func(*Channel)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Channel) { c.timeout = d }
}

// WithBaseURL overrides the derived https://<host> base URL. Used by tests to
// point the channel at a local server.
func WithBaseURL(url string) Option {
	return func(c *Channel) { c.baseURL = url }
}

// New creates a channel for one appliance target.
func New(target types.ApplianceTarget, opts ...Option) *Channel {
	c := &Channel{
		host:    target.Host,
		apiKey:  target.APIKey,
		baseURL: "https://" + target.Host,
		timeout: DefaultTimeout,
		log:     log.WithAppliance(target.Host),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.connect()
	return c
}

// Host returns the appliance hostname this channel talks to.
func (c *Channel) Host() string {
	return c.host
}

// connect builds a fresh transport and client.
func (c *Channel) connect() {
	c.log.Debug().Msg("opening HTTPS connection")
	c.transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		MaxIdleConns:    1,
	}
	c.client = &http.Client{Transport: c.transport}
}

// reconnect discards the current connection and dials a new one.
func (c *Channel) reconnect() {
	c.log.Warn().Msg("transport failure, reconnecting")
	c.transport.CloseIdleConnections()
	c.connect()
}

// Do sends one request to the appliance. A non-nil body is JSON-encoded. A
// 2xx response returns (Response, nil); any other status returns the response
// together with an *APIError. Connection-level failures are retried exactly
// once after a reconnect, then reported as *TransportError.
func (c *Channel) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.APIRequestDuration, method)

	resp, err := c.attempt(ctx, method, path, payload)
	if err != nil {
		if ctx.Err() != nil {
			metrics.APIRequestsTotal.WithLabelValues(method, "transport_error").Inc()
			return nil, &TransportError{Host: c.host, Err: err}
		}

		// One reconnect, one retry. A second failure is terminal for
		// this request but not for the channel: the next Do dials again.
		c.reconnect()
		metrics.APIRequestRetries.Inc()
		resp, err = c.attempt(ctx, method, path, payload)
		if err != nil {
			metrics.APIRequestsTotal.WithLabelValues(method, "transport_error").Inc()
			return nil, &TransportError{Host: c.host, Err: err}
		}
	}

	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.Status)).Inc()

	if resp.Status >= 400 {
		apiErr := &APIError{Status: resp.Status, Body: string(resp.Body)}
		c.log.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.Status).
			Str("body", apiErr.Body).
			Msg("appliance rejected request")
		return resp, apiErr
	}

	return resp, nil
}

// attempt performs a single request round trip.
func (c *Channel) attempt(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "ExtraHop apikey="+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("sending request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Int("status", resp.StatusCode).Msg("received response")
	return &Response{Status: resp.StatusCode, Body: data}, nil
}
