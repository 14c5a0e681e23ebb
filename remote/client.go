package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/epsilon-records/audiokit/config"
	"github.com/epsilon-records/audiokit/errors"
	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/version"
)

// Config configures the remote client.
type Config struct {
	// BaseURL is the service endpoint, e.g. "https://api.epsilon-records.dev".
	BaseURL string
	// Token is the opaque auth token. Empty disables the client.
	Token string
	// Timeout bounds a single call end to end.
	Timeout time.Duration
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// Part is one upstream artifact submitted alongside the primary payload.
type Part struct {
	// Name identifies the artifact, e.g. a stem name.
	Name string `json:"name,omitempty"`
	// Data is the artifact content. Encoded as base64 on the wire.
	Data []byte `json:"data"`
}

// Request is one logical submission to the remote service.
type Request struct {
	// Operation is the remote operation name, e.g. "denoise".
	Operation string `json:"operation"`
	// Params is the node's validated parameter mapping.
	Params map[string]any `json:"params,omitempty"`
	// Payload is the primary input audio. Encoded as base64 on the wire.
	Payload []byte `json:"payload,omitempty"`
	// Parts carries every upstream artifact, in connection order, for
	// operations that consume more than one input. Empty for single-input
	// operations; when set, Parts[0] repeats Payload.
	Parts []Part `json:"parts,omitempty"`
}

// Response is a successful remote result.
type Response struct {
	// Payload is the processed output.
	Payload []byte `json:"payload"`
	// Meta carries operation-specific result fields (transcript text,
	// stem names, detected language).
	Meta map[string]any `json:"meta,omitempty"`
}

// serviceError is the wire shape of a remote-reported failure.
type serviceError struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the remote processing service.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a remote client. A nil log discards request logging.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: base URL is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.WithComponent("remote"),
	}, nil
}

// NewFromEnv creates a client with the token taken from AUDIOKIT_API_KEY.
// Returns (nil, false) when the token is absent: remote execution is then
// disabled and must be treated as unavailable, never as something to wait on.
func NewFromEnv(cfg config.RemoteConfig, log *logger.Logger) (*Client, bool) {
	tok, ok := config.Token()
	if !ok || cfg.BaseURL == "" {
		return nil, false
	}
	c, err := New(Config{BaseURL: cfg.BaseURL, Token: tok, Timeout: cfg.Timeout}, log)
	if err != nil {
		return nil, false
	}
	return c, true
}

// Enabled reports whether the client holds an auth token.
func (c *Client) Enabled() bool {
	return c.cfg.Token != ""
}

// Submit performs one remote call. The client never retries; the
// dispatcher owns fallback policy.
func (c *Client) Submit(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.RemoteTransport("encoding request", err)
	}

	url := c.cfg.BaseURL + "/v1/process/" + req.Operation
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.RemoteTransport("building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "audiokit/"+version.Version)
	httpReq.Header.Set("X-API-Key", c.cfg.Token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			return nil, errors.Timeout(req.Operation, ctx.Err())
		case context.Canceled:
			// Cancellation is not a timeout; callers must not fall back on it.
			return nil, ctx.Err()
		}
		return nil, errors.RemoteTransport(fmt.Sprintf("calling %s", req.Operation), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.RemoteTransport("reading response", err)
	}

	c.log.Debug("remote call finished", logger.Fields(
		logger.FieldOperation, req.Operation,
		"status", resp.StatusCode,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))

	return classify(req.Operation, resp.StatusCode, data)
}

// classify maps an HTTP response onto the error taxonomy. Auth failures are
// transport class (the call never reached processing); everything else
// non-2xx is a service-reported failure.
func classify(operation string, status int, body []byte) (*Response, error) {
	switch {
	case status >= 200 && status < 300:
		var out Response
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, errors.RemoteService(operation, "malformed service response").WithCause(err)
		}
		return &out, nil

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, errors.RemoteTransport(
			fmt.Sprintf("authentication rejected (HTTP %d)", status), nil,
		).WithDetail("operation", operation)

	default:
		var svc serviceError
		msg := fmt.Sprintf("remote processing failed (HTTP %d)", status)
		if err := json.Unmarshal(body, &svc); err == nil && svc.Error.Message != "" {
			msg = svc.Error.Message
		}
		return nil, errors.RemoteService(operation, msg).WithDetail("http_status", status)
	}
}
