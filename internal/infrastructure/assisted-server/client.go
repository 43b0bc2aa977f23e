package assistedserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/circuitbreaker"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/thanhpk/randstr"
	"go.uber.org/ratelimit"
)

const (
	defaultTimeout = 15 * time.Second
	requestIDLen   = 16
)

// TokenSource provides the bearer token of the current session.
type TokenSource interface {
	AccessToken() string
}

type Config struct {
	URL string
	// Timeout bounds every single request.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests, unlimited if <= 0.
	RequestsPerSecond int
	Session           TokenSource
}

func (c Config) validate() error {
	if c.URL == "" {
		return ErrMissingURL
	}
	if c.Session == nil {
		return ErrMissingTokenSource
	}
	return nil
}

// Client is the typed REST client of the assisted server.
type Client struct {
	baseURL string
	session TokenSource
	http    *httpClient
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		session: cfg.Session,
		http:    newHTTPClient(timeout),
		limiter: limiter,
		cb:      circuitbreaker.NewCircuitBreaker("assisted server"),
	}, nil
}

var _ ports.AssistedServer = (*Client)(nil)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type rawResponse struct {
	status int
	body   []byte
}

// do sends the request and decodes the data of the response envelope into
// out, if not nil. Transport failures and gateway errors are returned as
// retry.IOError, anything else declared by the server as *ServerError.
// Only the former count as failures for the circuit breaker.
func (c *Client) do(
	ctx context.Context, method, path string, reqBody, out interface{},
) error {
	var body []byte
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = buf
	}

	c.limiter.Take()

	res, err := c.cb.Execute(func() (interface{}, error) {
		req, err := c.newRequest(ctx, method, path, body)
		if err != nil {
			return nil, retry.Permanent(err)
		}

		status, respBody, err := c.http.doRequest(req)
		if err != nil {
			return nil, retry.MarkIO(err)
		}
		if isTransientStatus(status) {
			return nil, retry.MarkIO(&ServerError{HTTPStatus: status})
		}
		return &rawResponse{status, respBody}, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		return err
	}

	resp := res.(*rawResponse)
	return decodeResponse(resp, out)
}

func (c *Client) newRequest(
	ctx context.Context, method, path string, body []byte,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := randstr.Hex(requestIDLen)
	req.Header.Set("X-Request-Id", requestID)
	if key := ports.IdempotencyKey(ctx); key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	log.Debugf("assisted server: %s %s (request %s)", method, path, requestID)
	return req, nil
}

func decodeResponse(resp *rawResponse, out interface{}) error {
	var env envelope
	if len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, &env); err != nil {
			if resp.status >= http.StatusBadRequest {
				return &ServerError{
					HTTPStatus: resp.status,
					Message:    strings.TrimSpace(string(resp.body)),
				}
			}
			return fmt.Errorf("failed to decode assisted server response: %w", err)
		}
	}

	if env.Error != nil || resp.status >= http.StatusBadRequest {
		serverErr := &ServerError{HTTPStatus: resp.status}
		if env.Error != nil {
			serverErr.Code = env.Error.Code
			serverErr.Message = env.Error.Message
		}
		return serverErr
	}

	if out == nil {
		return nil
	}
	if len(env.Data) <= 0 || string(env.Data) == "null" {
		return ErrEmptyResponse
	}
	return json.Unmarshal(env.Data, out)
}

// scopePath returns the path prefix of wallet-scoped resources, nested under
// the group for group wallets.
func scopePath(groupID, walletID string) string {
	if groupID != "" {
		return fmt.Sprintf("/groups/%s/wallets/%s", groupID, walletID)
	}
	return fmt.Sprintf("/wallets/%s", walletID)
}
