package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/session"
	"github.com/mapsocial/mapsocial-go/util"
)

// Client handles communication with the map-social API. It is the single
// chokepoint for remote calls: it attaches the bearer token when one is
// present, serializes bodies, and turns non-success responses into
// *RequestError.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client

	sessions *session.Store
	source   string
}

// New creates a client against baseURL, reading auth state from store.
// baseURL must be an absolute URL with a scheme and host.
func New(baseURL string, store *session.Store, timeout time.Duration) (*Client, error) {
	if !util.IsURL(baseURL) {
		return nil, errors.Errorf("base URL %q: want an absolute URL with scheme and host", baseURL)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: u,
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		sessions: store,
		source:   uuid.NewString(),
	}, nil
}

// SessionStore exposes the backing identity store.
func (c *Client) SessionStore() *session.Store {
	return c.sessions
}

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		u.RawQuery = v.Encode()
	}
	return u.String(), nil
}

// newRequest builds a request with tracing headers and, when the store
// holds a token, the Authorization header. The token is read fresh on
// every call; a sign-out between calls simply drops the header.
func (c *Client) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("X-Request-ID", cuid.New())
	req.Header.Set("X-Request-Source", c.source)
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &RequestError{Status: resp.StatusCode, Detail: string(bodyBytes)}
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}

// getJSON issues a GET for endpoint with optional query parameters.
func (c *Client) getJSON(ctx context.Context, endpoint string, queryParams, v interface{}) error {
	reqURL, err := c.buildURL(endpoint, queryParams)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

// postJSON issues a POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, endpoint string, body, v interface{}) error {
	reqURL, err := c.buildURL(endpoint, nil)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encode request body")
	}
	req, err := c.newRequest(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, v)
}

// requireAuth guards mutations: no token, or a token past its expiry, fails
// before any network traffic.
func (c *Client) requireAuth() error {
	if !c.sessions.TokenValid(time.Now()) {
		return ErrAuthenticationRequired
	}
	return nil
}

// Health checks the service /healthz endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.getJSON(ctx, "/healthz", nil, &out); err != nil {
		return errors.Wrap(err, "health check")
	}
	if !out.OK {
		return errors.New("service reported not ok")
	}
	return nil
}
