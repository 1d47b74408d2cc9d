package utils

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const (
	DefaultTimeout = 20 * time.Second

	// maxBody caps how much of any response is read into memory.
	maxBody = 8 << 20
)

// NewClient returns an http.Client with a request timeout. Timeouts surface
// from API calls as *TransportError.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        64,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// API is a small GET-only client that sends a fixed header set on every request.
type API struct {
	client  *http.Client
	baseURL string
	header  http.Header
}

type Option func(*API)

func WithClient(c *http.Client) Option {
	return func(a *API) {
		if c != nil {
			a.client = c
		}
	}
}

func WithHeader(key, value string) Option {
	return func(a *API) {
		a.header.Set(key, value)
	}
}

func NewAPI(baseURL string, opts ...Option) *API {
	a := &API{
		client:  http.DefaultClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		header:  make(http.Header),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) BaseURL() string {
	return a.baseURL
}

// Get requests baseURL+path and decodes the JSON body into v. Network and
// status failures return *TransportError; a body that is not valid JSON
// returns a plain wrapped error.
func (a *API) Get(path string, params url.Values, v any) error {
	if params != nil {
		path += "?" + params.Encode()
	}
	body, err := a.do(fmt.Sprintf("%s%s", a.baseURL, path), http.Header{"Accept": {"application/json"}})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetText fetches an absolute URL and returns the body as text. Headers in
// extra override the client's fixed set.
func (a *API) GetText(rawURL string, extra http.Header) (string, error) {
	body, err := a.do(rawURL, extra)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (a *API) do(rawURL string, extra http.Header) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "request", URL: rawURL, Err: err}
	}
	for k, vs := range a.header {
		req.Header[k] = vs
	}
	for k, vs := range extra {
		req.Header[k] = vs
	}
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "get", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &TransportError{Op: "get", URL: rawURL, StatusCode: resp.StatusCode}
	}

	r, err := decodeBody(resp)
	if err != nil {
		return nil, &TransportError{Op: "read", URL: rawURL, Err: err}
	}
	body, err := io.ReadAll(io.LimitReader(r, maxBody))
	if err != nil {
		return nil, &TransportError{Op: "read", URL: rawURL, Err: err}
	}
	return body, nil
}

func decodeBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	default:
		return resp.Body, nil
	}
}
