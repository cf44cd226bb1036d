// Package creditapi provides a GraphQL client for the third-party
// credit-data API. Token acquisition and refresh live outside this
// package: callers inject a TokenProvider.
package creditapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/credit-insights/internal/model"
)

const defaultTimeout = 30 * time.Second

// TokenProvider supplies a bearer token for each request. Implementations
// handle OAuth acquisition and refresh.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider backed by a fixed token, for configs
// that supply a long-lived credential directly.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Client defines the credit-data API operations used by the engine and
// the chat surface.
type Client interface {
	CustomerRecords(ctx context.Context, customerID string) ([]model.RawRecord, error)
	Transactions(ctx context.Context, customerID string, limit int) ([]model.Transaction, error)
	PhoneHistory(ctx context.Context, customerID string) ([]model.PhoneEvent, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second request rate limit. A burst equal to
// the integer portion of rps is allowed.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	baseURL string
	tokens  TokenProvider
	limiter *rate.Limiter
	http    *http.Client
}

// NewClient creates a credit-data API client.
func NewClient(baseURL string, tokens TokenProvider, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// graphQLRequest is the wire form of one GraphQL operation.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// execute posts one GraphQL operation and decodes its data payload into
// out. GraphQL-level errors are returned as a single wrapped error.
func (c *httpClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "creditapi: rate limit")
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return eris.Wrap(err, "creditapi: acquire token")
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return eris.Wrap(err, "creditapi: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "creditapi: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "creditapi: execute request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "creditapi: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.New(fmt.Sprintf("creditapi: unexpected status %d: %s", resp.StatusCode, truncate(respBody, 200)))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return eris.Wrap(err, "creditapi: decode response")
	}
	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		return eris.New("creditapi: graphql errors: " + strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return eris.Wrap(err, "creditapi: decode data")
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
