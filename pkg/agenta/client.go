// Package agenta provides a read-only client for the Agenta prompt
// management API: it fetches the prompt configuration deployed to an
// environment so prompt text can change without a release.
package agenta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://cloud.agenta.ai"
	defaultTimeout = 15 * time.Second
)

// PromptTemplate is the deployed prompt configuration for one
// application/environment pair.
type PromptTemplate struct {
	SystemPrompt string  `json:"system_prompt"`
	UserPrompt   string  `json:"user_prompt,omitempty"`
	Model        string  `json:"model,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

// Client fetches deployed prompt configurations.
type Client interface {
	FetchDeployment(ctx context.Context, appSlug, environment string) (*PromptTemplate, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
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

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Agenta API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchDeployment retrieves the prompt configuration deployed to the
// given environment of an application.
func (c *httpClient) FetchDeployment(ctx context.Context, appSlug, environment string) (*PromptTemplate, error) {
	q := url.Values{}
	q.Set("app_slug", appSlug)
	q.Set("environment_slug", environment)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/configs/deployment?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "agenta: create request")
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "agenta: execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "agenta: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("agenta: unexpected status %d for %s/%s", resp.StatusCode, appSlug, environment))
	}

	var payload struct {
		Params PromptTemplate `json:"params"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "agenta: decode response")
	}
	if payload.Params.SystemPrompt == "" {
		return nil, eris.New("agenta: deployment has no system prompt")
	}

	return &payload.Params, nil
}
