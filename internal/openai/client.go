package openai

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
)

// InputMessage is one role/content pair in the provider input sequence.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes a single Responses API invocation.
// Input is either a bare string (single-turn shortcut) or []InputMessage;
// both marshal directly into the API's "input" field.
type CompletionRequest struct {
	Instructions    string
	Input           any
	EnableWebSearch bool
}

// Usage carries the token counters reported by the provider, plus the number
// of web_search_call items observed in the response output.
type Usage struct {
	InputTokens    int
	CachedTokens   int
	OutputTokens   int
	WebSearchCalls int
}

// Completion is the result of a successful provider call. Usage is nil when
// the provider omits the usage block.
type Completion struct {
	Text  string
	Usage *Usage
}

// responsesRequest is the minimal request shape for the Responses endpoint.
type responsesRequest struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions,omitempty"`
	Input        any    `json:"input"`
	Tools        []tool `json:"tools,omitempty"`
}

type tool struct {
	Type string `json:"type"`
}

// responsesResponse is the minimal response shape returned by the Responses endpoint.
type responsesResponse struct {
	ID     string       `json:"id"`
	Output []outputItem `json:"output"`
	Usage  *usageBlock  `json:"usage"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usageBlock struct {
	InputTokens        int `json:"input_tokens"`
	InputTokensDetails struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details"`
	OutputTokens int `json:"output_tokens"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused OpenAI client for the Responses endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	model      string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client for the given API key and model.
func NewClient(apiKey, model string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai: api key must not be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("openai: model must not be empty")
	}
	c := &Client{
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 90 * time.Second},
		apiKey:     apiKey,
		model:      model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func responsesURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/responses"
	}
	return base + "/v1/responses"
}

// Complete performs one Responses API call. Exactly one attempt is made; the
// caller decides how to recover from failure.
func (c *Client) Complete(ctx context.Context, in CompletionRequest) (*Completion, error) {
	reqBody := responsesRequest{
		Model:        c.model,
		Instructions: in.Instructions,
		Input:        in.Input,
	}
	if in.EnableWebSearch {
		reqBody.Tools = []tool{{Type: "web_search"}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	url := responsesURL(c.baseURL)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return nil, fmt.Errorf("openai: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}

	var payload responsesResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return nil, fmt.Errorf("openai: decode response: %w", decErr)
	}

	return buildCompletion(payload), nil
}

// buildCompletion flattens the output items into the final text and maps the
// usage block, counting web_search_call items along the way.
func buildCompletion(payload responsesResponse) *Completion {
	var parts []string
	searchCalls := 0
	for _, item := range payload.Output {
		switch item.Type {
		case "web_search_call":
			searchCalls++
		case "message":
			for _, part := range item.Content {
				if part.Type == "output_text" && part.Text != "" {
					parts = append(parts, part.Text)
				}
			}
		}
	}

	out := &Completion{Text: strings.Join(parts, "\n")}
	if payload.Usage != nil {
		out.Usage = &Usage{
			InputTokens:    payload.Usage.InputTokens,
			CachedTokens:   payload.Usage.InputTokensDetails.CachedTokens,
			OutputTokens:   payload.Usage.OutputTokens,
			WebSearchCalls: searchCalls,
		}
	}
	return out
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 90 * time.Second}
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
