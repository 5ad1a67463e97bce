package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CompletionRequest holds the parameters for a single completion call.
type CompletionRequest struct {
	Task        TaskType
	Prompt      string
	Temperature *float64 // nil uses task default
	MaxTokens   *int     // nil uses task default
}

// CompletionResponse holds the result of a completion call.
type CompletionResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides a single text-completion call against a provider.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// New creates a Client for the provider selected in cfg. Providers without
// a working adapter return a client whose every call fails with
// ErrProviderUnimplemented, making the closed set explicit.
func New(cfg Config, resolver *CredentialResolver, observer Observer) (Client, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	if !Known(cfg.Provider) {
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI, ProviderDeepSeek, ProviderOpenRouter:
		return &openAIClient{
			cfg:      cfg,
			resolver: resolver,
			http:     &http.Client{},
			observer: observer,
		}, nil
	case ProviderAnthropic, ProviderGoogle, ProviderAzure, ProviderMistral, ProviderCohere:
		return unimplementedClient{cfg: cfg, resolver: resolver}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// unimplementedClient fails fast for providers in the catalog that have no
// adapter yet. Credentials are still resolved first, so a missing API key
// reports as a configuration problem rather than a missing adapter.
type unimplementedClient struct {
	cfg      Config
	resolver *CredentialResolver
}

func (c unimplementedClient) Complete(ctx context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	if _, err := c.resolver.Resolve(ctx, c.cfg); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%s %w", c.cfg.Provider, ErrProviderUnimplemented)
}

// openAIClient talks to any OpenAI-compatible chat-completions endpoint
// (OpenAI itself, DeepSeek, OpenRouter, or a custom base URL).
type openAIClient struct {
	cfg      Config
	resolver *CredentialResolver
	http     *http.Client
	observer Observer
}

// chatRequest is the JSON body sent to POST {base}/chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	cred, err := c.resolver.Resolve(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	baseURL := cred.BaseURL
	if baseURL == "" {
		baseURL = providers[c.cfg.Provider].DefaultBase
	}

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   maxTok,
		Temperature: temp,
	}

	text, model, err := c.doRequest(ctx, baseURL, cred.APIKey, body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		c.observer.OnCallComplete(CallEvent{
			Task:      req.Task,
			Provider:  c.cfg.Provider,
			Model:     c.cfg.Model,
			LatencyMs: latency,
			Detail:    err.Error(),
		})
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w (provider %s)", ErrTimeout, c.cfg.Provider)
		}
		// The upstream error was logged above; callers only see the
		// taxonomy error.
		return nil, fmt.Errorf("%w (provider %s)", ErrGenerationFailed, c.cfg.Provider)
	}

	c.observer.OnCallComplete(CallEvent{
		Task:      req.Task,
		Provider:  c.cfg.Provider,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   true,
	})
	return &CompletionResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

func (c *openAIClient) doRequest(ctx context.Context, baseURL, apiKey string, body chatRequest) (text, model string, err error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	url := baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", "", fmt.Errorf("provider returned status %d with undecodable body", httpResp.StatusCode)
	}
	if httpResp.StatusCode != http.StatusOK {
		if resp.Error != nil {
			return "", "", fmt.Errorf("provider returned status %d: %s", httpResp.StatusCode, resp.Error.Message)
		}
		return "", "", fmt.Errorf("provider returned status %d", httpResp.StatusCode)
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("provider returned no choices")
	}
	return resp.Choices[0].Message.Content, resp.Model, nil
}
