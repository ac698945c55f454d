// Package llm wraps the OpenAI-compatible text-completion providers used
// by the Sehha+ analysis pipeline. Groq is the primary provider and
// DeepSeek the fallback; both are opaque external collaborators and no
// response from them ever feeds back into the rule matcher.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sehha-plus/triage-server/internal/domain"
)

// minKeyLength filters out placeholder keys such as "dummy_key".
const minKeyLength = 10

// ChatMessage is one message of a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest is the OpenAI-compatible request payload.
type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// completionResponse is the OpenAI-compatible response payload.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// provider bundles one completion endpoint with its circuit breaker and
// rate limiter.
type provider struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// Client calls the completion providers in order, falling back to the
// next one when a call fails or its breaker is open.
type Client struct {
	providers []*provider
	logger    *logrus.Logger
}

// NewClient creates a completion client from the provider configuration.
// Providers without a usable API key are skipped entirely.
func NewClient(cfg domain.LLMConfig, logger *logrus.Logger) *Client {
	c := &Client{logger: logger}

	for _, pc := range []struct {
		name string
		conf domain.ProviderConfig
	}{
		{"groq", cfg.Groq},
		{"deepseek", cfg.DeepSeek},
	} {
		if len(pc.conf.APIKey) <= minKeyLength {
			continue
		}
		c.providers = append(c.providers, newProvider(pc.name, pc.conf, logger))
	}

	return c
}

func newProvider(name string, cfg domain.ProviderConfig, logger *logrus.Logger) *provider {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"provider": name,
				"from":     from.String(),
				"to":       to.String(),
			}).Warn("LLM circuit breaker state change")
		},
	})

	return &provider{
		name:    name,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		breaker: breaker,
	}
}

// Available reports whether at least one provider has a usable API key.
// When false, callers go straight to the structured fallback path.
func (c *Client) Available() bool {
	return len(c.providers) > 0
}

// Complete sends a chat-completion request to the first healthy provider
// and returns the assistant's text.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("no completion provider configured")
	}

	var lastErr error
	for _, p := range c.providers {
		text, err := p.complete(ctx, messages, temperature, maxTokens)
		if err == nil {
			return text, nil
		}

		lastErr = err
		c.logger.WithError(err).WithField("provider", p.name).Warn("Completion provider failed, trying next")
	}

	return "", fmt.Errorf("all completion providers failed: %w", lastErr)
}

func (p *provider) complete(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.doRequest(ctx, messages, temperature, maxTokens)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (p *provider) doRequest(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	payload := completionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", p.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s response: %w", p.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d: %s", p.name, resp.StatusCode, string(raw))
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", p.name, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s API error: %s", p.name, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.name)
	}

	return parsed.Choices[0].Message.Content, nil
}
