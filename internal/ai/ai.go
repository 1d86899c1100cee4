// Package ai is the writing assistant: remote transforms through an
// OpenAI-compatible chat completions endpoint, plus local heuristics.
package ai

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

	"golang.org/x/time/rate"

	"github.com/kim-mac/aiopad/internal/config"
	"github.com/kim-mac/aiopad/internal/logger"
	"github.com/kim-mac/aiopad/internal/metrics"
)

// ErrNoAPIKey is returned for remote transforms when no key is configured
var ErrNoAPIKey = errors.New("ai: no API key configured")

// Kind is the requested transform
type Kind string

const (
	Complete   Kind = "complete"
	Summarize  Kind = "summarize"
	Improve    Kind = "improve"
	Paraphrase Kind = "paraphrase"
	Detect     Kind = "detect"
	Humanize   Kind = "humanize"
)

// Kinds lists every transform in menu order
func Kinds() []Kind {
	return []Kind{Complete, Summarize, Improve, Paraphrase, Detect, Humanize}
}

// ParseKind parses a transform name
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown ai operation %q", s)
}

// Remote reports whether k needs the endpoint
func (k Kind) Remote() bool {
	switch k {
	case Complete, Summarize, Improve, Paraphrase:
		return true
	}
	return false
}

// Result is the outcome of a transform. Detection is only set for Detect.
type Result struct {
	Text      string
	Detection *Detection
}

// Client performs transforms
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	model    string
	limiter  *rate.Limiter
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates a client from configuration
func New(cfg config.AIConfig, log *logger.Logger, m *metrics.Metrics) *Client {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 20
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		limiter:  rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute),
		log:      log.WithComponent("ai"),
		metrics:  m,
	}
}

// Transform applies kind to text
func (c *Client) Transform(ctx context.Context, kind Kind, text string) (Result, error) {
	switch kind {
	case Detect:
		d := DetectText(text)
		return Result{Text: d.String(), Detection: &d}, nil
	case Humanize:
		return Result{Text: HumanizeText(text)}, nil
	}
	if !kind.Remote() {
		return Result{}, fmt.Errorf("unknown ai operation %q", kind)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, errors.New("ai: nothing to transform")
	}
	if c.apiKey == "" {
		return Result{}, ErrNoAPIKey
	}

	started := time.Now()
	out, err := c.chat(ctx, prompts[kind], text)
	c.metrics.External("ai", started, err)
	if err != nil {
		c.log.Warnw("ai request failed", "kind", kind, "error", err)
		return Result{}, err
	}
	if kind == Summarize {
		out = bullets(out)
	}
	return Result{Text: out}, nil
}

var prompts = map[Kind]string{
	Complete:   "Continue the user's text with one short, natural sentence. Reply with the continuation only.",
	Summarize:  "Summarize the user's text in a few short sentences. Reply with the summary only.",
	Improve:    "Fix spelling, grammar, punctuation and spacing in the user's text without changing its meaning. Reply with the corrected text only.",
	Paraphrase: "Rephrase the user's text with different wording while keeping its meaning. Reply with the rephrased text only.",
}

// chatMessage represents a message in a chat completion request or response
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the request body for chat completions
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

// chatCompletionResponse represents the response from a chat completion
type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat completion response: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("chat completion returned status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// bullets turns a summary into one bullet per sentence
func bullets(summary string) string {
	var lines []string
	for _, line := range strings.Split(summary, "\n") {
		for _, part := range strings.Split(line, ". ") {
			part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "•-* "))
			if part == "" {
				continue
			}
			if !strings.HasSuffix(part, ".") {
				part += "."
			}
			lines = append(lines, "• "+part)
		}
	}
	return strings.Join(lines, "\n")
}
