package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 1.0
)

type Config struct {
	Model             string
	FallbackModels    []string
	Preferences       []string
	DiscoveryAttempts int
	Temperature       *float64
	MaxOutputTokens   int64
}

// Options tune a single Generate call.
type Options struct {
	SystemPrompt    string
	Temperature     *float64
	MaxOutputTokens int64
}

// Client generates text with a fixed primary model and falls back through
// alternative models when the provider reports the model as missing.
type Client struct {
	sdk    Backend
	rest   Backend
	lister ModelLister
	cfg    Config
	logger *zap.Logger
}

// NewClient wires the fallback chain. rest and lister may be nil to skip those steps.
func NewClient(sdk Backend, rest Backend, lister ModelLister, cfg Config, logger *zap.Logger) *Client {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{sdk: sdk, rest: rest, lister: lister, cfg: cfg, logger: logger}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

type attempt struct {
	backend Backend
	model   string
	route   string
}

// Generate sends prompt and returns the raw completion text. Any failure is a
// *ServiceError; a failure other than a missing model ends the sequence at once.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	req := c.request(prompt, opts)
	tried := map[string]bool{}

	attempts := []attempt{{backend: c.sdk, model: c.cfg.Model, route: "sdk"}}
	fallbacks := lo.Without(lo.Uniq(c.cfg.FallbackModels), c.cfg.Model, "")
	for _, model := range fallbacks {
		attempts = append(attempts, attempt{backend: c.sdk, model: model, route: "sdk"})
	}
	if c.rest != nil {
		attempts = append(attempts, attempt{backend: c.rest, model: c.cfg.Model, route: "rest"})
	}

	var lastErr error
	var lastModel string
	for _, a := range attempts {
		text, done, err := c.try(ctx, req, a, tried)
		if done {
			return text, err
		}
		lastErr, lastModel = err, a.model
	}

	for _, model := range c.discover(ctx, tried) {
		text, done, err := c.try(ctx, req, attempt{backend: c.sdk, model: model, route: "discovery"}, tried)
		if done {
			return text, err
		}
		lastErr, lastModel = err, model
	}

	return "", &ServiceError{Model: lastModel, Err: lastErr}
}

// try runs one attempt. done is false only when the model was not found and
// the sequence should continue.
func (c *Client) try(ctx context.Context, req CompletionRequest, a attempt, tried map[string]bool) (string, bool, error) {
	req.Model = a.model
	if a.route != "rest" {
		tried[a.model] = true
	}

	text, err := a.backend.Complete(ctx, req)
	if err == nil {
		if strings.TrimSpace(text) == "" {
			return "", true, &ServiceError{Model: a.model, Err: ErrEmptyCompletion}
		}
		if a.model != c.cfg.Model || a.route != "sdk" {
			c.logger.Info("ai fallback succeeded", zap.String("model", a.model), zap.String("route", a.route))
		}
		return text, true, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || !IsModelNotFound(err) {
		return "", true, &ServiceError{Model: a.model, Err: err}
	}
	c.logger.Warn("ai model unavailable, trying next",
		zap.String("model", a.model),
		zap.String("route", a.route),
		zap.Error(err),
	)
	return "", false, err
}

func (c *Client) discover(ctx context.Context, tried map[string]bool) []string {
	if c.lister == nil || c.cfg.DiscoveryAttempts <= 0 {
		return nil
	}
	models, err := c.lister.ListModels(ctx)
	if err != nil {
		c.logger.Warn("ai model discovery failed", zap.Error(err))
		return nil
	}
	ranked := RankModels(ChatCandidates(models, tried), c.cfg.Preferences)
	if len(ranked) > c.cfg.DiscoveryAttempts {
		ranked = ranked[:c.cfg.DiscoveryAttempts]
	}
	return ranked
}

func (c *Client) request(prompt string, opts Options) CompletionRequest {
	temperature := DefaultTemperature
	if c.cfg.Temperature != nil {
		temperature = *c.cfg.Temperature
	}
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := c.cfg.MaxOutputTokens
	if opts.MaxOutputTokens > 0 {
		maxTokens = opts.MaxOutputTokens
	}

	var messages []Message
	if s := strings.TrimSpace(opts.SystemPrompt); s != "" {
		messages = append(messages, Message{Role: "system", Content: s})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	return CompletionRequest{
		Messages:        messages,
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
	}
}
