// Package gateway mediates every call to the language-model service. It owns
// the per-call timeout, retry/backoff policy, request throttling, and the
// normalization of model output into parseable JSON, so the pipeline stages
// all depend on one structured-completion capability.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/meeting-agent/internal/resilience"
	"github.com/sells-group/meeting-agent/pkg/anthropic"
)

// Completer is the structured-completion capability the stages depend on.
type Completer interface {
	// CompleteJSON sends one prompt and returns the JSON object found in
	// the response after wrapper stripping. The op string names the caller
	// for logs and audit notes.
	CompleteJSON(ctx context.Context, op string, req Request) (json.RawMessage, error)
}

// Request carries a structured prompt and generation parameters.
type Request struct {
	System      string
	Prompt      string
	Temperature float64 // 0 means the configured default
	MaxTokens   int64   // 0 means the configured default
}

// Recorder receives one audit line per gateway attempt. The orchestrator
// wires this to the run's processing notes.
type Recorder func(note string)

// Config tunes the gateway.
type Config struct {
	Model string
	// Temperature is the default sampling temperature. Kept low (0.1) to
	// bias toward determinism; byte-identical output is still not
	// guaranteed across calls.
	Temperature float64
	MaxTokens   int64
	// CallTimeout bounds each individual attempt, independently of the
	// retry policy. A timed-out attempt counts as transient.
	CallTimeout time.Duration
	MaxAttempts int
	// InitialBackoff is the base delay before the first retry. Zero means
	// the resilience default.
	InitialBackoff time.Duration
	// RateLimit caps request throughput in requests per second.
	RateLimit float64
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig(model string) Config {
	return Config{
		Model:       model,
		Temperature: 0.1,
		MaxTokens:   4000,
		CallTimeout: 60 * time.Second,
		MaxAttempts: 3,
		RateLimit:   2,
	}
}

// Gateway implements Completer over an anthropic.Client.
type Gateway struct {
	client  anthropic.Client
	cfg     Config
	limiter *rate.Limiter
	record  Recorder
}

// New creates a gateway. recorder may be nil when no audit trail is needed.
func New(client anthropic.Client, cfg Config, recorder Recorder) *Gateway {
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(int(cfg.RateLimit), 1))
	}
	return &Gateway{client: client, cfg: cfg, limiter: limiter, record: recorder}
}

// CompleteJSON performs the call with retry. Transient failures (timeouts,
// rate limits, 5xx) and malformed responses are retried up to the attempt
// bound with exponential backoff; auth failures surface immediately.
func (g *Gateway) CompleteJSON(ctx context.Context, op string, req Request) (json.RawMessage, error) {
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = g.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.cfg.MaxTokens
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts:    g.cfg.MaxAttempts,
		InitialBackoff: g.cfg.InitialBackoff,
		ShouldRetry: func(err error) bool {
			return resilience.IsTransient(err) || resilience.IsMalformed(err)
		},
		OnAttempt: func(attempt int, err error) {
			g.note(op, attempt, err)
		},
	}

	payload, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (json.RawMessage, error) {
		return g.attempt(ctx, op, req.System, req.Prompt, temperature, maxTokens)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "gateway: %s", op)
	}
	return payload, nil
}

// attempt performs a single bounded call and normalizes its output.
func (g *Gateway) attempt(ctx context.Context, op, system, prompt string, temperature float64, maxTokens int64) (json.RawMessage, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit")
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.CallTimeout)
	defer cancel()

	resp, err := g.client.CreateMessage(callCtx, anthropic.MessageRequest{
		Model:       g.cfg.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: &temperature,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		// A per-call deadline hit is transient: the outer context is still
		// live and the retry policy decides what happens next.
		if callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, resilience.NewTransientError(err, 0)
		}
		return nil, err
	}

	cleaned := CleanJSON(resp.Text())
	if !json.Valid([]byte(cleaned)) {
		return nil, &resilience.MalformedResponseError{
			Err:     eris.New("no JSON object in response"),
			Snippet: snippet(resp.Text(), 120),
		}
	}

	zap.L().Debug("gateway call complete",
		zap.String("op", op),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return json.RawMessage(cleaned), nil
}

func (g *Gateway) note(op string, attempt int, err error) {
	if g.record == nil {
		return
	}
	if err == nil {
		g.record(fmt.Sprintf("gateway: %s: attempt %d succeeded", op, attempt))
		return
	}
	g.record(fmt.Sprintf("gateway: %s: attempt %d failed: %v", op, attempt, err))
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
