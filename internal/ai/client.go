package ai

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/utils"
)

const (
	DefaultTimeout      = 10 * time.Second
	defaultMaxLogLength = 200
)

// Outcomes reported to a Recorder.
const (
	OutcomeOK            = "ok"
	OutcomeNotConfigured = "not_configured"
	OutcomeRateLimited   = "rate_limited"
	OutcomeQuota         = "quota_exceeded"
	OutcomeFailed        = "failed"
	OutcomeRotated       = "rotated"
)

// Recorder counts AI requests by outcome.
type Recorder interface {
	AIRequest(outcome string)
}

// Client is shared by every chat handler. One mutex guards the window, the
// credentials and the backend built for the active credential.
type Client struct {
	mu       sync.Mutex
	window   *Window
	creds    *Credentials
	backend  Backend
	built    int
	rotating int

	factory   Factory
	timeout   time.Duration
	maxLogLen int
	recorder  Recorder
	logger    *zap.Logger
}

type Option func(*Client)

func WithWindow(w *Window) Option {
	return func(c *Client) { c.window = w }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func WithMaxLogLength(n int) Option {
	return func(c *Client) { c.maxLogLen = n }
}

func NewClient(creds *Credentials, factory Factory, log *zap.Logger, opts ...Option) *Client {
	if creds == nil {
		creds = NewCredentials()
	}
	c := &Client{
		window:    NewWindow(DefaultMaxRequests, DefaultPeriod),
		creds:     creds,
		built:     -1,
		factory:   factory,
		timeout:   DefaultTimeout,
		maxLogLen: defaultMaxLogLength,
		logger:    logger.Component(log, "ai"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.creds.Len() == 0 || c.factory == nil:
		return StateUnconfigured
	case c.rotating > 0:
		return StateRotating
	case c.window.Full():
		return StateRateLimited
	default:
		return StateReady
	}
}

// Generate never returns an error: every failure maps to one of the Message
// constants. A quota failure moves to the next credential and retries, at
// most once per remaining credential.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	c.mu.Lock()
	if c.creds.Len() == 0 || c.factory == nil {
		c.mu.Unlock()
		c.record(OutcomeNotConfigured)
		return MessageNotConfigured
	}
	if !c.window.Allow() {
		c.mu.Unlock()
		c.logger.Info("ai request rate limited")
		c.record(OutcomeRateLimited)
		return MessageRateLimited
	}
	attempts := c.creds.Len()
	c.mu.Unlock()

	c.logger.Debug("ai generate request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.retrying(1)
		}
		text, index, err := c.call(ctx, prompt)
		if attempt > 0 {
			c.retrying(-1)
		}

		if err == nil {
			c.logger.Debug("ai generate response",
				zap.Int("credential", index),
				zap.Int("response_length", utf8.RuneCountInString(text)),
				zap.String("response_preview", utils.TruncateForLog(text, c.maxLogLen)),
			)
			c.record(OutcomeOK)
			return text
		}

		if !IsQuota(err) {
			c.logger.Warn("ai generate failed", zap.Int("credential", index), zap.Error(err))
			c.record(OutcomeFailed)
			return MessageFailed
		}

		if attempt == attempts-1 {
			break
		}

		c.logger.Warn("ai credential exhausted, rotating", zap.Int("credential", index), zap.Error(err))
		c.rotate(index)
		c.record(OutcomeRotated)
	}

	c.logger.Warn("ai quota exceeded on every credential", zap.Int("credentials", attempts))
	c.record(OutcomeQuota)
	return MessageQuotaExceeded
}

func (c *Client) call(ctx context.Context, prompt string) (string, int, error) {
	backend, index, err := c.current(ctx)
	if err != nil {
		return "", index, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := backend.Generate(ctx, prompt)
	return text, index, err
}

// current returns the backend for the active credential, building it on
// first use and after every rotation.
func (c *Client) current(ctx context.Context) (Backend, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, index, ok := c.creds.Current()
	if !ok {
		return nil, 0, fmt.Errorf("no credentials configured")
	}
	if c.backend != nil && c.built == index {
		return c.backend, index, nil
	}

	backend, err := c.factory(ctx, key)
	if err != nil {
		return nil, index, fmt.Errorf("create backend: %w", err)
	}
	c.backend = backend
	c.built = index

	return backend, index, nil
}

func (c *Client) rotate(from int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds.Rotate(from) {
		c.backend = nil
		c.built = -1
		_, index, _ := c.creds.Current()
		c.logger.Info("ai credential rotated", zap.Int("from", from), zap.Int("to", index))
	}
}

func (c *Client) retrying(delta int) {
	c.mu.Lock()
	c.rotating += delta
	c.mu.Unlock()
}

func (c *Client) record(outcome string) {
	if c.recorder != nil {
		c.recorder.AIRequest(outcome)
	}
}
