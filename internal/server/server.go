// Package server exposes the job search, resume and chat endpoints over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/assistant"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/logger"
)

const (
	DefaultAddr              = ":8000"
	DefaultRequestsPerMinute = 100
	// DefaultBodyLimit leaves room for resume uploads.
	DefaultBodyLimit = 10 * 1024 * 1024
	serviceName      = "Job Scraper API"
)

// JobSearcher runs the aggregation pipeline. jobs.Aggregator implements it.
type JobSearcher interface {
	Search(ctx context.Context, q jobs.SearchQuery) ([]jobs.Job, jobs.Outcome)
}

// Assistant answers chat requests. assistant.Service implements it.
type Assistant interface {
	InterviewStart(ctx context.Context, role, topic, difficulty string) string
	InterviewChat(ctx context.Context, message string, history []assistant.Turn) string
	Chat(ctx context.Context, message string, history []assistant.Turn) string
}

type Config struct {
	Addr              string
	CORSOrigins       []string
	RequestsPerMinute int
	BodyLimit         int
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = DefaultBodyLimit
	}
	return c
}

// Server wraps the Fiber app and its handlers.
type Server struct {
	App *fiber.App

	cfg       Config
	jobs      JobSearcher
	assistant Assistant
	metrics   http.Handler
	logger    *zap.Logger
}

type Option func(*Server)

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New creates a server with middleware and routes configured.
func New(cfg Config, searcher JobSearcher, chat Assistant, log *zap.Logger, opts ...Option) *Server {
	cfg = cfg.withDefaults()

	s := &Server{
		cfg:       cfg,
		jobs:      searcher,
		assistant: chat,
		logger:    logger.Component(log, "server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New(fiber.Config{
		AppName:   serviceName,
		BodyLimit: cfg.BodyLimit,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return jsonError(c, code, message)
		},
	})

	app.Use(recover.New())
	app.Use(s.accessLog())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	s.App = app
	s.routes()

	return s
}

// accessLog writes one zap entry per request.
func (s *Server) accessLog() fiber.Handler {
	log := s.logger.Named("access")
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		log.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

// rateLimit allows RequestsPerMinute requests per client IP.
func (s *Server) rateLimit() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.cfg.RequestsPerMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return jsonError(c, fiber.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		},
	})
}

// Start blocks serving on the configured address.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.cfg.Addr))
	return s.App.Listen(s.cfg.Addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
