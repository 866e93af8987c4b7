// Package server implements the HTTP evaluation service.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zephyrtronium/ratexpr"
	"github.com/zephyrtronium/ratexpr/internal/config"
)

// defaultDigits is the number of decimal places in the approximate rendering
// of results when the request doesn't ask for a specific number.
const defaultDigits = 6

// maxDigits bounds requested decimal places.
const maxDigits = 100

// Server is the evaluation service.
type Server struct {
	app     *fiber.App
	logger  *zap.Logger
	opts    []ratexpr.ParseOption
	workers int
	batch   int
}

// New creates a new server from the service configuration.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	srv := &Server{
		logger:  logger,
		opts:    cfg.ParseOptions(),
		workers: cfg.Server.Workers,
		batch:   cfg.Server.MaxBatch,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		BodyLimit:             cfg.Server.MaxBodyBytes,
		ErrorHandler:          srv.handleError,
	})

	app.Use(requestID)
	app.Get("/healthz", srv.healthz)
	app.Post("/v1/evaluate", srv.evaluate)
	app.Post("/v1/evaluate\\:batch", srv.evaluateBatch)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// requestID tags each request with an id, reusing one the client sent.
func requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals("request_id", id)
	return c.Next()
}

func reqID(c *fiber.Ctx) string {
	id, _ := c.Locals("request_id").(string)
	return id
}

type evaluateRequest struct {
	Expression string `json:"expression"`
	// Digits is the number of decimal places in the approximate rendering.
	Digits *int `json:"digits"`
}

type batchRequest struct {
	Expressions []string `json:"expressions"`
	Digits      *int     `json:"digits"`
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	digits, ok := digitsOf(req.Digits)
	if !ok {
		return badRequest(c, "digits must be between 0 and 100")
	}

	start := time.Now()
	v, err := ratexpr.EvalString(req.Expression, s.opts...)
	s.logger.Info("evaluated expression",
		zap.String("request_id", reqID(c)),
		zap.Int("length", len(req.Expression)),
		zap.Stringer("kind", ratexpr.KindOf(err)),
		zap.Duration("latency", time.Since(start)))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": errorJSON(err)})
	}
	return c.JSON(fiber.Map{"result": valueJSON(v, digits)})
}

func (s *Server) evaluateBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if len(req.Expressions) > s.batch {
		return badRequest(c, "too many expressions in batch")
	}
	digits, ok := digitsOf(req.Digits)
	if !ok {
		return badRequest(c, "digits must be between 0 and 100")
	}

	start := time.Now()
	res := ratexpr.EvalAll(c.UserContext(), req.Expressions, s.workers, s.opts...)
	items := make([]fiber.Map, len(res))
	failed := 0
	for i, r := range res {
		if r.Err != nil {
			failed++
			items[i] = fiber.Map{"error": errorJSON(r.Err)}
			continue
		}
		items[i] = fiber.Map{"result": valueJSON(r.Value, digits)}
	}
	s.logger.Info("evaluated batch",
		zap.String("request_id", reqID(c)),
		zap.Int("count", len(res)),
		zap.Int("failed", failed),
		zap.Duration("latency", time.Since(start)))
	return c.JSON(fiber.Map{"results": items})
}

// handleError renders errors that escape handlers, such as unknown routes or
// oversized bodies, in the same shape as evaluation errors.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= 500 {
		s.logger.Error("request failed", zap.String("request_id", reqID(c)), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"kind":    "InvalidRequest",
			"message": err.Error(),
		},
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"kind":    "InvalidRequest",
			"message": msg,
		},
	})
}

func digitsOf(d *int) (int, bool) {
	if d == nil {
		return defaultDigits, true
	}
	return *d, 0 <= *d && *d <= maxDigits
}

func valueJSON(v ratexpr.Value, digits int) fiber.Map {
	return fiber.Map{
		"text":      v.String(),
		"integer":   v.IsInt(),
		"quotient":  v.Quotient(),
		"remainder": v.Remainder(),
		"divisor":   v.Divisor(),
		"decimal":   v.Decimal(digits),
	}
}

func errorJSON(err error) fiber.Map {
	m := fiber.Map{
		"kind":    ratexpr.KindOf(err).String(),
		"message": err.Error(),
	}
	var in ratexpr.InputError
	if errors.As(err, &in) {
		m["position"] = in.Pos()
	}
	return m
}
