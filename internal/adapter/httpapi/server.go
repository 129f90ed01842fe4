// Package httpapi serves the deck assistant over JSON HTTP routes.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/narainsingaram/clash-royale-ai/internal/adapter/royale"
	"github.com/narainsingaram/clash-royale-ai/internal/domain"
	"github.com/narainsingaram/clash-royale-ai/internal/usecase"
)

// Services are the use cases behind the routes.
type Services struct {
	Catalog *usecase.CatalogUseCase
	Collect *usecase.CollectUseCase
	Similar *usecase.SimilarUseCase
	Meta    *usecase.MetaUseCase
	Analyze *usecase.AnalyzeUseCase
	Player  *usecase.PlayerUseCase

	PopularCards int
	PopularDecks int
}

type Server struct {
	echo   *echo.Echo
	svc    Services
	logger *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewServer(svc Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		svc:    svc,
		logger: slog.Default().With("component", "server"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(s.logRequests)

	api := e.Group("/api")
	api.GET("/cards", s.cards)
	api.GET("/collect-meta-decks", s.collectMetaDecks)
	api.POST("/similar-decks", s.similarDecks)
	api.GET("/meta/popular-cards", s.popularCards)
	api.GET("/meta/popular-decks", s.popularDecks)
	api.GET("/meta/archetype-distribution", s.archetypeDistribution)
	api.POST("/analyze", s.analyze)
	api.POST("/generate-deck", s.generateDeck)
	api.GET("/player/:tag", s.player)
	api.GET("/random-deck", s.randomDeck)
	api.POST("/swap", s.swap)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.logger.Debug("request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration_ms", time.Since(start).Milliseconds())
		return err
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain and client errors onto HTTP status codes.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	var apiErr *royale.APIError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoMetaDecks),
		errors.Is(err, usecase.ErrNoCurrentDeck),
		errors.Is(err, royale.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusFor(err)
	msg := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "status", status, "error", err)
	}
	if err := c.JSON(status, errorResponse{Error: msg}); err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}
