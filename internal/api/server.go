package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/spacesedan/swotflow/internal/apperrors"
	"github.com/spacesedan/swotflow/internal/models"
)

type AnalysisService interface {
	Run(ctx context.Context, productName string) (*models.AnalysisRecord, error)
	Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error)
}

type Server struct {
	echo            *echo.Echo
	service         AnalysisService
	classifierReady *atomic.Bool
	requestTimeout  time.Duration
}

func NewServer(service AnalysisService, classifierReady *atomic.Bool, requestTimeout time.Duration) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("[APIServer] Request handled",
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))

	if classifierReady == nil {
		classifierReady = &atomic.Bool{}
	}

	s := &Server{
		echo:            e,
		service:         service,
		classifierReady: classifierReady,
		requestTimeout:  requestTimeout,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.POST("/analyze", s.analyze)
	s.echo.GET("/results/:product", s.latest)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	slog.Info("[APIServer] Listening", slog.String("addr", addr))
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":           "ok",
		"classifier_ready": s.classifierReady.Load(),
	})
}

func (s *Server) analyze(c echo.Context) error {
	var req models.AnalysisRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ProductName) == "" {
		return errorJSON(c, &apperrors.InputError{Field: "product_name", Message: "Product name is required"})
	}

	ctx := c.Request().Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	record, err := s.service.Run(ctx, strings.TrimSpace(req.ProductName))
	if err != nil {
		slog.Error("[APIServer] Analysis failed",
			slog.String("product", req.ProductName),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.String("error", err.Error()))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) latest(c echo.Context) error {
	product := strings.TrimSpace(c.Param("product"))
	if product == "" {
		return errorJSON(c, &apperrors.InputError{Field: "product", Message: "Product name is required"})
	}

	record, err := s.service.Latest(c.Request().Context(), product)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}
