package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/taskforce/config"
	"github.com/mohammad-safakhou/taskforce/internal/agent"
	"github.com/mohammad-safakhou/taskforce/internal/dispatch"
	"github.com/mohammad-safakhou/taskforce/internal/docs"
	"github.com/mohammad-safakhou/taskforce/internal/fetch"
	"github.com/mohammad-safakhou/taskforce/internal/history"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
	"github.com/mohammad-safakhou/taskforce/internal/telemetry"
)

// Server owns the HTTP surface and the wired core: bus, agent registry,
// dispatcher and history. All dependency construction happens here, once,
// at process start.
type Server struct {
	cfg        *config.Config
	e          *echo.Echo
	bus        *notify.Bus
	dispatcher *dispatch.Dispatcher
	history    history.Repository
	defaultLLM provider.Choice
	uploadsDir string
	logger     *log.Logger
}

// New wires the full service from configuration.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
	}

	bus := notify.NewBus(cfg.Notify.Buffer, nil)
	if cfg.Telemetry.Enabled {
		telemetry.RegisterBusDrops(prometheus.DefaultRegisterer, bus.Dropped)
	}

	providers := provider.NewRegistry(cfg.LLM, metrics)

	fetcher, err := fetch.New(fetch.Type(cfg.Agents.Fetcher), cfg.Agents.FetchTimeout, cfg.Agents.MaxExcerptChars)
	if err != nil {
		return nil, err
	}

	defaultLLM, err := provider.ParseChoice(cfg.LLM.Default, provider.OpenAI)
	if err != nil {
		return nil, err
	}

	registry := agent.NewRegistry(agent.Deps{
		Bus:          bus,
		Providers:    providers,
		Fetcher:      fetcher,
		Summarizer:   docs.CSVSummarizer{},
		Extractor:    docs.PDFExtractor{MaxChars: cfg.Agents.MaxExtractChars},
		FetchTimeout: cfg.Agents.FetchTimeout,
		DefaultLLM:   defaultLLM,
	})

	dispatcher := dispatch.New(registry,
		log.New(log.Writer(), "[DISPATCH] ", log.LstdFlags),
		metrics, cfg.Agents.MaxConcurrent)

	repo, err := history.New(ctx, cfg.History)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		bus:        bus,
		dispatcher: dispatcher,
		history:    repo,
		defaultLLM: defaultLLM,
		uploadsDir: cfg.Uploads.Dir,
		logger:     logger,
	}
	s.e = s.buildEcho()
	return s, nil
}

func (s *Server) buildEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		s.logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if s.cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	api := e.Group("/api")
	api.POST("/dispatch", s.handleDispatch)
	api.POST("/upload", s.handleUpload)
	api.GET("/events", s.handleEvents)
	api.GET("/agents", s.handleAgents)
	api.GET("/dispatches", s.handleDispatches)
	return e
}

// Start blocks serving HTTP on the configured address.
func (s *Server) Start() error {
	s.logger.Printf("listening on %s", s.cfg.General.Listen)
	return s.e.Start(s.cfg.General.Listen)
}

// Shutdown stops the HTTP server and closes the notification bus.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.e.Shutdown(ctx)
	s.bus.Close()
	return err
}
