package rest

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/web"
)

const (
	pageTitle       = "Chess game"
	shutdownTimeout = 5 * time.Second
)

type coordinator interface {
	Snapshot() entity.Board
	Roster() entity.Roster
}

type historyRepo interface {
	List(ctx context.Context) ([]*entity.HistoryEntry, error)
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	history     historyRepo
	socketPort  string

	engine *gin.Engine
}

func New(logger *slog.Logger, coordinator coordinator, history historyRepo, socketPort string) (*Server, error) {
	server := &Server{
		logger:      logger.With("component", "rest"),
		coordinator: coordinator,
		history:     history,
		socketPort:  socketPort,
	}

	engine, err := server.routes()
	if err != nil {
		return nil, err
	}

	server.engine = engine

	return server, nil
}

func (that *Server) Handler() http.Handler {
	return that.engine
}

// Start - starts HTTP server and stops it when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) routes() (*gin.Engine, error) {
	pages, err := template.ParseFS(web.Files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := fs.Sub(web.Files, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(that.logger))
	engine.SetHTMLTemplate(pages)

	engine.GET("/", that.index)
	engine.StaticFS("/static", http.FS(static))
	engine.GET("/ping", that.ping)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/state", that.state)
	api.GET("/history", that.listHistory)

	return engine, nil
}
