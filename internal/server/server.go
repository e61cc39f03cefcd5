package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	pingTimeout       = 2 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the HTTP front of s3meta. Feature packages mount their routes on
// Engine; the server itself only owns /health and /metrics.
type Server struct {
	Engine *gin.Engine
	Addr   string
	db     *sql.DB
}

// New builds the router. mode "debug" enables gin's debug output.
func New(addr string, db *sql.DB, mode string) *Server {
	gin.SetMode(ginMode(mode))

	s := &Server{
		Engine: gin.New(),
		Addr:   addr,
		db:     db,
	}
	s.Engine.Use(requestLogger(), gin.Recovery())
	s.registerOpsRoutes()
	return s
}

func ginMode(mode string) string {
	if mode == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

func (s *Server) registerOpsRoutes() {
	s.Engine.GET("/health", s.handleHealth)
	s.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// handleHealth reports unhealthy when the summary database cannot be pinged.
func (s *Server) handleHealth(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			slog.Error("[Server] Database ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, healthResponse{
				Status:   "unhealthy",
				Database: "down",
				Error:    "database unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, healthResponse{Status: "healthy", Database: "up"})
}

// quietPaths are polled by health checks and scrapers; they log at debug level.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// requestLogger writes one slog record per request after it is handled.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case quietPaths[path]:
			level = slog.LevelDebug
		}

		slog.Log(c.Request.Context(), level, "[HTTP] Request handled",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"bytes", c.Writer.Size(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Run listens on Addr and serves until ctx is done, then drains open
// connections for up to shutdownTimeout. A listen failure is returned
// immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.Engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	slog.Info("[Server] Listening", "address", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("[Server] Draining connections", "timeout", shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
