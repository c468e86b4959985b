// Package web serves the browser front end: an upload page and an endpoint
// that turns the uploaded photo into a rendered mosaic.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/mosaic-mcp/internal/config"
	"github.com/ironsheep/mosaic-mcp/internal/imaging"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/mosaic-mcp/internal/render"
)

// Assembler is the part of *mosaic.Assembler the server needs.
type Assembler interface {
	Assemble(ctx context.Context, img image.Image) (*mosaic.Grid, error)
}

// Server handles the web front end.
type Server struct {
	cfg       config.Config
	assembler Assembler
	log       log.FieldLogger
	startTime time.Time
	version   string
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// NewServer creates a new server instance. A nil logger uses the standard
// logger.
func NewServer(cfg config.Config, assembler Assembler, logger log.FieldLogger, version string) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		cfg:       cfg,
		assembler: assembler,
		log:       logger,
		startTime: time.Now(),
		version:   version,
	}
}

// Router returns the chi router with middleware and routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	r.Use(middleware.Recoverer)
	if s.cfg.Server.Timeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.Timeout))
	}

	r.Get("/", s.handleIndex)
	r.Post("/mosaic", s.handleMosaic)
	r.Get("/health", s.handleHealth)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", httpServer.Addr).Info("mosaic web server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusOK, render.Page{
		Title:        "Mosaic",
		Display:      s.cfg.Display,
		UploadAction: "/mosaic",
	})
}

// handleMosaic builds a mosaic from the uploaded "file" form field.
func (s *Server) handleMosaic(w http.ResponseWriter, r *http.Request) {
	logger := s.log.WithField("request_id", middleware.GetReqID(r.Context()))

	if s.cfg.Server.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Can not retrieve file reference")
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Can not read uploaded file")
		return
	}

	img, err := imaging.DecodeBytes(buf.Bytes())
	if err != nil {
		logger.WithError(err).Info("upload is not a usable image")
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	grid, err := s.assembler.Assemble(r.Context(), img)
	if err != nil {
		status, message := classify(err)
		logger.WithError(err).WithField("status", status).Warn("mosaic failed")
		s.writeError(w, r, status, message)
		return
	}

	page, err := render.NewPage(s.cfg.Display, img, grid, render.Options{})
	if err != nil {
		logger.WithError(err).Error("render failed")
		s.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	page.UploadAction = "/mosaic"
	s.writePage(w, r, http.StatusOK, page)
}

// classify maps an assembly failure to an HTTP status and a user-facing
// message that tells "service said no" apart from "service unreachable".
func classify(err error) (int, string) {
	var statusErr *mosaic.StatusError
	var transportErr *mosaic.TransportError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Swatch requests timed out"
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, fmt.Sprintf("Swatch service refused color %s: %d %s",
			statusErr.Key, statusErr.Code, statusErr.Text)
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, fmt.Sprintf("Swatch service unreachable for color %s", transportErr.Key)
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithError(err).Error("encode health response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writePage(w, r, status, render.Page{
		Title:        "Mosaic",
		Display:      s.cfg.Display,
		UploadAction: "/mosaic",
		Error:        message,
	})
}

// writePage renders into a buffer first so a template failure can still
// produce a clean 500.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	var buf bytes.Buffer
	if err := render.HTML(&buf, page); err != nil {
		s.log.WithError(err).Error("render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if id := middleware.GetReqID(r.Context()); id != "" {
		w.Header().Set("X-Request-ID", id)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Debug("write response")
	}
}
