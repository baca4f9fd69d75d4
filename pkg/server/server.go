// Package server serves a generated form over HTTP and relays submissions to
// a prediction container.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/afero"

	"github.com/goliatone/go-cogform/internal/logger"
	"github.com/goliatone/go-cogform/pkg/model"
	"github.com/goliatone/go-cogform/pkg/outputs"
	"github.com/goliatone/go-cogform/pkg/predict"
	"github.com/goliatone/go-cogform/pkg/render"
)

// DefaultMaxUploadSize bounds one multipart submission.
const DefaultMaxUploadSize int64 = 32 << 20

// Predictor is the part of predict.Predictor the server depends on.
type Predictor interface {
	Predict(ctx context.Context, values []model.Value, opts ...predict.SubmitOption) (*outputs.Result, error)
}

var _ Predictor = (*predict.Predictor)(nil)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileSystem sets where uploads are written and files are served from.
func WithFileSystem(files afero.Fs) Option {
	return func(s *Server) {
		if files != nil {
			s.files = files
		}
	}
}

// WithUploadDir sets the directory uploaded inputs are saved to.
func WithUploadDir(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.uploadDir = filepath.Clean(dir)
		}
	}
}

// WithMediaDir adds a directory whose files may be served, typically the
// directory materialized outputs are written to.
func WithMediaDir(dir string) Option {
	return func(s *Server) {
		if dir != "" {
			s.mediaDir = filepath.Clean(dir)
		}
	}
}

// WithPublicBaseURL fixes the base URL uploads are exposed under. When unset
// it is derived from each request.
func WithPublicBaseURL(base string) Option {
	return func(s *Server) {
		s.publicBaseURL = strings.TrimRight(base, "/")
	}
}

// WithMaxUploadSize overrides DefaultMaxUploadSize.
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithTheme passes a theme config to every render.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// Server handles the form page, submissions and file access.
type Server struct {
	form          model.FormModel
	renderer      render.Renderer
	predictor     Predictor
	files         afero.Fs
	uploadDir     string
	mediaDir      string
	publicBaseURL string
	maxUpload     int64
	theme         *theme.RendererConfig
	logger        logger.Logger
}

// New builds a Server for one form.
func New(form model.FormModel, renderer render.Renderer, predictor Predictor, options ...Option) (*Server, error) {
	if renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	if predictor == nil {
		return nil, errors.New("server: predictor is required")
	}
	s := &Server{
		form:      form,
		renderer:  renderer,
		predictor: predictor,
		files:     afero.NewOsFs(),
		uploadDir: filepath.Join(os.TempDir(), "cogform", "uploads"),
		maxUpload: DefaultMaxUploadSize,
		logger:    logger.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Handler returns the routes:
//
//	GET  /             form page
//	POST /predict      multipart or urlencoded submission, HTML result
//	POST /api/predict  JSON submission, JSON result
//	GET  /file=<path>  uploaded inputs and materialized outputs
//	GET  /healthz      liveness
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /api/predict", s.handleAPIPredict)
	mux.HandleFunc("GET /", s.handleRoot)
	return s.logRequests(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/":
		s.renderPage(w, r, http.StatusOK, render.RenderOptions{})
	case strings.HasPrefix(r.URL.Path, filePrefix):
		s.handleFile(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, options render.RenderOptions) {
	options.Action = "/predict"
	if options.Theme == nil {
		options.Theme = s.theme
	}
	page, err := s.renderer.Render(r.Context(), s.form, options)
	if err != nil {
		s.logger.Error("render form", "error", err)
		http.Error(w, fmt.Sprintf("render form: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(page)
}

// baseURL is what the container uses to fetch uploaded inputs back.
func (s *Server) baseURL(r *http.Request) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
