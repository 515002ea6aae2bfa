// Package server exposes one exploration session over HTTP as JSON, CSV, XLSX
// and PNG endpoints for a presentation shell.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/KaramelBytes/incidentscope-cli/internal/chart"
	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/labels"
	"github.com/KaramelBytes/incidentscope-cli/internal/report"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/KaramelBytes/incidentscope-cli/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Config controls the HTTP surface.
type Config struct {
	Addr           string
	MaxUploadBytes int64
	Timeout        time.Duration
	Report         report.Options
	Chart          chart.Size
	Load           dataset.Options
	Cache          *dataset.Cache
}

// Server owns a single session. Each interaction swaps in a new
// session.Context; handlers read the pointer under the lock and then work on
// the immutable snapshot.
type Server struct {
	cfg Config

	mu      sync.Mutex
	current *session.Context
	loadErr error
}

// New returns a server starting from initial (the sample when nil).
func New(cfg Config, initial *session.Context) *Server {
	if initial == nil {
		initial = session.Sample()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Report.PreviewMax <= 0 {
		cfg.Report = report.DefaultOptions()
	}
	if cfg.Chart.Width <= 0 {
		cfg.Chart.Width = 1024
	}
	if cfg.Chart.Height <= 0 {
		cfg.Chart.Height = 512
	}
	return &Server{cfg: cfg, current: initial}
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(zerologMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/dataset", s.handleUpload)
		r.Delete("/dataset", s.handleReset)
		r.Get("/session", s.handleSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/controls", s.handleControls)
			r.Put("/selection", s.handleSelection)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/views/{view}", s.handleView)
			r.Get("/records", s.handleRecords)
			r.Get("/export.csv", s.handleExport(dataset.DefaultExportName))
			r.Get("/export.xlsx", s.handleExport("filtered_incident_data.xlsx"))
			r.Get("/charts/{kind}.png", s.handleChart)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("serving incident dashboard API")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Current returns the session snapshot and the pending load failure, if any.
func (s *Server) Current() (*session.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loadErr
}

func (s *Server) replace(c *session.Context, loadErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
	s.loadErr = loadErr
}

// swap installs next only if the session is still prev.
func (s *Server) swap(prev, next *session.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != prev || s.loadErr != nil {
		return false
	}
	s.current = next
	return true
}

type ctxKey struct{}

// requireSession refuses view requests while the last upload is failed.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := s.Current()
		if err != nil || c == nil {
			msg := "no dataset loaded"
			if err != nil {
				msg = err.Error()
			}
			writeError(w, http.StatusConflict, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c)))
	})
}

func sessionFrom(r *http.Request) *session.Context {
	c, _ := r.Context().Value(ctxKey{}).(*session.Context)
	return c
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	name, content, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := session.Upload(name, content, s.cfg.Cache, s.cfg.Load)
	if err != nil {
		// A failed upload is a hard stop; the sample is not restored silently.
		s.replace(nil, err)
		log.Warn().Err(err).Str("file", name).Msg("upload rejected")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.replace(c, nil)
	writeJSON(w, http.StatusCreated, sessionInfo(c))
}

func readUpload(r *http.Request) (string, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("read form file: %w", err)
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("read upload: %w", err)
		}
		return hdr.Filename, content, nil
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		return "", nil, errors.New("missing ?name= for raw upload")
	}
	content, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return name, content, nil
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	c := session.Sample()
	s.replace(c, nil)
	writeJSON(w, http.StatusOK, sessionInfo(c))
}

type sessionPayload struct {
	ID           string               `json:"id,omitempty"`
	Revision     int                  `json:"revision"`
	Source       string               `json:"source,omitempty"`
	Sample       bool                 `json:"sample"`
	State        string               `json:"state"`
	Rows         int                  `json:"rows"`
	TotalRows    int                  `json:"total_rows"`
	Columns      []schema.FieldColumn `json:"fields,omitempty"`
	Unrecognized []string             `json:"unrecognized,omitempty"`
	Capabilities schema.Capabilities  `json:"capabilities"`
	Warnings     []string             `json:"warnings,omitempty"`
	Error        string               `json:"error,omitempty"`
}

func sessionInfo(c *session.Context) sessionPayload {
	raw := c.Raw()
	return sessionPayload{
		ID:           c.ID(),
		Revision:     c.Revision(),
		Source:       c.Source(),
		Sample:       c.IsSample(),
		State:        string(c.Result().State),
		Rows:         c.Working().Len(),
		TotalRows:    c.Table().Len(),
		Columns:      c.Capabilities().Fields(raw.Columns),
		Unrecognized: c.Capabilities().Unrecognized(raw.Columns),
		Capabilities: c.Capabilities(),
		Warnings:     c.Warnings(),
	}
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	c, err := s.Current()
	if err != nil || c == nil {
		p := sessionPayload{State: "load_failed"}
		if err != nil {
			p.Error = err.Error()
		}
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeJSON(w, http.StatusOK, sessionInfo(c))
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Controls())
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var body map[string][]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection body: "+err.Error())
		return
	}
	sel := filter.Selection{}
	for k, vals := range body {
		d, err := filter.ParseDimension(k)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sel[d] = vals
	}
	cur := sessionFrom(r)
	next := cur.WithSelection(sel)
	if !s.swap(cur, next) {
		writeError(w, http.StatusConflict, "session changed while applying the selection; retry")
		return
	}
	writeJSON(w, http.StatusOK, sessionInfo(next))
}

func (s *Server) reportOptions(r *http.Request) report.Options {
	opt := s.cfg.Report
	if lang := r.URL.Query().Get("lang"); lang != "" {
		opt.Labels = labels.For(lang)
	}
	return opt
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.Build(sessionFrom(r), s.reportOptions(r)))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	f := schema.Feature(chi.URLParam(r, "view"))
	if !report.IsView(f) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown view %q", f))
		return
	}
	writeJSON(w, http.StatusOK, report.BuildView(sessionFrom(r), f, s.reportOptions(r)))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	opt := s.reportOptions(r)
	if q := r.URL.Query().Get("n"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		opt.Records = n
	}
	writeJSON(w, http.StatusOK, report.BuildView(sessionFrom(r), schema.RecordBrowser, opt))
}

func (s *Server) handleExport(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := sessionFrom(r)
		if c.NoData() {
			writeError(w, http.StatusConflict, filter.ErrNoData.Error())
			return
		}
		t := c.Working()
		w.Header().Set("Content-Type", dataset.ContentType(name))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if err := dataset.Export(w, name, t.Columns, t.Rows()); err != nil {
			log.Error().Err(err).Str("file", name).Msg("export failed")
		}
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	var buf bytes.Buffer
	err := chart.Render(&buf, sessionFrom(r), kind, s.reportOptions(r), s.cfg.Chart)
	switch {
	case errors.Is(err, chart.ErrUnknownKind):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, chart.ErrUnavailable), errors.Is(err, chart.ErrTooFewPoints):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
