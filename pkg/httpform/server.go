// Package httpform serves the registration form over HTTP. Every request runs
// against a fresh in-memory page, so the same engine that validates in the
// browser decides what the server renders.
package httpform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/present"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/widget"
)

const (
	defaultTitle       = "Registration"
	defaultSubmitLabel = "Register"
	defaultSuccessText = "You have been registered successfully."
	shutdownTimeout    = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTemplates replaces the embedded templates. The filesystem must hold
// PageTemplate.
func WithTemplates(fsys fs.FS) Option {
	return func(s *Server) {
		if fsys != nil {
			s.templates = fsys
		}
	}
}

// WithTitle overrides the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		if title != "" {
			s.title = title
		}
	}
}

// Server hosts the form.
type Server struct {
	cfg       config.Config
	store     store.Store
	logger    *slog.Logger
	templates fs.FS
	page      *pongo2.Template
	classes   present.ClassNames
	title     string
	router    *gin.Engine

	// registerMu serializes registrations across requests.
	registerMu sync.Mutex
}

// New builds a server persisting into st.
func New(cfg config.Config, st store.Store, opts ...Option) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("httpform: store is required")
	}
	s := &Server{
		cfg:       cfg,
		store:     st,
		logger:    ctxlog.Discard(),
		templates: TemplatesFS(),
		title:     defaultTitle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	page, err := loadPage(s.templates)
	if err != nil {
		return nil, err
	}
	s.page = page

	classes, err := cfg.ClassNames()
	if err != nil {
		return nil, err
	}
	s.classes = classes

	s.configRoutes()
	return s, nil
}

// Handler returns the gin router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) configRoutes() {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.GET("/", s.showForm)
	router.POST("/", s.submitForm)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/register", s.registerJSON)
		api.GET("/users", s.listUsers)
	}

	s.router = router
}

// requestLogger attaches the server logger to the request context and logs
// each request once it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), s.logger))
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) showForm(c *gin.Context) {
	w, err := s.build(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, w)
}

func (s *Server) submitForm(c *gin.Context) {
	values := make(map[string]string, len(s.cfg.Form.Fields))
	for _, field := range s.cfg.Form.Fields {
		values[field.ID] = c.PostForm(field.ID)
	}

	w, outcome, err := s.process(c.Request.Context(), values)
	if err != nil && w == nil {
		s.fail(c, err)
		return
	}
	s.render(c, statusFor(outcome), w)
}

type registerRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

type registerResponse struct {
	Outcome string              `json:"outcome"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Notices []string            `json:"notices,omitempty"`
}

func (s *Server) registerJSON(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	w, outcome, err := s.process(c.Request.Context(), req.Values)
	if err != nil && w == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := registerResponse{
		Outcome: outcome.String(),
		Notices: w.Page.Document.Alerts(),
	}
	for _, field := range s.cfg.Form.Fields {
		if messages := w.Messages(field.ID); len(messages) > 0 {
			if resp.Errors == nil {
				resp.Errors = make(map[string][]string)
			}
			resp.Errors[field.ID] = messages
		}
	}

	status := statusFor(outcome)
	if outcome == engine.OutcomeRegistered {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (s *Server) listUsers(c *gin.Context) {
	wf := registration.New(s.store, s.cfg.RegistrationOptions()...)
	users, err := wf.Users(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	c.JSON(http.StatusOK, gin.H{"users": emails})
}

func (s *Server) build(ctx context.Context) (*widget.Widget, error) {
	return widget.Build(s.cfg, s.store,
		widget.WithScheduler(clientScheduler{}),
		widget.WithLocker(&s.registerMu),
		widget.WithLogger(ctxlog.FromContextOr(ctx, s.logger)),
	)
}

// process fills a fresh page with values and submits it. A non-nil widget is
// returned whenever the page could be built, even if the submit failed.
func (s *Server) process(ctx context.Context, values map[string]string) (*widget.Widget, engine.Outcome, error) {
	w, err := s.build(ctx)
	if err != nil {
		return nil, engine.OutcomeFailed, err
	}
	w.Page.Fill(values)

	outcome, err := w.Engine.Submit(ctx)
	if err != nil {
		ctxlog.FromContextOr(ctx, s.logger).Error("submit failed", "error", err)
	}
	return w, outcome, err
}

type fieldView struct {
	ID        string
	Label     string
	Type      string
	Value     string
	Required  bool
	Title     string
	Pattern   string
	MinLength int
	MaxLength int
	Invalid   bool
	Errors    string
}

func (s *Server) render(c *gin.Context, status int, w *widget.Widget) {
	fields := make([]fieldView, 0, len(s.cfg.Form.Fields))
	for _, field := range s.cfg.Form.Fields {
		in := w.Input(field.ID)
		if in == nil {
			continue
		}
		messages := w.Messages(field.ID)
		view := fieldView{
			ID:        field.ID,
			Label:     field.DisplayLabel(),
			Type:      inputType(field),
			Required:  field.Required,
			Title:     field.Title,
			Pattern:   field.Pattern,
			MinLength: field.MinLength,
			MaxLength: field.MaxLength,
			Invalid:   in.AriaInvalid() || len(messages) > 0,
		}
		if !field.Secret() {
			view.Value = in.Value()
		}
		if region := in.ErrorRegion(); region != nil {
			view.Errors = region.InnerHTML()
		}
		fields = append(fields, view)
	}

	out, err := s.page.Execute(pongo2.Context{
		"locale":         s.cfg.Messages.Locale,
		"title":          s.title,
		"action":         c.Request.URL.Path,
		"fields":         fields,
		"notices":        w.Page.Document.Alerts(),
		"classes":        s.classes,
		"overlayID":      s.cfg.Overlay.ElementID,
		"overlayVisible": w.Overlay.Visible(),
		"dismissAfterMs": s.cfg.Overlay.DismissAfter.Milliseconds(),
		"submitLabel":    defaultSubmitLabel,
		"successText":    defaultSuccessText,
	})
	if err != nil {
		s.fail(c, fmt.Errorf("httpform: render: %w", err))
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(out))
}

func (s *Server) fail(c *gin.Context, err error) {
	ctxlog.FromContextOr(c.Request.Context(), s.logger).Error("request failed", "error", err)
	c.String(http.StatusInternalServerError, "internal error")
}

func statusFor(outcome engine.Outcome) int {
	switch outcome {
	case engine.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case engine.OutcomeDuplicate:
		return http.StatusConflict
	case engine.OutcomeFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func inputType(field config.Field) string {
	if field.Type == "" {
		return "text"
	}
	return field.Type
}

// clientScheduler drops dismissal callbacks: the rendered page hides the
// overlay itself after the configured delay.
type clientScheduler struct{}

func (clientScheduler) AfterFunc(time.Duration, func()) {}
