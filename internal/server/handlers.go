package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mikelobato/qloudsound-api/internal/models"
	"github.com/mikelobato/qloudsound-api/internal/services"
	"github.com/mikelobato/qloudsound-api/internal/shared"
	"golang.org/x/time/rate"
)

const (
	serviceName      = "qloudsound-api"
	docsURL          = "https://github.com/mikelobato/qloudsound-api"
	publicSitePrefix = "/public-site"
)

// Service holds the dependencies of the HTTP handlers and builds the
// routed, middleware-wrapped entry point.
type Service struct {
	version     string
	origins     []string
	limiter     *rate.Limiter
	submissions models.SubmissionStore
	catalog     models.CatalogStore
	notifier    services.Notifier
	logger      *log.Logger
}

// ServiceOpts contains configuration options for creating a Service.
type ServiceOpts struct {
	Version           string
	AllowedOrigins    []string
	RequestsPerSecond float64
	Submissions       models.SubmissionStore
	Catalog           models.CatalogStore
	Notifier          services.Notifier
	Logger            *log.Logger
}

// NewService creates a Service with the provided options.
func NewService(opts ServiceOpts) *Service {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Service{
		version:     opts.Version,
		origins:     opts.AllowedOrigins,
		limiter:     limiter,
		submissions: opts.Submissions,
		catalog:     opts.Catalog,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
	}
}

// Handler builds the route table and wraps it with the middleware stack.
// CORS is outermost so preflights and error responses carry the headers.
func (s *Service) Handler() http.Handler {
	router := NewBasicRouter()

	router.Handle(http.MethodGet, "/", http.HandlerFunc(s.handleInfo))
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(s.handleHealth))
	router.Handle(http.MethodGet, publicSitePrefix, http.HandlerFunc(s.handlePublicSiteInfo))
	router.Handle(http.MethodGet, publicSitePrefix+"/health", http.HandlerFunc(s.handlePublicSiteHealth))
	router.Handle(http.MethodGet, publicSitePrefix+"/catalog", http.HandlerFunc(s.handleCatalog))
	router.Handle(http.MethodPost, publicSitePrefix+"/requests",
		Throttle(s.limiter)(http.HandlerFunc(s.handleSubmit)))

	router.Use(
		CORS(s.origins),
		Recover(s.logger),
		RequestLogger(s.logger),
	)

	return router.Handler()
}

func (s *Service) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"service":  serviceName,
		"version":  s.version,
		"docs":     docsURL,
		"hostname": r.Host,
	}, http.StatusOK)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":    "ok",
		"timestamp": shared.Now(),
	}, http.StatusOK)
}

func (s *Service) handlePublicSiteInfo(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	writeJSON(w, map[string]string{
		"service": serviceName + ":public-site",
		"version": s.version,
		"submit":  fmt.Sprintf("%s://%s%s/requests", scheme, r.Host, publicSitePrefix),
	}, http.StatusOK)
}

func (s *Service) handlePublicSiteHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":    "ok",
		"scope":     "public-site",
		"timestamp": shared.Now(),
	}, http.StatusOK)
}

func (s *Service) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.List(models.CatalogPublished)
	if err != nil {
		s.logger.Error("catalog listing failed", "error", err)
		writeError(w, "internal_error", "could not load the catalog", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []*models.CatalogEntry{}
	}

	writeJSON(w, map[string]any{"tracks": entries}, http.StatusOK)
}

// submissionPayload is the intake form body. The website field is a
// honeypot: humans never see it, bots fill it.
type submissionPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Style       string `json:"style"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
	Website     string `json:"website"`
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "invalid_submission", "could not read the request body", http.StatusBadRequest)
		return
	}

	var payload submissionPayload
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			writeError(w, "invalid_submission", "request body is not valid JSON", http.StatusBadRequest)
			return
		}
	}

	if strings.TrimSpace(payload.Website) != "" {
		writeError(w, "invalid_submission", "", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(payload.Name)
	email := strings.TrimSpace(payload.Email)
	style := strings.TrimSpace(payload.Style)

	if name == "" || email == "" || style == "" {
		writeError(w, "missing_required_fields", "name, email and style are mandatory", http.StatusBadRequest)
		return
	}

	submission := &models.Submission{
		ID:          shared.GenerateID(),
		Name:        name,
		Email:       email,
		Style:       style,
		Description: strings.TrimSpace(payload.Description),
		Filename:    strings.TrimSpace(payload.Filename),
		CreatedAt:   shared.FormatTime(time.Now()),
		Status:      models.StatusPending,
	}

	if err := s.submissions.Save(submission); err != nil {
		s.logger.Error("submission persist failed", "error", err)
		writeError(w, "storage_error", "No se pudo guardar la solicitud, intenta nuevamente.", http.StatusInternalServerError)
		return
	}

	if err := s.catalog.Save(models.DerivedCatalogEntry(submission)); err != nil {
		s.logger.Error("catalog persist failed", "error", err)
		writeError(w, "storage_error", "No se pudo guardar la solicitud, intenta nuevamente.", http.StatusInternalServerError)
		return
	}

	// advisory only: a failed notification never changes the response
	if s.notifier != nil {
		if err := s.notifier.Notify(r.Context(), submission, "Guardado en SQLite"); err != nil {
			s.logger.Error("telegram notify failed", "error", err)
		}
	}

	writeJSON(w, map[string]any{"ok": true, "id": submission.ID}, http.StatusOK)
}
