// Package httpapi exposes the link engine over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/httpx"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

// HTTPCreateLinkRequest is the JSON form for creating a link. TTL is kept as
// text so an unparsable value falls back to the default lifetime.
type HTTPCreateLinkRequest struct {
	URL  string `json:"url"`
	Slug string `json:"slug,omitempty"`
	TTL  string `json:"ttl,omitempty"`
}

// HTTPEventRequest is posted by the authentication layer.
type HTTPEventRequest struct {
	User    string `json:"user"`
	Action  string `json:"action"`
	Details string `json:"details,omitempty"`
}

// LinkResponse describes a stored link.
type LinkResponse struct {
	ID          string           `json:"id"`
	Slug        string           `json:"slug"`
	ShortURL    string           `json:"short_url"`
	Destination string           `json:"destination"`
	CreatedAt   string           `json:"created_at"`
	ExpiresAt   string           `json:"expires_at"`
	TTLMinutes  int              `json:"ttl_minutes"`
	Status      shortener.Status `json:"status,omitempty"`
}

// LogEntryResponse is one row of the activity view.
type LogEntryResponse struct {
	Seq     int64            `json:"seq"`
	Time    string           `json:"time"`
	User    string           `json:"user"`
	Action  shortener.Action `json:"action"`
	Details string           `json:"details"`
}

// Handler provides HTTP handlers for the link engine.
type Handler struct {
	service     shortener.Service
	logger      *slog.Logger
	fallbackURL string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service     shortener.Service
	Logger      *slog.Logger
	FallbackURL string // where failed redirects land, with ?error=not_found|expired
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fallback := cfg.FallbackURL
	if fallback == "" {
		fallback = "/"
	}

	return &Handler{
		service:     cfg.Service,
		logger:      logger,
		fallbackURL: fallback,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"principal", httpx.GetPrincipal(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// requirePrincipal writes 401 and returns "" for anonymous callers.
func requirePrincipal(w http.ResponseWriter, r *http.Request) string {
	user := httpx.GetPrincipal(r.Context())
	if user == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
			"sign in to manage short links", nil)
	}
	return user
}

// CreateLink handles POST /api/links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	owner := requirePrincipal(w, r)
	if owner == "" {
		return
	}

	req, err := decodeCreateLink(r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	link, err := h.service.CreateLink(ctx, shortener.CreateLinkRequest{
		Owner:         owner,
		Destination:   req.URL,
		CandidateSlug: req.Slug,
		TTLMinutesRaw: req.TTL,
	})
	if err != nil {
		h.handleCreateError(ctx, logger, w, err, req)
		return
	}

	logger.InfoContext(ctx, "link created",
		"slug", link.Slug,
		"custom_slug", req.Slug != "",
		"ttl_minutes", link.TTLMinutes,
	)

	httpx.WriteJSON(w, http.StatusCreated, toLinkResponse(link.Link, link.ShortURL, ""))
}

// decodeCreateLink accepts the JSON body or the url-encoded shorten form.
func decodeCreateLink(r *http.Request) (HTTPCreateLinkRequest, error) {
	if !httpx.IsForm(r) {
		return httpx.DecodeJSON[HTTPCreateLinkRequest](r)
	}
	form, err := httpx.DecodeForm(r, "url", "slug", "ttl")
	if err != nil {
		return HTTPCreateLinkRequest{}, err
	}
	return HTTPCreateLinkRequest{URL: form["url"], Slug: form["slug"], TTL: form["ttl"]}, nil
}

// ResolveLink handles GET /s/{slug}.
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	slug := r.PathValue("slug")

	destination, err := h.service.Resolve(ctx, slug)
	if err != nil {
		h.handleResolveError(ctx, logger, w, r, err, slug)
		return
	}

	logger.InfoContext(ctx, "slug resolved",
		"slug", slug,
		"referer", r.Referer(),
	)

	httpx.Redirect(w, r, destination, http.StatusFound)
}

// ListLinks handles GET /api/links.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner := requirePrincipal(w, r)
	if owner == "" {
		return
	}

	views, err := h.service.ListLinks(ctx, owner)
	if err != nil {
		h.writeServiceError(ctx, h.requestLogger(r), w, err, "unable to list links")
		return
	}

	resp := make([]LinkResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toLinkResponse(v.Link, v.ShortURL, v.Status))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// RecentActivity handles GET /api/logs?limit=N.
func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner := requirePrincipal(w, r)
	if owner == "" {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer", nil)
			return
		}
		limit = n
	}

	entries, err := h.service.RecentActivity(ctx, owner, limit)
	if err != nil {
		h.writeServiceError(ctx, h.requestLogger(r), w, err, "unable to load activity")
		return
	}

	resp := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, LogEntryResponse{
			Seq:     e.Seq,
			Time:    e.Time.UTC().Format(time.RFC3339),
			User:    e.User,
			Action:  e.Action,
			Details: e.Details,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// RecordEvent handles POST /api/events.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[HTTPEventRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := h.service.RecordEvent(ctx, req.User, shortener.Action(req.Action), req.Details); err != nil {
		h.writeServiceError(ctx, logger, w, err, "unable to record event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateError echoes the submitted form back in details so the caller
// can re-prompt with the user's input intact.
func (h *Handler) handleCreateError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, form HTTPCreateLinkRequest) {
	logAttrs := httpx.ErrorAttrs(err)

	switch errx.KindOf(err) {
	case errx.Conflict:
		logger.WarnContext(ctx, "slug conflict", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "conflict",
			"This slug is already taken", form)

	case errx.Invalid:
		logger.WarnContext(ctx, "invalid link request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), form)

	default:
		h.writeServiceError(ctx, logger, w, err, "Unable to create short link at this time. Please try again.")
	}
}

// handleResolveError sends a browser to the fallback view for the two
// outcomes a visitor can act on; anything else is a server error.
func (h *Handler) handleResolveError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, slug string) {
	logAttrs := httpx.ErrorAttrs(err, "slug", slug)

	switch errx.KindOf(err) {
	case errx.NotFound:
		logger.WarnContext(ctx, "slug not found", logAttrs...)
		httpx.Redirect(w, r, h.fallback("not_found"), http.StatusSeeOther)

	case errx.Gone:
		logger.InfoContext(ctx, "slug expired", logAttrs...)
		httpx.Redirect(w, r, h.fallback("expired"), http.StatusSeeOther)

	default:
		h.writeServiceError(ctx, logger, w, err, "Unable to resolve this link at this time")
	}
}

func (h *Handler) writeServiceError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, message string) {
	status, code := httpx.StatusOf(err)

	// Store failures never reach the response body; client errors do.
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", httpx.ErrorAttrs(err)...)
	} else {
		logger.WarnContext(ctx, "request rejected", httpx.ErrorAttrs(err)...)
		message = err.Error()
	}

	httpx.WriteError(w, status, code, message, nil)
}

func (h *Handler) fallback(code string) string {
	u, err := url.Parse(h.fallbackURL)
	if err != nil {
		return "/?error=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	return u.String()
}

func toLinkResponse(link shortener.Link, shortURL string, status shortener.Status) LinkResponse {
	return LinkResponse{
		ID:          link.ID.String(),
		Slug:        link.Slug,
		ShortURL:    shortURL,
		Destination: link.Destination,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:   link.ValidUntil.UTC().Format(time.RFC3339),
		TTLMinutes:  link.TTLMinutes,
		Status:      status,
	}
}
