package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/user/linkstats/internal/apierror"
	"github.com/user/linkstats/internal/delivery/http/request"
	"github.com/user/linkstats/internal/delivery/http/response"
	"github.com/user/linkstats/internal/entity"
	"github.com/user/linkstats/internal/usecase"
	"github.com/user/linkstats/pkg/archive"
)

const (
	workspaceParam  = "workspaceId"
	workspaceHeader = "X-Workspace-Id"
	pageParam       = "page"

	healthCheckTimeout = 2 * time.Second
)

type ctxKey struct{}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	scope    usecase.ScopeResolver
	exporter usecase.Exporter
	selector usecase.DomainSelector
	pingers  map[string]Pinger
}

func NewHandler(scope usecase.ScopeResolver, exporter usecase.Exporter, selector usecase.DomainSelector, pingers map[string]Pinger) *Handler {
	return &Handler{
		scope:    scope,
		exporter: exporter,
		selector: selector,
		pingers:  pingers,
	}
}

// RequireWorkspace loads the workspace named by the workspaceId query
// parameter or the X-Workspace-Id header into the request context.
func (h *Handler) RequireWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get(workspaceParam)
		if id == "" {
			id = r.Header.Get(workspaceHeader)
		}

		ws, err := h.scope.ResolveWorkspace(r.Context(), id)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, ws)))
	})
}

func workspaceFrom(ctx context.Context) *entity.Workspace {
	ws, _ := ctx.Value(ctxKey{}).(*entity.Workspace)
	return ws
}

// HandleExport streams a zip archive with one CSV per analytics endpoint.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	if ws == nil {
		h.writeError(w, r, apierror.New(apierror.CodeUnauthorized, "Workspace not resolved."))
		return
	}

	q, err := request.ParseAnalyticsQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	link, err := h.scope.ResolveLink(r.Context(), ws, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	files, err := h.exporter.Export(r.Context(), usecase.ExportInput{Workspace: ws, Link: link, Query: q})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data, err := archive.Zip(files)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+usecase.ExportFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write export archive", "workspace_id", ws.ID, "error", err)
	}
}

// HandleDomainSelector returns the domain filter state for the page in the
// `page` parameter, or for the request itself. No content when the workspace
// has no domains.
func (h *Handler) HandleDomainSelector(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	if ws == nil {
		h.writeError(w, r, apierror.New(apierror.CodeUnauthorized, "Workspace not resolved."))
		return
	}

	page := r.URL
	if raw := r.URL.Query().Get(pageParam); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.IsAbs() {
			h.writeError(w, r, apierror.New(apierror.CodeBadRequest, "page must be a relative URL."))
			return
		}
		page = parsed
	}

	selection, err := h.selector.Select(r.Context(), ws, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if selection == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewDomainSelectorResponse(selection))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := make(response.HealthResponse, len(h.pingers))
	healthy := true
	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			status[name] = "unhealthy"
			healthy = false
			slog.Error("Health check failed", "dependency", name, "error", err)
			continue
		}
		status[name] = "healthy"
	}

	if !healthy {
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// writeError renders API errors with their own status. Anything else is
// logged and hidden behind a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := apierror.As(err)
	if !ok {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		apiErr = apierror.New(apierror.CodeInternalServerError,
			"An internal server error occurred. Please try again later.")
	}
	h.writeJSON(w, apiErr.Status(), response.ErrorResponse{
		Error: response.ErrorBody{Code: string(apiErr.Code), Message: apiErr.Message},
	})
}
