package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/sman1jakarta/portal/internal/domain/settings"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

// healthHandler answers liveness probes. With checks configured it also
// reports readiness and answers 503 when any check fails.
func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if r.Method != http.MethodHead {
				_, _ = io.WriteString(w, `{"status":"ok"}`)
			}
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		status, code := "ok", http.StatusOK
		results := make(map[string]string, len(checks))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
				results[name] = "unavailable"
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		WriteJSON(w, code, map[string]any{"status": status, "checks": results})
	}
}

// PublicSettings serves the school profile to page scripts.
// GET /api/settings.
func (h *UIHandlers) PublicSettings(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Settings.Current())
}

// PatchSettings merges a partial profile update and returns the result.
// PATCH /admin/api/settings.
func (h *UIHandlers) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var p settings.Patch
	if !DecodeJSON(w, r, &p) {
		return
	}
	if p.IsEmpty() {
		WriteJSON(w, http.StatusOK, h.Settings.Current())
		return
	}
	updated, err := h.applySettings(r, p)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// ExportJSON returns the site export, projected by the optional JMESPath query.
// GET /admin/api/export?query=<expr>.
func (h *UIHandlers) ExportJSON(w http.ResponseWriter, r *http.Request) {
	out, err := h.Export.Export(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		if StatusForError(err) == http.StatusInternalServerError {
			h.logger().ErrorContext(r.Context(), "export failed", "error", err)
		}
		WriteAppError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `inline; filename="portal-export.json"`)
	WriteJSON(w, http.StatusOK, out)
}
