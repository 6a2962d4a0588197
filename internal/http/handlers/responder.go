package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/games-api/internal/app/games"
	"github.com/preston-bernstein/games-api/internal/http/middleware"
	"github.com/preston-bernstein/games-api/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, logger *slog.Logger, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", logger)
}

// writeMessages writes the {"errors": [...]} body used for rejected input.
func writeMessages(w http.ResponseWriter, status int, messages []string, logger *slog.Logger) {
	writeJSON(w, status, map[string][]string{"errors": messages}, logger)
}

// writeServiceError maps a service failure onto its HTTP status.
// Only validation failures carry a body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	logger := loggerFromContext(r, fallback)
	kind := games.KindOf(err)
	switch kind {
	case games.KindValidation:
		messages := []string{}
		if svcErr, ok := games.AsError(err); ok {
			messages = svcErr.Messages
		}
		logging.Debug(logger, "rejected invalid request", "errors", strings.Join(messages, "; "))
		writeMessages(w, http.StatusBadRequest, messages, logger)
		return
	case games.KindService:
		logging.Error(logger, "games service failure", err)
	default:
		logging.Info(logger, "request refused", "kind", kind.String(), "err", err.Error())
	}
	w.WriteHeader(statusFor(kind))
}

func statusFor(kind games.Kind) int {
	switch kind {
	case games.KindValidation:
		return http.StatusBadRequest
	case games.KindUnauthorised:
		return http.StatusUnauthorized
	case games.KindNotFound:
		return http.StatusNotFound
	case games.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
