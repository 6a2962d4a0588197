package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/preston-bernstein/games-api/internal/app/games"
	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
	"github.com/preston-bernstein/games-api/internal/http/requestutil"
	"github.com/preston-bernstein/games-api/internal/logging"
)

const (
	gamesPath   = "/games"
	gamesPrefix = "/games/"

	maxBodyBytes = 1 << 20
)

// GameService is the subset of the games service the HTTP layer depends on.
type GameService interface {
	GetByID(ctx context.Context, id string) (domaingames.Game, error)
	CreateGame(ctx context.Context, game domaingames.Game, developer string) (domaingames.Game, error)
	ListAllGames(ctx context.Context, startIndex, itemsPerPage string) (domaingames.Page, error)
	UpdateGame(ctx context.Context, game domaingames.Game, id, developer string) error
	DeleteGame(ctx context.Context, id, developer string) error
}

// Handler wires HTTP routes to the games service.
type Handler struct {
	svc     GameService
	logger  *slog.Logger
	readyFn func() bool
}

// NewHandler constructs a Handler. A nil readyFn reports ready unconditionally.
func NewHandler(svc GameService, logger *slog.Logger, readyFn func() bool) *Handler {
	return &Handler{
		svc:     svc,
		logger:  logger,
		readyFn: readyFn,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == gamesPath:
		h.Games(w, r)
	case strings.HasPrefix(r.URL.Path, gamesPrefix):
		h.Game(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet)
		return
	}
	if h.readyFn == nil || h.readyFn() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, "developer directory not loaded", h.logger)
}

// Games serves the collection: GET lists a page, POST creates a game.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.Method {
	case nethttp.MethodGet:
		h.listGames(w, r)
	case nethttp.MethodPost:
		h.createGame(w, r)
	default:
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet, nethttp.MethodPost)
	}
}

// Game serves a single game by id: GET, PUT and DELETE.
func (h *Handler) Game(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := requestutil.PathID(r, gamesPrefix)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	switch r.Method {
	case nethttp.MethodGet:
		h.getGame(w, r, id)
	case nethttp.MethodPut:
		h.updateGame(w, r, id)
	case nethttp.MethodDelete:
		h.deleteGame(w, r, id)
	default:
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet, nethttp.MethodPut, nethttp.MethodDelete)
	}
}

func (h *Handler) getGame(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	game, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

func (h *Handler) createGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, ok := h.decodeGame(w, r)
	if !ok {
		return
	}
	developer := requestutil.Developer(r)
	created, err := h.svc.CreateGame(r.Context(), game, developer)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "game created",
		logging.FieldGameID, created.ID,
		logging.FieldDeveloper, developer,
	)
	w.Header().Set("Location", gamesPrefix+url.PathEscape(created.ID))
	w.WriteHeader(nethttp.StatusCreated)
}

func (h *Handler) listGames(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	page, err := h.svc.ListAllGames(r.Context(), q.Get("start-index"), q.Get("items-per-page"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if len(page.Items) == 0 {
		w.WriteHeader(nethttp.StatusNotFound)
		return
	}
	logging.Debug(loggerFromContext(r, h.logger), "served games page",
		"start_index", page.StartIndex,
		logging.FieldCount, len(page.Items),
	)
	writeJSON(w, nethttp.StatusOK, page, h.logger)
}

func (h *Handler) updateGame(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	game, ok := h.decodeGame(w, r)
	if !ok {
		return
	}
	if err := h.svc.UpdateGame(r.Context(), game, id, requestutil.Developer(r)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *Handler) deleteGame(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	if err := h.svc.DeleteGame(r.Context(), id, requestutil.Developer(r)); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "game deleted", logging.FieldGameID, id)
	w.WriteHeader(nethttp.StatusNoContent)
}

// decodeGame reads a single JSON game from the body. On failure it writes a 400 and returns false.
func (h *Handler) decodeGame(w nethttp.ResponseWriter, r *nethttp.Request) (domaingames.Game, bool) {
	var game domaingames.Game
	body := nethttp.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&game); err != nil {
		writeMessages(w, nethttp.StatusBadRequest, []string{decodeMessage(err)}, h.logger)
		return domaingames.Game{}, false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeMessages(w, nethttp.StatusBadRequest, []string{"request body must contain a single JSON object"}, h.logger)
		return domaingames.Game{}, false
	}
	return game, true
}

func decodeMessage(err error) string {
	var maxErr *nethttp.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &maxErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	default:
		return "invalid request body: " + err.Error()
	}
}

var _ GameService = (*games.Service)(nil)
