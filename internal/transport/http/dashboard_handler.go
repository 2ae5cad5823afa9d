package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "nbadash/internal/errors"
	"nbadash/internal/exporter"
	mw "nbadash/internal/middleware"
	"nbadash/internal/services"
	"nbadash/internal/store"
)

// DashboardHandler serves the player, compare, game, leader and archive views
type DashboardHandler struct {
	service      DashboardServiceInterface
	queries      *mw.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, queries *mw.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		queries:      queries,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes, mounted under /api
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/players", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.SearchPlayers)
		r.Route("/{name}", func(r chi.Router) {
			r.Use(h.PlayerCtx)
			r.With(render.SetContentType(render.ContentTypeJSON)).Get("/chart", h.PlayerChart)
			r.With(render.SetContentType(render.ContentTypeJSON)).Get("/bio", h.PlayerBio)
			r.Get("/export", h.ExportWindow)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/compare", h.ComparePlayers)
		r.Get("/games/{gameID}", h.GameDetail)

		r.Get("/leaders", h.LeaderBoards)
		r.Get("/leaders/{category}", h.Leaders)

		r.Route("/archive", func(r chi.Router) {
			r.Get("/players", h.ArchivePlayers)
			r.With(h.PlayerCtx).Get("/players/{name}/games", h.ArchiveGames)
		})
	})

	return r
}

type playerKey struct{}

// PlayerCtx middleware decodes and validates the {name} path parameter
func (h *DashboardHandler) PlayerCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "name")
		name, err := url.PathUnescape(raw)
		if err != nil {
			name = raw
		}
		name = strings.TrimSpace(name)

		if name == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Player name is required"))
			return
		}
		if len(name) > 100 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Player name is too long"))
			return
		}

		ctx := context.WithValue(r.Context(), playerKey{}, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerFrom(r *http.Request) string {
	name, _ := r.Context().Value(playerKey{}).(string)
	return name
}

// serviceError maps dashboard service errors to API errors. Errors the
// service does not define pass through for the error handler to classify.
func (h *DashboardHandler) serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrPlayerNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, "PLAYER_NOT_FOUND", "Player not found", err.Error())
	case errors.Is(err, services.ErrGameNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, "GAME_NOT_FOUND", "Game not found", err.Error())
	case errors.Is(err, services.ErrUnknownCategory):
		return apierrors.ErrValidation("category", err.Error())
	case errors.Is(err, services.ErrArchiveDisabled):
		return apierrors.New(http.StatusNotFound, "NOT_FOUND", "Game archive is not configured")
	default:
		return err
	}
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	level := slog.LevelError
	if errors.Is(err, services.ErrPlayerNotFound) || errors.Is(err, services.ErrGameNotFound) ||
		errors.Is(err, apierrors.ErrAppValidation) {
		level = slog.LevelInfo
	}
	h.logger.Log(r.Context(), level, op+" failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	h.errorHandler.HandleError(w, r, h.serviceError(err))
}

// SearchPlayers handles GET /api/players?q=&limit=
func (h *DashboardHandler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	var q searchQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	players, err := h.service.SearchPlayers(r.Context(), q.Term, q.Limit)
	if err != nil {
		h.fail(w, r, "player search", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   players,
		"count":  len(players),
	})
}

// PlayerChart handles GET /api/players/{name}/chart?season=&count=
func (h *DashboardHandler) PlayerChart(w http.ResponseWriter, r *http.Request) {
	var q windowQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.PlayerChart(r.Context(), playerFrom(r), q.selection())
	if err != nil {
		h.fail(w, r, "player chart", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// PlayerBio handles GET /api/players/{name}/bio
func (h *DashboardHandler) PlayerBio(w http.ResponseWriter, r *http.Request) {
	bio, err := h.service.PlayerBio(r.Context(), playerFrom(r))
	if err != nil {
		h.fail(w, r, "player bio", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   bio,
	})
}

// ExportWindow handles GET /api/players/{name}/export?season=&count=&format=
func (h *DashboardHandler) ExportWindow(w http.ResponseWriter, r *http.Request) {
	var q exportQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, err := exporter.ParseFormat(q.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	export, err := h.service.PrepareExport(r.Context(), playerFrom(r), q.selection())
	if err != nil {
		h.fail(w, r, "export", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format)))
	w.WriteHeader(http.StatusOK)

	if err := h.service.WriteExport(w, format, export); err != nil {
		// headers are already sent
		h.logger.ErrorContext(r.Context(), "export write failed",
			slog.String("error", err.Error()),
			slog.String("player", export.Player),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		return
	}

	h.logger.InfoContext(r.Context(), "export served",
		slog.String("player", export.Player),
		slog.String("format", string(format)),
		slog.Int("rows", len(export.Rows)),
	)
}

// ComparePlayers handles GET /api/compare?a=&b=&season=&count=
func (h *DashboardHandler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	var q compareQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.ComparePlayers(r.Context(), q.A, q.B, q.selection())
	if err != nil {
		h.fail(w, r, "compare", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// GameDetail handles GET /api/games/{gameID}
func (h *DashboardHandler) GameDetail(w http.ResponseWriter, r *http.Request) {
	gameID := strings.TrimSpace(chi.URLParam(r, "gameID"))
	if gameID == "" || len(gameID) > 32 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("gameID", "Invalid game id"))
		return
	}

	game, err := h.service.GameDetail(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, "game detail", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   game,
	})
}

// LeaderBoards handles GET /api/leaders?limit=
func (h *DashboardHandler) LeaderBoards(w http.ResponseWriter, r *http.Request) {
	var q leadersQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	boards, err := h.service.LeaderBoards(r.Context(), q.Limit)
	if err != nil {
		h.fail(w, r, "leader boards", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":     "success",
		"data":       boards,
		"count":      len(boards),
		"categories": h.service.Categories(),
	})
}

// Leaders handles GET /api/leaders/{category}?limit=
func (h *DashboardHandler) Leaders(w http.ResponseWriter, r *http.Request) {
	var q leadersQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	board, err := h.service.Leaders(r.Context(), chi.URLParam(r, "category"), q.Limit)
	if err != nil {
		h.fail(w, r, "leaders", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   board,
		"count":  len(board.Entries),
	})
}

// ArchivePlayers handles GET /api/archive/players
func (h *DashboardHandler) ArchivePlayers(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ArchivePlayers(r.Context())
	if err != nil {
		h.fail(w, r, "archive players", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   names,
		"count":  len(names),
	})
}

// ArchiveGames handles GET /api/archive/players/{name}/games?limit=&vs=&stat=&order=
func (h *DashboardHandler) ArchiveGames(w http.ResponseWriter, r *http.Request) {
	var q archiveGamesQuery
	if err := h.queries.Decode(r, &q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	games, err := h.service.ArchiveGames(r.Context(), store.Query{
		Name:   playerFrom(r),
		Limit:  q.Limit,
		VsTeam: q.VsTeam,
		Stat:   q.Stat,
		Order:  strings.ToUpper(q.Order),
	})
	if err != nil {
		h.fail(w, r, "archive games", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   games,
		"count":  len(games),
	})
}
