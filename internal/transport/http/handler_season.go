package httptransport

import (
	"net/http"

	appsession "optimistic-arena/internal/app/session"

	"github.com/go-chi/chi/v5"
)

type SeasonHandlers struct {
	svc *appsession.Service
}

func NewSeasonHandlers(svc *appsession.Service) *SeasonHandlers {
	return &SeasonHandlers{svc: svc}
}

func (h *SeasonHandlers) Standings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := ParseLimit(r, 50)
		items, err := h.svc.Standings(r.Context(), limit)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"season_id": h.svc.SeasonID(),
			"items":     items,
			"limit":     limit,
		})
	}
}

func (h *SeasonHandlers) Player() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "player_id")
		xp, err := h.svc.Balance(r.Context(), playerID)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"season_id": h.svc.SeasonID(),
			"player_id": playerID,
			"xp":        xp,
		})
	}
}
