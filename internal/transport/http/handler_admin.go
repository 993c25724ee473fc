package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	appsession "optimistic-arena/internal/app/session"

	"github.com/rs/zerolog/log"
)

// Pinger is a backing store that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	svc *appsession.Service
	db  Pinger
}

// NewAdminHandlers builds the admin handlers. db may be nil when XP lives in
// memory.
func NewAdminHandlers(svc *appsession.Service, db Pinger) *AdminHandlers {
	return &AdminHandlers{svc: svc, db: db}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db == nil {
			WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "memory"})
			return
		}
		if err := h.db.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check: db ping failed")
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) ResetSeason() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SeasonID string `json:"season_id"`
		}
		if err := decodeOptionalJSON(r, &body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		previous := h.svc.SeasonID()
		next := h.svc.ResetSeason(body.SeasonID)
		metricAdminResets.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "previous_season_id": previous, "season_id": next})
	}
}
