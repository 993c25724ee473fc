package httptransport

import (
	"encoding/json"
	"net/http"

	appsession "optimistic-arena/internal/app/session"

	"github.com/go-chi/chi/v5"
)

type SessionHandlers struct {
	svc *appsession.Service
}

func NewSessionHandlers(svc *appsession.Service) *SessionHandlers {
	return &SessionHandlers{svc: svc}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := MapArenaError(err)
	WriteHTTPError(w, status, code)
}

func (h *SessionHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			HostID     string `json:"host_id"`
			MaxPlayers int    `json:"max_players"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		sessionID := h.svc.CreateSession(body.HostID, body.MaxPlayers)
		WriteJSON(w, http.StatusCreated, map[string]any{"session_id": sessionID})
	}
}

func (h *SessionHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.svc.View(chi.URLParam(r, "session_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, view)
	}
}

func (h *SessionHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.svc.JoinSession(chi.URLParam(r, "session_id"), body.PlayerID); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *SessionHandlers) StartRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started, err := h.svc.StartRound(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, started)
	}
}

func (h *SessionHandlers) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID string `json:"player_id"`
			Text     string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.svc.SubmitAnswer(chi.URLParam(r, "session_id"), body.PlayerID, body.Text); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *SessionHandlers) Vote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			VoterID  string `json:"voter_id"`
			TargetID string `json:"target_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := h.svc.Vote(chi.URLParam(r, "session_id"), body.VoterID, body.TargetID); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *SessionHandlers) Propose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposal, err := h.svc.ProposeScores(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, proposal)
	}
}

func (h *SessionHandlers) Verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tolerance *int `json:"tolerance"`
		}
		if err := decodeOptionalJSON(r, &body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tolerance := h.svc.Options().DefaultTolerance
		if body.Tolerance != nil {
			tolerance = *body.Tolerance
		}
		report, err := h.svc.CommitteeVerify(r.Context(), chi.URLParam(r, "session_id"), tolerance)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

func (h *SessionHandlers) Challenge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ChallengerID string `json:"challenger_id"`
			TargetID     string `json:"target_id"`
			Bond         int64  `json:"bond"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		appeal, err := h.svc.ChallengeScore(chi.URLParam(r, "session_id"), body.ChallengerID, body.TargetID, body.Bond)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, appeal)
	}
}

func (h *SessionHandlers) ResolveAppeals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.svc.ResolveAppeals(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func (h *SessionHandlers) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			HumanWeight *float64 `json:"human_weight"`
			AIWeight    *float64 `json:"ai_weight"`
		}
		if err := decodeOptionalJSON(r, &body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		opts := h.svc.Options()
		hw, aw := opts.HumanWeight, opts.AIWeight
		if body.HumanWeight != nil {
			hw = *body.HumanWeight
		}
		if body.AIWeight != nil {
			aw = *body.AIWeight
		}
		fin, err := h.svc.FinalizeRound(r.Context(), chi.URLParam(r, "session_id"), hw, aw)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, fin)
	}
}
