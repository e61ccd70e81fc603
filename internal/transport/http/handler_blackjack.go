package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appblackjack "blackjack-casino/internal/app/blackjack"
	"blackjack-casino/internal/game/viewmodel"
	"blackjack-casino/internal/store"

	"github.com/go-chi/chi/v5"
)

type BlackjackHandlers struct {
	svc *appblackjack.Service
}

func NewBlackjackHandlers(svc *appblackjack.Service) *BlackjackHandlers {
	return &BlackjackHandlers{svc: svc}
}

func (h *BlackjackHandlers) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			BetAmount float64 `json:"bet_amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		g, err := h.svc.Start(r.Context(), userID, body.BetAmount)
		if err != nil {
			writeBlackjackError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(viewmodel.BuildGameView(g))
	}
}

func (h *BlackjackHandlers) Hit() http.HandlerFunc {
	return h.action(func(r *http.Request, userID, gameID string) (*store.Game, error) {
		return h.svc.Hit(r.Context(), userID, gameID)
	})
}

func (h *BlackjackHandlers) Stand() http.HandlerFunc {
	return h.action(func(r *http.Request, userID, gameID string) (*store.Game, error) {
		return h.svc.Stand(r.Context(), userID, gameID)
	})
}

func (h *BlackjackHandlers) Game() http.HandlerFunc {
	return h.action(func(r *http.Request, userID, gameID string) (*store.Game, error) {
		return h.svc.Game(r.Context(), userID, gameID)
	})
}

// action factors out the shared shape of the per-game endpoints: resolve the
// caller, run the operation, render the player-visible view.
func (h *BlackjackHandlers) action(op func(r *http.Request, userID, gameID string) (*store.Game, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		g, err := op(r, userID, chi.URLParam(r, "game_id"))
		if err != nil {
			writeBlackjackError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(viewmodel.BuildGameView(g))
	}
}

func (h *BlackjackHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		limit, offset := ParsePagination(r)
		games, err := h.svc.History(r.Context(), userID, limit, offset)
		if err != nil {
			writeBlackjackError(w, err)
			return
		}
		views := make([]viewmodel.GameView, 0, len(games))
		for i := range games {
			views = append(views, viewmodel.BuildGameView(&games[i]))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"games": views})
	}
}

func writeBlackjackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appblackjack.ErrInvalidBet):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_bet")
	case errors.Is(err, appblackjack.ErrGameInProgress):
		WriteHTTPError(w, http.StatusConflict, "game_in_progress")
	case errors.Is(err, appblackjack.ErrInsufficientFunds):
		WriteHTTPError(w, http.StatusBadRequest, "insufficient_funds")
	case errors.Is(err, appblackjack.ErrInvalidGameState):
		WriteHTTPError(w, http.StatusConflict, "invalid_game_state")
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
