package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appwallet "blackjack-casino/internal/app/wallet"
	"blackjack-casino/internal/store"
)

type WalletHandlers struct {
	svc *appwallet.Service
}

func NewWalletHandlers(svc *appwallet.Service) *WalletHandlers {
	return &WalletHandlers{svc: svc}
}

type walletResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

func (h *WalletHandlers) Balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		wallet, err := h.svc.Balance(r.Context(), userID)
		if err != nil {
			writeWalletError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(walletResponse{UserID: wallet.UserID, Balance: wallet.Balance})
	}
}

func (h *WalletHandlers) Deposit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		wallet, err := h.svc.Deposit(r.Context(), userID, body.Amount)
		if err != nil {
			writeWalletError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(walletResponse{UserID: wallet.UserID, Balance: wallet.Balance})
	}
}

func (h *WalletHandlers) Entries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		limit, offset := ParsePagination(r)
		entries, err := h.svc.Entries(r.Context(), userID, limit, offset)
		if err != nil {
			writeWalletError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"entries": entries})
	}
}

func writeWalletError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appwallet.ErrInvalidAmount):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
