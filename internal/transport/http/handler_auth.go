package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appauth "blackjack-casino/internal/app/auth"
)

type AuthHandlers struct {
	svc *appauth.Service
}

func NewAuthHandlers(svc *appauth.Service) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

func (h *AuthHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tok, err := h.svc.Register(r.Context(), body.Username, body.Password)
		if err != nil {
			switch {
			case errors.Is(err, appauth.ErrInvalidRequest):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			case errors.Is(err, appauth.ErrUsernameTaken):
				WriteHTTPError(w, http.StatusConflict, "username_taken")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(tok)
	}
}

func (h *AuthHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tok, err := h.svc.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			if errors.Is(err, appauth.ErrInvalidCredentials) {
				WriteHTTPError(w, http.StatusUnauthorized, "invalid_credentials")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(tok)
	}
}
