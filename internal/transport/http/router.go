package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	appauth "blackjack-casino/internal/app/auth"
	appblackjack "blackjack-casino/internal/app/blackjack"
	appwallet "blackjack-casino/internal/app/wallet"
	"blackjack-casino/internal/config"
	"blackjack-casino/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, cfg config.AppConfig) *chi.Mux {
	authSvc := appauth.NewService(st, cfg.Auth, cfg.Game)
	blackjackSvc := appblackjack.NewService(st)
	walletSvc := appwallet.NewService(st)

	authHandlers := NewAuthHandlers(authSvc)
	blackjackHandlers := NewBlackjackHandlers(blackjackSvc)
	walletHandlers := NewWalletHandlers(walletSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/auth/register", authHandlers.Register())
		r.Post("/auth/login", authHandlers.Login())

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Auth))

			r.Post("/blackjack/start", blackjackHandlers.Start())
			r.Get("/blackjack/history", blackjackHandlers.History())
			r.Get("/blackjack/{game_id}", blackjackHandlers.Game())
			r.Post("/blackjack/{game_id}/hit", blackjackHandlers.Hit())
			r.Post("/blackjack/{game_id}/stand", blackjackHandlers.Stand())

			r.Get("/wallet/me", walletHandlers.Balance())
			r.Post("/wallet/deposit", walletHandlers.Deposit())
			r.Get("/wallet/entries", walletHandlers.Entries())
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
