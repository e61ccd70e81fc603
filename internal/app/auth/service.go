package auth

import (
	"context"
	"errors"

	jwtauth "blackjack-casino/internal/auth"
	"blackjack-casino/internal/config"
	"blackjack-casino/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const uniqueViolation = "23505"

type Service struct {
	store *store.Store
	cfg   config.AuthConfig
	game  config.GameConfig
}

func NewService(st *store.Store, authCfg config.AuthConfig, gameCfg config.GameConfig) *Service {
	return &Service{store: st, cfg: authCfg, game: gameCfg}
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates the user and its starter-funded wallet in one unit of
// work and returns a fresh access token.
func (s *Service) Register(ctx context.Context, username, password string) (*Token, error) {
	if len(username) < 3 || len(username) > 50 || len(password) < 8 {
		return nil, ErrInvalidRequest
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)
	txStore := s.store.WithTx(tx)

	u, err := txStore.CreateUserWithWallet(ctx, username, string(hash), s.game.StartingBalance)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID).Str("username", username).Msg("user registered")
	return s.mintToken(u.ID)
}

// Login verifies the credentials and returns an access token. Unknown user
// and bad password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.mintToken(u.ID)
}

func (s *Service) mintToken(userID string) (*Token, error) {
	token, err := jwtauth.NewToken(userID, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}
