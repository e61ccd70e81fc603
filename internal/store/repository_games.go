package store

import "context"

const gameColumns = `id, user_id, bet_amount, player_hand, dealer_hand, status, is_over, created_at, settled_at`

func (s *Store) CreateGame(ctx context.Context, g *Game) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO blackjack_games (id, user_id, bet_amount, player_hand, dealer_hand, status, is_over, settled_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING created_at`,
		g.ID, g.UserID, g.BetAmount, g.PlayerHand, g.DealerHand, g.Status, g.IsOver, g.SettledAt)
	return row.Scan(&g.CreatedAt)
}

func (s *Store) GetGameByID(ctx context.Context, id string) (*Game, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM blackjack_games WHERE id = $1`, id)
	return scanGame(row)
}

// GetActiveGameByUserID returns the user's single non-terminal game, or
// ErrNotFound when none exists.
func (s *Store) GetActiveGameByUserID(ctx context.Context, userID string) (*Game, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM blackjack_games WHERE user_id = $1 AND NOT is_over`, userID)
	return scanGame(row)
}

func (s *Store) UpdateGame(ctx context.Context, g *Game) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE blackjack_games SET player_hand = $1, dealer_hand = $2, status = $3, is_over = $4, settled_at = $5 WHERE id = $6`,
		g.PlayerHand, g.DealerHand, g.Status, g.IsOver, g.SettledAt, g.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListGamesByUserID(ctx context.Context, userID string, limit, offset int) ([]Game, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+gameColumns+` FROM blackjack_games WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Game{}
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.UserID, &g.BetAmount, &g.PlayerHand, &g.DealerHand, &g.Status, &g.IsOver, &g.CreatedAt, &g.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	if err := row.Scan(&g.ID, &g.UserID, &g.BetAmount, &g.PlayerHand, &g.DealerHand, &g.Status, &g.IsOver, &g.CreatedAt, &g.SettledAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &g, nil
}
