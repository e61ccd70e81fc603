package store

import "context"

// CreateUserWithWallet inserts the user, an initially funded wallet, and the
// starting-credit ledger entry. Run it on a transaction-bound store so all
// three rows commit or roll back together.
func (s *Store) CreateUserWithWallet(ctx context.Context, username, passwordHash string, startingBalance float64) (*User, error) {
	u := &User{ID: NewID(), Username: username, PasswordHash: passwordHash}
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1,$2,$3) RETURNING created_at`,
		u.ID, u.Username, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO wallets (id, user_id, balance) VALUES ($1,$2,$3)`,
		NewID(), u.ID, startingBalance); err != nil {
		return nil, err
	}
	if startingBalance > 0 {
		if _, err := s.db.Exec(ctx,
			`INSERT INTO wallet_entries (id, user_id, type, amount, ref_type, ref_id) VALUES ($1,$2,'starting_credit',$3,'user',$4)`,
			NewID(), u.ID, startingBalance, u.ID); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}
