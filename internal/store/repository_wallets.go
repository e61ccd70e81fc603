package store

import "context"

// GetWalletByUserID is the unlocked read used for display. Never base a
// mutation decision on it.
func (s *Store) GetWalletByUserID(ctx context.Context, userID string) (*Wallet, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, user_id, balance, updated_at FROM wallets WHERE user_id = $1`, userID)
	var w Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &w, nil
}

// GetWalletByUserIDForUpdate takes the row lock that serializes all wallet
// and game mutations for one user. Must run on a transaction-bound store;
// the lock is held until that transaction commits or rolls back.
func (s *Store) GetWalletByUserIDForUpdate(ctx context.Context, userID string) (*Wallet, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, user_id, balance, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	var w Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &w, nil
}

// ApplyWalletDelta adjusts the balance and appends the matching wallet entry,
// returning the new balance. Sufficiency checks belong to the caller; this is
// storage, not policy.
func (s *Store) ApplyWalletDelta(ctx context.Context, userID string, delta float64, entryType, refType, refID string) (float64, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE wallets SET balance = balance + $1, updated_at = now() WHERE user_id = $2 RETURNING balance`,
		delta, userID)
	var balance float64
	if err := row.Scan(&balance); err != nil {
		return 0, mapNotFound(err)
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO wallet_entries (id, user_id, type, amount, ref_type, ref_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		NewID(), userID, entryType, delta, refType, refID); err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *Store) ListWalletEntries(ctx context.Context, userID string, limit, offset int) ([]WalletEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, type, amount, ref_type, ref_id, created_at
		 FROM wallet_entries WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WalletEntry{}
	for rows.Next() {
		var e WalletEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
