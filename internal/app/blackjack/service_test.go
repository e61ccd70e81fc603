package blackjack

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blackjack-casino/internal/game"
	"blackjack-casino/internal/store"
	"blackjack-casino/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *store.Store, context.Context, func()) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t)
	return NewService(st), st, context.Background(), cleanup
}

func scriptDraw(t *testing.T, ranks ...game.Rank) game.DrawFunc {
	t.Helper()
	i := 0
	return func() game.Rank {
		if i >= len(ranks) {
			t.Fatalf("draw script exhausted after %d cards", len(ranks))
		}
		r := ranks[i]
		i++
		return r
	}
}

// cycleDraw is safe for concurrent use and never runs out.
func cycleDraw(ranks ...game.Rank) game.DrawFunc {
	var mu sync.Mutex
	i := 0
	return func() game.Rank {
		mu.Lock()
		defer mu.Unlock()
		r := ranks[i%len(ranks)]
		i++
		return r
	}
}

func mustUser(t *testing.T, st *store.Store, ctx context.Context, username string, balance float64) *store.User {
	t.Helper()
	u, err := st.CreateUserWithWallet(ctx, username, "x", balance)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mustBalance(t *testing.T, st *store.Store, ctx context.Context, userID string) float64 {
	t.Helper()
	w, err := st.GetWalletByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w.Balance
}

func TestStartNaturalBlackjackSettlesImmediately(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "alice", 1000)
	svc.draw = scriptDraw(t, game.Ace, game.King, game.Nine, game.Five)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if g.Status != game.StatusBlackjack || !g.IsOver {
		t.Fatalf("status = %q is_over = %v, want blackjack settled", g.Status, g.IsOver)
	}
	if g.SettledAt == nil {
		t.Fatal("settled_at not set")
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 1150 {
		t.Fatalf("balance = %v, want 1000-100+250 = 1150", bal)
	}

	// Settled on creation, so no active game remains.
	if _, err := st.GetActiveGameByUserID(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no active game, got %v", err)
	}
}

func TestStartDebitsBetAndDealsTwoCards(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "bob", 1000)
	svc.draw = scriptDraw(t, game.Ten, game.Seven, game.Nine, game.Five)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if g.Status != game.StatusActive || g.IsOver {
		t.Fatalf("unexpected status %q is_over %v", g.Status, g.IsOver)
	}
	if len(g.PlayerHand) != 2 || len(g.DealerHand) != 2 {
		t.Fatalf("hands = %v / %v, want 2 cards each", g.PlayerHand, g.DealerHand)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 900 {
		t.Fatalf("balance = %v, want 900", bal)
	}

	entries, err := st.ListWalletEntries(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Type != "bet_debit" || entries[0].RefID != g.ID {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestStartRejectsSecondActiveGame(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "carol", 1000)
	svc.draw = cycleDraw(game.Ten, game.Seven, game.Nine, game.Five)

	if _, err := svc.Start(ctx, u.ID, 100); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := svc.Start(ctx, u.ID, 100); !errors.Is(err, ErrGameInProgress) {
		t.Fatalf("expected ErrGameInProgress, got %v", err)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 900 {
		t.Fatalf("balance = %v, want a single debit (900)", bal)
	}
}

func TestStartInsufficientFunds(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "dave", 50)
	svc.draw = scriptDraw(t)

	if _, err := svc.Start(ctx, u.ID, 100); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 50 {
		t.Fatalf("balance = %v, want untouched 50", bal)
	}
	if _, err := st.GetActiveGameByUserID(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no game created, got %v", err)
	}
}

func TestStartInvalidBet(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "erin", 1000)

	for _, bet := range []float64{0, -10} {
		if _, err := svc.Start(ctx, u.ID, bet); !errors.Is(err, ErrInvalidBet) {
			t.Fatalf("bet %v: expected ErrInvalidBet, got %v", bet, err)
		}
	}
}

func TestStartUnknownUser(t *testing.T) {
	svc, _, ctx, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.Start(ctx, "missing", 100); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing wallet, got %v", err)
	}
}

func TestHitToBustSettlesAsDealerWin(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "frank", 1000)
	svc.draw = scriptDraw(t, game.Nine, game.Nine, game.Ten, game.Eight, game.Nine)

	g, err := svc.Start(ctx, u.ID, 200)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g, err = svc.Hit(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if game.Score(g.PlayerHand) != 27 {
		t.Fatalf("player score = %d, want 27", game.Score(g.PlayerHand))
	}
	if g.Status != game.StatusDealerWin || !g.IsOver {
		t.Fatalf("status = %q is_over = %v, want dealer_win settled", g.Status, g.IsOver)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 800 {
		t.Fatalf("balance = %v, want 800 (bet lost, no payout)", bal)
	}
}

func TestHitBelowBustKeepsGameActive(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "grace", 1000)
	svc.draw = scriptDraw(t, game.Five, game.Six, game.Ten, game.Eight, game.Four)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g, err = svc.Hit(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("hit: %v", err)
	}
	if g.IsOver || g.Status != game.StatusActive {
		t.Fatalf("game settled early: %q", g.Status)
	}
	if len(g.PlayerHand) != 3 {
		t.Fatalf("player hand = %v, want 3 cards", g.PlayerHand)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 900 {
		t.Fatalf("balance = %v, want 900 (no settlement yet)", bal)
	}
}

func TestStandPlayerWinPaysDouble(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "heidi", 1000)
	svc.draw = scriptDraw(t, game.Ten, game.Ten, game.Ten, game.Seven)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g, err = svc.Stand(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	if g.Status != game.StatusPlayerWin || !g.IsOver {
		t.Fatalf("status = %q, want player_win", g.Status)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 1100 {
		t.Fatalf("balance = %v, want 1000-100+200 = 1100", bal)
	}
}

func TestStandDealerDrawsToSeventeen(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "ivan", 1000)
	// Player 19; dealer 12 draws a five and stands at 17.
	svc.draw = scriptDraw(t, game.Ten, game.Nine, game.Ten, game.Two, game.Five)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g, err = svc.Stand(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	if len(g.DealerHand) != 3 || game.Score(g.DealerHand) != 17 {
		t.Fatalf("dealer hand = %v (%d), want 3 cards scoring 17", g.DealerHand, game.Score(g.DealerHand))
	}
	if g.Status != game.StatusPlayerWin {
		t.Fatalf("status = %q, want player_win", g.Status)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 1100 {
		t.Fatalf("balance = %v, want 1100", bal)
	}
}

func TestStandPushReturnsBet(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "judy", 1000)
	svc.draw = scriptDraw(t, game.Ten, game.Eight, game.Nine, game.Nine)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g, err = svc.Stand(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	if g.Status != game.StatusPush {
		t.Fatalf("status = %q, want push", g.Status)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 1000 {
		t.Fatalf("balance = %v, want bet returned (1000)", bal)
	}
}

func TestHitAndStandOnSettledGame(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "kate", 1000)
	svc.draw = scriptDraw(t, game.Ten, game.Ten, game.Ten, game.Seven)

	g, err := svc.Start(ctx, u.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	g, err = svc.Stand(ctx, u.ID, g.ID)
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	settled := *g
	balance := mustBalance(t, st, ctx, u.ID)

	if _, err := svc.Hit(ctx, u.ID, g.ID); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("hit on settled game: expected ErrInvalidGameState, got %v", err)
	}
	if _, err := svc.Stand(ctx, u.ID, g.ID); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("stand on settled game: expected ErrInvalidGameState, got %v", err)
	}

	// Zero side effects: hands, status, and balance unchanged.
	got, err := st.GetGameByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if len(got.PlayerHand) != len(settled.PlayerHand) || len(got.DealerHand) != len(settled.DealerHand) || got.Status != settled.Status {
		t.Fatalf("settled game mutated: %+v", got)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != balance {
		t.Fatalf("balance changed from %v to %v", balance, bal)
	}
}

func TestHitForeignGame(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	owner := mustUser(t, st, ctx, "liam", 1000)
	other := mustUser(t, st, ctx, "mallory", 1000)
	svc.draw = cycleDraw(game.Ten, game.Seven, game.Nine, game.Five)

	g, err := svc.Start(ctx, owner.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Hit(ctx, other.ID, g.ID); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("expected ErrInvalidGameState for foreign game, got %v", err)
	}
}

func TestHitUnknownGame(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "nina", 1000)

	if _, err := svc.Hit(ctx, u.ID, store.NewID()); !errors.Is(err, ErrInvalidGameState) {
		t.Fatalf("expected ErrInvalidGameState, got %v", err)
	}
}

func TestConcurrentStartsDebitOnce(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	// Enough for one bet only.
	u := mustUser(t, st, ctx, "oscar", 150)
	svc.draw = cycleDraw(game.Ten, game.Seven, game.Nine, game.Five)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(ctx, u.ID, 100)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrGameInProgress), errors.Is(err, ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("ok = %d rejected = %d, want exactly one of each", ok, rejected)
	}
	if bal := mustBalance(t, st, ctx, u.ID); bal != 50 {
		t.Fatalf("balance = %v, want exactly one debit (50)", bal)
	}
	if _, err := st.GetActiveGameByUserID(ctx, u.ID); err != nil {
		t.Fatalf("expected one active game, got %v", err)
	}
}

func TestGameOwnershipOnRead(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	owner := mustUser(t, st, ctx, "peggy", 1000)
	other := mustUser(t, st, ctx, "quinn", 1000)
	svc.draw = cycleDraw(game.Ten, game.Seven, game.Nine, game.Five)

	g, err := svc.Start(ctx, owner.ID, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Game(ctx, owner.ID, g.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Game(ctx, other.ID, g.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign read, got %v", err)
	}
}

func TestHistoryListsSettledGames(t *testing.T) {
	svc, st, ctx, cleanup := newTestService(t)
	defer cleanup()
	u := mustUser(t, st, ctx, "rachel", 1000)
	svc.draw = cycleDraw(game.Ten, game.Eight, game.Nine, game.Nine)

	for i := 0; i < 2; i++ {
		g, err := svc.Start(ctx, u.ID, 50)
		if err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		if _, err := svc.Stand(ctx, u.ID, g.ID); err != nil {
			t.Fatalf("stand %d: %v", i, err)
		}
	}

	games, err := svc.History(ctx, u.ID, 10, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("history length = %d, want 2", len(games))
	}
	for _, g := range games {
		if !g.IsOver {
			t.Fatalf("history contains unsettled game: %+v", g)
		}
	}
}
