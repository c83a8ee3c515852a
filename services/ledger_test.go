package services

import (
	"testing"
	"time"

	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
)

type ledgerFixture struct {
	store  *fileStore
	ledger *LedgerService
	now    time.Time
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store, err := openFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("openFileStore: %v", err)
	}

	// A Wednesday; the week boundary is Monday June 2nd.
	f := &ledgerFixture{
		store: store,
		now:   time.Date(2025, 6, 4, 12, 0, 0, 0, time.Local),
	}
	f.ledger = &LedgerService{backend: store, now: func() time.Time { return f.now }}
	return f
}

// touchPlayer creates the record and pins its reset stamp to the fixture
// clock, so boundary checks only see injected time.
func (f *ledgerFixture) touchPlayer(t *testing.T, id string) {
	t.Helper()

	if _, err := f.store.GetOrCreatePlayer(id, id); err != nil {
		t.Fatalf("GetOrCreatePlayer: %v", err)
	}
	_, err := f.store.MutatePlayer(id, func(p *model.Player) error {
		p.LastWeeklyReset = f.now
		return nil
	})
	if err != nil {
		t.Fatalf("MutatePlayer: %v", err)
	}
}

func TestRecordGameOutcomeAccumulates(t *testing.T) {
	f := newLedgerFixture(t)

	if err := f.ledger.RecordGameOutcome("u1", "alice", true, 65, 5, 3); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}
	if err := f.ledger.RecordGameOutcome("u1", "alice", false, 0, 8, 2); err != nil {
		t.Fatalf("second RecordGameOutcome: %v", err)
	}

	player, _ := f.store.FindPlayer("u1")
	if player.WeeklyPoints != 65 || player.LifetimePoints != 65 {
		t.Fatalf("points: weekly=%d lifetime=%d", player.WeeklyPoints, player.LifetimePoints)
	}
	if player.GamesPlayed != 2 || player.GamesWon != 1 {
		t.Fatalf("games: played=%d won=%d", player.GamesPlayed, player.GamesWon)
	}
	if player.LettersGuessed != 13 || player.CorrectGuesses != 5 {
		t.Fatalf("guesses: total=%d correct=%d", player.LettersGuessed, player.CorrectGuesses)
	}
}

func TestSpendChecksWeeklyBalance(t *testing.T) {
	f := newLedgerFixture(t)

	if err := f.ledger.RecordGameOutcome("u1", "alice", true, 100, 4, 4); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}

	if _, err := f.ledger.Spend("u1", 150); !shared.IsCode(err, shared.ErrInsufficientFunds) {
		t.Fatalf("expected INSUFFICIENT_FUNDS, got %v", err)
	}

	player, err := f.ledger.Spend("u1", 60)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if player.WeeklyPoints != 40 {
		t.Fatalf("expected 40 remaining, got %d", player.WeeklyPoints)
	}

	// Lifetime points are a scoreboard, not a wallet.
	if player.LifetimePoints != 100 {
		t.Fatalf("lifetime points touched by spend: %d", player.LifetimePoints)
	}
}

func TestLazyWeeklyResetOnTouch(t *testing.T) {
	f := newLedgerFixture(t)
	f.touchPlayer(t, "u1")

	if err := f.ledger.RecordGameOutcome("u1", "alice", true, 100, 4, 4); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}

	// Jump past the next Monday boundary.
	f.now = f.now.AddDate(0, 0, 7)

	if _, err := f.ledger.Spend("u1", 50); !shared.IsCode(err, shared.ErrInsufficientFunds) {
		t.Fatalf("expected empty balance after boundary, got %v", err)
	}

	player, err := f.ledger.GetProfile("u1", "alice")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if player.WeeklyPoints != 0 {
		t.Fatalf("weekly balance not reset: %d", player.WeeklyPoints)
	}
	if player.LifetimePoints != 100 {
		t.Fatalf("lifetime wiped by weekly reset: %d", player.LifetimePoints)
	}
}

func TestSetActiveCosmetic(t *testing.T) {
	f := newLedgerFixture(t)

	if _, err := f.store.SeedShopItems(model.DefaultCatalog()); err != nil {
		t.Fatalf("SeedShopItems: %v", err)
	}
	if _, err := f.store.GetOrCreatePlayer("u1", "alice"); err != nil {
		t.Fatalf("GetOrCreatePlayer: %v", err)
	}

	// Not owned yet.
	if _, err := f.ledger.SetActiveCosmetic("u1", shared.CategoryPrefix, "prefix_champ"); !shared.IsCode(err, shared.ErrForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}

	if _, err := f.ledger.GrantOwnership("u1", "prefix_champ"); err != nil {
		t.Fatalf("GrantOwnership: %v", err)
	}
	if _, err := f.ledger.GrantOwnership("u1", "theme_midnight"); err != nil {
		t.Fatalf("GrantOwnership theme: %v", err)
	}

	player, err := f.ledger.SetActiveCosmetic("u1", shared.CategoryPrefix, "prefix_champ")
	if err != nil {
		t.Fatalf("SetActiveCosmetic: %v", err)
	}
	if player.ActivePrefix == nil || *player.ActivePrefix != "prefix_champ" {
		t.Fatalf("prefix not equipped: %+v", player.ActivePrefix)
	}

	// Wrong category for the item.
	if _, err := f.ledger.SetActiveCosmetic("u1", shared.CategoryTheme, "prefix_champ"); !shared.IsCode(err, shared.ErrValidation) {
		t.Fatalf("expected VALIDATION for category mismatch, got %v", err)
	}

	// Badges and emoji aren't equippable slots.
	if _, err := f.ledger.SetActiveCosmetic("u1", shared.CategoryBadge, "badge_founder"); !shared.IsCode(err, shared.ErrValidation) {
		t.Fatalf("expected VALIDATION for badge slot, got %v", err)
	}

	// Clearing the slot.
	player, err = f.ledger.SetActiveCosmetic("u1", shared.CategoryPrefix, "")
	if err != nil {
		t.Fatalf("clear slot: %v", err)
	}
	if player.ActivePrefix != nil {
		t.Fatalf("prefix not cleared: %v", *player.ActivePrefix)
	}
}

func TestGrantOwnershipRejectsDuplicates(t *testing.T) {
	f := newLedgerFixture(t)

	if _, err := f.store.GetOrCreatePlayer("u1", "alice"); err != nil {
		t.Fatalf("GetOrCreatePlayer: %v", err)
	}
	if _, err := f.ledger.GrantOwnership("u1", "prefix_champ"); err != nil {
		t.Fatalf("GrantOwnership: %v", err)
	}
	if _, err := f.ledger.GrantOwnership("u1", "prefix_champ"); !shared.IsCode(err, shared.ErrAlreadyOwned) {
		t.Fatalf("expected ALREADY_OWNED, got %v", err)
	}
}

func TestLeaderboardRanking(t *testing.T) {
	f := newLedgerFixture(t)

	seedOutcomes := []struct {
		id     string
		points int
		won    bool
		games  int
	}{
		{"u1", 50, true, 6},
		{"u2", 120, true, 6},
		{"u3", 80, false, 6},
	}
	for _, s := range seedOutcomes {
		for i := 0; i < s.games; i++ {
			points := 0
			if i == 0 {
				points = s.points
			}
			if err := f.ledger.RecordGameOutcome(s.id, s.id, s.won, points, 3, 2); err != nil {
				t.Fatalf("RecordGameOutcome %s: %v", s.id, err)
			}
		}
	}

	rows, err := f.ledger.Leaderboard(PeriodWeekly, 10, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Player.ID != "u2" || rows[1].Player.ID != "u3" || rows[2].Player.ID != "u1" {
		t.Fatalf("unexpected weekly order: %s %s %s", rows[0].Player.ID, rows[1].Player.ID, rows[2].Player.ID)
	}

	// Win rate board: u3 never won, ranks below the winners.
	rows, err = f.ledger.Leaderboard(PeriodWinRate, 10, 0)
	if err != nil {
		t.Fatalf("winrate Leaderboard: %v", err)
	}
	if rows[len(rows)-1].Player.ID != "u3" {
		t.Fatalf("expected u3 last by win rate, got %s", rows[len(rows)-1].Player.ID)
	}

	if _, err := f.ledger.Leaderboard("monthly", 10, 0); !shared.IsCode(err, shared.ErrValidation) {
		t.Fatalf("expected VALIDATION for unknown period, got %v", err)
	}
}

func TestWinRateLeaderboardThreshold(t *testing.T) {
	f := newLedgerFixture(t)

	// u1 plays 6 games, u2 only 3; both win everything.
	for i := 0; i < 6; i++ {
		if err := f.ledger.RecordGameOutcome("u1", "alice", true, 10, 2, 2); err != nil {
			t.Fatalf("RecordGameOutcome u1: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := f.ledger.RecordGameOutcome("u2", "bob", true, 10, 2, 2); err != nil {
			t.Fatalf("RecordGameOutcome u2: %v", err)
		}
	}

	// Default threshold hides the three-game player.
	rows, err := f.ledger.Leaderboard(PeriodWinRate, 10, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 1 || rows[0].Player.ID != "u1" {
		t.Fatalf("expected only u1 at default threshold, got %+v", rows)
	}

	// Lowering the threshold ranks both.
	rows, err = f.ledger.Leaderboard(PeriodWinRate, 10, 3)
	if err != nil {
		t.Fatalf("Leaderboard min 3: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows at threshold 3, got %d", len(rows))
	}
}

func TestLifetimeLeaderboardKeepsZeroPointPlayers(t *testing.T) {
	f := newLedgerFixture(t)

	if err := f.ledger.RecordGameOutcome("u1", "alice", true, 50, 3, 3); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}
	// u2 registered but never scored.
	if _, err := f.store.GetOrCreatePlayer("u2", "bob"); err != nil {
		t.Fatalf("GetOrCreatePlayer: %v", err)
	}

	rows, err := f.ledger.Leaderboard(PeriodLifetime, 10, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Player.ID != "u2" || rows[1].Score != 0 {
		t.Fatalf("expected zero-point u2 ranked last, got %+v", rows[1])
	}
}

func TestLeaderboardLimit(t *testing.T) {
	f := newLedgerFixture(t)

	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		if err := f.ledger.RecordGameOutcome(id, id, true, 10, 2, 2); err != nil {
			t.Fatalf("RecordGameOutcome: %v", err)
		}
	}

	rows, err := f.ledger.Leaderboard(PeriodLifetime, 2, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestLeaderboardIgnoresStaleWeeklyBalances(t *testing.T) {
	f := newLedgerFixture(t)
	f.touchPlayer(t, "u1")

	if err := f.ledger.RecordGameOutcome("u1", "alice", true, 100, 3, 3); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}

	// A week later the unreset balance must not leak into the board.
	f.now = f.now.AddDate(0, 0, 7)

	rows, err := f.ledger.Leaderboard(PeriodWeekly, 10, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("stale weekly balance surfaced: %+v", rows)
	}
}
