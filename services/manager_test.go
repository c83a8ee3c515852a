package services

import (
	"testing"
	"time"

	"github.com/guessworks/hangbot_api/dto"
	"github.com/guessworks/hangbot_api/shared"
)

func newManagerFixture(t *testing.T) (*GameManagerService, *gameFixture) {
	t.Helper()

	f := newGameFixture(t)
	shop := &ShopService{backend: f.store, ledgerSvc: f.ledger}
	scheduler := &WeeklyResetService{backend: f.store, now: f.clock}

	manager := &GameManagerService{
		gameSvc:      f.game,
		ledgerSvc:    f.ledger,
		shopSvc:      shop,
		schedulerSvc: scheduler,
	}
	return manager, f
}

func TestManagerHidesWordUntilTerminal(t *testing.T) {
	manager, f := newManagerFixture(t)

	game, err := manager.CreateGame("chan", &dto.CreateGameRequest{
		Word: "cat", UserID: "u1", Username: "alice",
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.Word != "" {
		t.Fatalf("word leaked on waiting game: %q", game.Word)
	}
	if game.Display != "_ _ _" {
		t.Fatalf("unexpected display: %q", game.Display)
	}

	if _, err := manager.JoinGame("chan", &dto.JoinGameRequest{UserID: "u2", Username: "bob"}); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if _, err := manager.StartGame("chan", &dto.StartGameRequest{UserID: "u1"}); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	fetched, err := manager.GetGame("chan")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if fetched.Word != "" {
		t.Fatalf("word leaked on active game: %q", fetched.Word)
	}

	ended, err := manager.EndGame("chan", &dto.EndGameRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	if ended.Word != "cat" {
		t.Fatalf("word missing on terminal game: %q", ended.Word)
	}
}

func TestManagerGuessResponseCarriesOutcome(t *testing.T) {
	manager, f := newManagerFixture(t)
	f.startedGame(t, "chan", "cat")

	resp, err := manager.MakeGuess("chan", &dto.GuessRequest{UserID: "u1", Username: "alice", Letter: "z"})
	if err != nil {
		t.Fatalf("MakeGuess: %v", err)
	}
	if resp.IsCorrect || resp.MistakeCount != 1 || resp.PointsPer != 0 {
		t.Fatalf("unexpected wrong-guess response: %+v", resp)
	}

	for _, letter := range []string{"c", "a"} {
		if _, err := manager.MakeGuess("chan", &dto.GuessRequest{UserID: "u2", Username: "bob", Letter: letter}); err != nil {
			t.Fatalf("guess %s: %v", letter, err)
		}
	}

	resp, err = manager.MakeGuess("chan", &dto.GuessRequest{UserID: "u1", Username: "alice", Letter: "t"})
	if err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if resp.State != shared.StateWon || resp.Display != "c a t" {
		t.Fatalf("unexpected win response: state=%s display=%q", resp.State, resp.Display)
	}

	// 130 base minus one mistake penalty, split two ways.
	if resp.PointsPer != 57 {
		t.Fatalf("expected 57 points per player, got %d", resp.PointsPer)
	}
}

func TestManagerLeaderboardMapping(t *testing.T) {
	manager, f := newManagerFixture(t)

	if err := f.ledger.RecordGameOutcome("u1", "alice", true, 90, 3, 3); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}
	if err := f.ledger.RecordGameOutcome("u2", "bob", true, 40, 3, 3); err != nil {
		t.Fatalf("RecordGameOutcome: %v", err)
	}

	board, err := manager.GetLeaderboard("weekly", 10, 0)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if board.Period != "weekly" || len(board.Entries) != 2 {
		t.Fatalf("unexpected board: %+v", board)
	}
	first := board.Entries[0]
	if first.UserID != "u1" || first.Rank != 1 || first.Points != 90 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
}

func TestManagerPurgeGamesDefaultsTo24Hours(t *testing.T) {
	manager, f := newManagerFixture(t)

	old := time.Now().Add(-48 * time.Hour)
	stale := testGame("stale")
	stale.State = shared.StateLost
	stale.EndedAt = &old
	f.store.games["stale"] = stale

	resp, err := manager.PurgeGames(&dto.PurgeGamesRequest{})
	if err != nil {
		t.Fatalf("PurgeGames: %v", err)
	}
	if resp.PurgedCount != 1 {
		t.Fatalf("expected 1 purged, got %d", resp.PurgedCount)
	}
}
