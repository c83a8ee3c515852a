package services

import (
	"testing"
	"time"

	"github.com/guessworks/hangbot_api/shared"
)

type gameFixture struct {
	store  *fileStore
	ledger *LedgerService
	game   *GameService
	now    time.Time
}

func newGameFixture(t *testing.T) *gameFixture {
	t.Helper()

	store, err := openFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("openFileStore: %v", err)
	}

	f := &gameFixture{
		store: store,
		now:   time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC),
	}
	f.ledger = &LedgerService{backend: store, now: f.clock}
	f.game = &GameService{backend: store, ledgerSvc: f.ledger, now: f.clock}
	return f
}

func (f *gameFixture) clock() time.Time {
	return f.now
}

// startedGame creates a two player game on the word and starts it.
func (f *gameFixture) startedGame(t *testing.T, channel, word string) {
	t.Helper()

	if _, err := f.game.CreateGame(channel, word, "u1", "alice"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, _, err := f.game.JoinGame(channel, "u2", "bob"); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if _, err := f.game.StartGame(channel, "u1"); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
}

func TestCreateGameValidatesWord(t *testing.T) {
	f := newGameFixture(t)

	tests := []struct {
		name string
		word string
		ok   bool
	}{
		{"simple word", "cat", true},
		{"phrase with spaces", "ice cream", true},
		{"mixed case", "LightHouse", true},
		{"too short", "hi", false},
		{"too long", "abcdefghijklmnopqrstuvwxyzabcde", false},
		{"digits", "cat5", false},
		{"punctuation", "don't", false},
		{"empty", "", false},
		{"spaces only trim to short", "  a  ", false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel := "chan-" + string(rune('a'+i))
			_, err := f.game.CreateGame(channel, tt.word, "u1", "alice")
			if tt.ok && err != nil {
				t.Fatalf("expected %q accepted, got %v", tt.word, err)
			}
			if !tt.ok {
				if !shared.IsCode(err, shared.ErrValidation) {
					t.Fatalf("expected VALIDATION for %q, got %v", tt.word, err)
				}
			}
		})
	}
}

func TestCreateGameRejectsSecondActiveGame(t *testing.T) {
	f := newGameFixture(t)

	if _, err := f.game.CreateGame("chan", "lighthouse", "u1", "alice"); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := f.game.CreateGame("chan", "anchor", "u2", "bob")
	if !shared.IsCode(err, shared.ErrConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	// A different channel is unaffected.
	if _, err := f.game.CreateGame("other", "anchor", "u2", "bob"); err != nil {
		t.Fatalf("create in other channel: %v", err)
	}
}

func TestCreateGameAllowedAfterPreviousEnds(t *testing.T) {
	f := newGameFixture(t)
	f.startedGame(t, "chan", "cat")

	if _, err := f.game.ForceEnd("chan", "u1"); err != nil {
		t.Fatalf("ForceEnd: %v", err)
	}

	if _, err := f.game.CreateGame("chan", "anchor", "u2", "bob"); err != nil {
		t.Fatalf("create after terminal game: %v", err)
	}
}

func TestJoinGameRules(t *testing.T) {
	f := newGameFixture(t)

	if _, err := f.game.CreateGame("chan", "lighthouse", "u1", "alice"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	// Starter is already in.
	if _, _, err := f.game.JoinGame("chan", "u1", "alice"); !shared.IsCode(err, shared.ErrDuplicate) {
		t.Fatalf("expected DUPLICATE for starter rejoin, got %v", err)
	}

	game, count, err := f.game.JoinGame("chan", "u2", "bob")
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if count != 2 || len(game.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", count)
	}

	if _, _, err := f.game.JoinGame("chan", "u3", "carol"); err != nil {
		t.Fatalf("third join: %v", err)
	}
	if _, _, err := f.game.JoinGame("chan", "u4", "dave"); err != nil {
		t.Fatalf("fourth join: %v", err)
	}

	if _, _, err := f.game.JoinGame("chan", "u5", "eve"); !shared.IsCode(err, shared.ErrGameFull) {
		t.Fatalf("expected GAME_FULL, got %v", err)
	}
}

func TestJoinGameAfterDeadline(t *testing.T) {
	f := newGameFixture(t)

	if _, err := f.game.CreateGame("chan", "lighthouse", "u1", "alice"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	f.now = f.now.Add(shared.JoinWindowSeconds*time.Second + time.Second)

	if _, _, err := f.game.JoinGame("chan", "u2", "bob"); !shared.IsCode(err, shared.ErrExpired) {
		t.Fatalf("expected EXPIRED, got %v", err)
	}

	// The game record is still there; only joining is closed.
	if _, err := f.game.FindGame("chan"); err != nil {
		t.Fatalf("game should still exist: %v", err)
	}
}

func TestStartGameRules(t *testing.T) {
	f := newGameFixture(t)

	if _, err := f.game.CreateGame("chan", "lighthouse", "u1", "alice"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	// Not enough players yet.
	if _, err := f.game.StartGame("chan", "u1"); !shared.IsCode(err, shared.ErrValidation) {
		t.Fatalf("expected VALIDATION with one player, got %v", err)
	}

	if _, _, err := f.game.JoinGame("chan", "u2", "bob"); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}

	// Only the starter may start.
	if _, err := f.game.StartGame("chan", "u2"); !shared.IsCode(err, shared.ErrForbidden) {
		t.Fatalf("expected FORBIDDEN for non-starter, got %v", err)
	}

	game, err := f.game.StartGame("chan", "u1")
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if game.State != shared.StateActive {
		t.Fatalf("expected active state, got %s", game.State)
	}
	if game.StartedAt == nil {
		t.Fatal("expected StartedAt set")
	}

	// Starting twice is a wrong-state error.
	if _, err := f.game.StartGame("chan", "u1"); !shared.IsCode(err, shared.ErrWrongState) {
		t.Fatalf("expected WRONG_STATE on double start, got %v", err)
	}
}

func TestMakeGuessWinFlow(t *testing.T) {
	f := newGameFixture(t)
	f.startedGame(t, "chan", "cat")

	out, err := f.game.MakeGuess("chan", "u1", "alice", "c")
	if err != nil {
		t.Fatalf("guess c: %v", err)
	}
	if !out.IsCorrect {
		t.Fatal("expected c correct")
	}
	if display := MaskWord(out.Game.Word, out.Game.Guessed); display != "c _ _" {
		t.Fatalf("expected display 'c _ _', got %q", display)
	}

	if _, err := f.game.MakeGuess("chan", "u2", "bob", "a"); err != nil {
		t.Fatalf("guess a: %v", err)
	}

	out, err = f.game.MakeGuess("chan", "u1", "alice", "t")
	if err != nil {
		t.Fatalf("guess t: %v", err)
	}
	if out.Game.State != shared.StateWon {
		t.Fatalf("expected won, got %s", out.Game.State)
	}

	// 100 + 10*3 letters, no mistakes, split between two players.
	if out.PointsPerPlayer != 65 {
		t.Fatalf("expected 65 points per player, got %d", out.PointsPerPlayer)
	}

	for _, id := range []string{"u1", "u2"} {
		player, err := f.store.FindPlayer(id)
		if err != nil || player == nil {
			t.Fatalf("player %s missing: %v", id, err)
		}
		if player.WeeklyPoints != 65 || player.LifetimePoints != 65 {
			t.Fatalf("player %s: weekly=%d lifetime=%d", id, player.WeeklyPoints, player.LifetimePoints)
		}
		if player.GamesPlayed != 1 || player.GamesWon != 1 {
			t.Fatalf("player %s: played=%d won=%d", id, player.GamesPlayed, player.GamesWon)
		}
	}
}

func TestMakeGuessLossOnSixthMistake(t *testing.T) {
	f := newGameFixture(t)
	f.startedGame(t, "chan", "cat")

	wrong := []string{"x", "y", "z", "q", "w", "e"}
	for i, letter := range wrong {
		out, err := f.game.MakeGuess("chan", "u1", "alice", letter)
		if err != nil {
			t.Fatalf("guess %s: %v", letter, err)
		}
		if out.IsCorrect {
			t.Fatalf("guess %s should be wrong", letter)
		}
		if i < len(wrong)-1 {
			if out.Game.State != shared.StateActive {
				t.Fatalf("game ended early at mistake %d", i+1)
			}
		}
	}

	game := f.store.games["chan"]
	if game.State != shared.StateLost {
		t.Fatalf("expected lost after 6 mistakes, got %s", game.State)
	}

	// Losses settle stats but award nothing.
	player, _ := f.store.FindPlayer("u1")
	if player.WeeklyPoints != 0 || player.GamesPlayed != 1 || player.GamesWon != 0 {
		t.Fatalf("unexpected loser stats: %+v", player)
	}

	if _, err := f.game.MakeGuess("chan", "u1", "alice", "c"); !shared.IsCode(err, shared.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND on finished game, got %v", err)
	}
}

func TestMakeGuessValidation(t *testing.T) {
	f := newGameFixture(t)
	f.startedGame(t, "chan", "cat")

	if _, err := f.game.MakeGuess("chan", "u1", "alice", "ab"); !shared.IsCode(err, shared.ErrValidation) {
		t.Fatalf("expected VALIDATION for two letters, got %v", err)
	}
	if _, err := f.game.MakeGuess("chan", "u1", "alice", "7"); !shared.IsCode(err, shared.ErrValidation) {
		t.Fatalf("expected VALIDATION for digit, got %v", err)
	}

	// Outsiders can't guess.
	if _, err := f.game.MakeGuess("chan", "u9", "mallory", "c"); !shared.IsCode(err, shared.ErrForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}

	if _, err := f.game.MakeGuess("chan", "u1", "alice", "c"); err != nil {
		t.Fatalf("guess c: %v", err)
	}
	if _, err := f.game.MakeGuess("chan", "u2", "bob", "C"); !shared.IsCode(err, shared.ErrDuplicate) {
		t.Fatalf("expected DUPLICATE for repeated letter, got %v", err)
	}
}

func TestMakeGuessUppercaseNormalized(t *testing.T) {
	f := newGameFixture(t)
	f.startedGame(t, "chan", "Cat")

	out, err := f.game.MakeGuess("chan", "u1", "alice", "C")
	if err != nil {
		t.Fatalf("guess C: %v", err)
	}
	if !out.IsCorrect || out.Letter != "c" {
		t.Fatalf("expected normalized correct guess, got %+v", out)
	}
	// Original casing survives in the display.
	if display := MaskWord(out.Game.Word, out.Game.Guessed); display != "C _ _" {
		t.Fatalf("expected 'C _ _', got %q", display)
	}
}

func TestForceEndRules(t *testing.T) {
	f := newGameFixture(t)
	f.startedGame(t, "chan", "cat")

	if _, err := f.game.ForceEnd("chan", "u2"); !shared.IsCode(err, shared.ErrForbidden) {
		t.Fatalf("expected FORBIDDEN for non-starter, got %v", err)
	}

	game, err := f.game.ForceEnd("chan", "u1")
	if err != nil {
		t.Fatalf("ForceEnd: %v", err)
	}
	if game.State != shared.StateLost {
		t.Fatalf("expected lost, got %s", game.State)
	}

	// Cancellation settles as a loss, no points.
	player, _ := f.store.FindPlayer("u1")
	if player.GamesPlayed != 1 || player.WeeklyPoints != 0 {
		t.Fatalf("unexpected stats after cancel: %+v", player)
	}
}

func TestScorePoints(t *testing.T) {
	tests := []struct {
		word     string
		mistakes int
		want     int
	}{
		{"cat", 0, 130},
		{"cat", 2, 100},
		{"lighthouse", 0, 200},
		{"lighthouse", 6, 110},
		{"ice cream", 0, 180}, // 8 letters, spaces don't count
		{"cat", 9, 0},         // floor at zero
	}

	for _, tt := range tests {
		if got := scorePoints(tt.word, tt.mistakes); got != tt.want {
			t.Errorf("scorePoints(%q, %d) = %d, want %d", tt.word, tt.mistakes, got, tt.want)
		}
	}
}

func TestMaskWord(t *testing.T) {
	tests := []struct {
		word    string
		guessed []string
		want    string
	}{
		{"cat", nil, "_ _ _"},
		{"cat", []string{"a"}, "_ a _"},
		{"cat", []string{"c", "a", "t"}, "c a t"},
		{"ice cream", []string{"c", "e"}, "_ c e   c _ e _ _"},
		{"Cat", []string{"c"}, "C _ _"},
	}

	for _, tt := range tests {
		if got := MaskWord(tt.word, tt.guessed); got != tt.want {
			t.Errorf("MaskWord(%q, %v) = %q, want %q", tt.word, tt.guessed, got, tt.want)
		}
	}
}
