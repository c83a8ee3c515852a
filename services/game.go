// services/game.go
package services

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
	log "github.com/sirupsen/logrus"
)

// GameService drives the per-channel session state machine (waiting,
// active, then won or lost) over the storage backend and reports terminal
// outcomes to the ledger. It keeps no game state of its own.
type GameService struct {
	context.DefaultService

	storageSvc *StorageService
	ledgerSvc  *LedgerService

	backend   Backend
	retention time.Duration
	now       func() time.Time
}

const GAME_SVC = "game_svc"

func (svc GameService) Id() string {
	return GAME_SVC
}

func (svc *GameService) Configure(ctx *context.Context) error {
	retentionHours := 24
	if h := os.Getenv("GAME_RETENTION_HOURS"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed > 0 {
			retentionHours = parsed
		}
	}
	svc.retention = time.Duration(retentionHours) * time.Hour

	return svc.DefaultService.Configure(ctx)
}

func (svc *GameService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.backend = svc.storageSvc.Backend()
	if svc.now == nil {
		svc.now = time.Now
	}

	go svc.startRetentionSweep()

	return nil
}

func (svc *GameService) startRetentionSweep() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		purged, err := svc.backend.PurgeTerminalOlderThan(svc.retention)
		if err != nil {
			log.WithError(err).Error("Failed to purge finished games")
			continue
		}
		if purged > 0 {
			log.WithField("purged", purged).Info("Removed finished games past retention")
		}
	}
}

// PurgeFinished removes terminal sessions older than the given age.
func (svc *GameService) PurgeFinished(olderThan time.Duration) (int, error) {
	return svc.backend.PurgeTerminalOlderThan(olderThan)
}

// CreateGame opens a new waiting session with the starter as sole player.
func (svc *GameService) CreateGame(channelID, word, starterID, starterName string) (*model.GameSession, error) {
	word = strings.TrimSpace(word)
	if !isValidWord(word) {
		return nil, shared.NewValidationError("Word must be 3-30 characters, letters and spaces only")
	}

	now := svc.now()
	id, _ := uuid.NewV7()

	game := &model.GameSession{
		ID:         id.String(),
		ChannelID:  channelID,
		Word:       word,
		WordNormal: strings.ToLower(word),
		State:      shared.StateWaiting,
		StarterID:  starterID,
		Players: []model.GamePlayer{
			{UserID: starterID, Username: starterName, JoinedAt: now},
		},
		Guessed:      []string{},
		MistakeCount: 0,
		MaxMistakes:  shared.MaxMistakes,
		JoinDeadline: now.Add(shared.JoinWindowSeconds * time.Second),
		CreatedAt:    now,
	}

	created, err := svc.backend.CreateGame(game)
	if err != nil {
		return nil, err
	}

	gamesCreatedTotal.Inc()
	log.WithFields(log.Fields{
		"channel": channelID,
		"starter": starterID,
	}).Info("Game created")

	return created, nil
}

// FindGame returns the channel's non-terminal session, or a NOT_FOUND error.
func (svc *GameService) FindGame(channelID string) (*model.GameSession, error) {
	game, err := svc.backend.FindActiveGame(channelID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, shared.NewNotFoundError("No active game in this channel")
	}
	return game, nil
}

// JoinGame appends a player to a waiting session. The join deadline is
// checked here, at join time, and nowhere else. A waiting game nobody
// tries to join never expires on its own.
func (svc *GameService) JoinGame(channelID, userID, username string) (*model.GameSession, int, error) {
	game, err := svc.backend.MutateGame(channelID, func(g *model.GameSession) error {
		if g.State != shared.StateWaiting {
			return shared.NewWrongStateError("The game has already started")
		}
		if svc.now().After(g.JoinDeadline) {
			return shared.NewExpiredError("The join window has closed")
		}
		if g.HasPlayer(userID) {
			return shared.NewDuplicateError("You already joined this game")
		}
		if len(g.Players) >= shared.MaxPlayers {
			return shared.NewGameFullError("The game is full")
		}

		g.Players = append(g.Players, model.GamePlayer{
			UserID:   userID,
			Username: username,
			JoinedAt: svc.now(),
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return game, len(game.Players), nil
}

// StartGame moves a waiting session to active. Starter only, 2+ players.
func (svc *GameService) StartGame(channelID, userID string) (*model.GameSession, error) {
	return svc.backend.MutateGame(channelID, func(g *model.GameSession) error {
		if g.State != shared.StateWaiting {
			return shared.NewWrongStateError("The game has already started")
		}
		if g.StarterID != userID {
			return shared.NewForbiddenError("Only the starter can begin the game")
		}
		if len(g.Players) < shared.MinPlayers {
			return shared.NewValidationError("At least 2 players are needed to start")
		}

		now := svc.now()
		g.State = shared.StateActive
		g.StartedAt = &now
		return nil
	})
}

// GuessOutcome is what a single applied guess produced.
type GuessOutcome struct {
	Game            *model.GameSession
	Letter          string
	IsCorrect       bool
	PointsPerPlayer int // 0 unless the guess won the game
}

// MakeGuess applies one letter guess for a joined player, transitioning to
// lost on the sixth mistake or won once the word is fully revealed.
func (svc *GameService) MakeGuess(channelID, userID, username, letterRaw string) (*GuessOutcome, error) {
	letter, ok := normalizeLetter(letterRaw)
	if !ok {
		return nil, shared.NewValidationError("Guess a single letter a-z")
	}

	var correct bool
	game, err := svc.backend.MutateGame(channelID, func(g *model.GameSession) error {
		if g.State != shared.StateActive {
			return shared.NewWrongStateError("The game is not in progress")
		}
		if !g.HasPlayer(userID) {
			return shared.NewForbiddenError("Only joined players can guess")
		}
		if g.HasGuessed(letter) {
			return shared.NewDuplicateError("That letter was already guessed")
		}

		g.Guessed = append(g.Guessed, letter)

		correct = strings.Contains(g.WordNormal, letter)
		if !correct {
			g.MistakeCount++
		}

		if g.MistakeCount >= g.MaxMistakes {
			now := svc.now()
			g.State = shared.StateLost
			g.EndedAt = &now
		} else if isFullyRevealed(g.WordNormal, g.Guessed) {
			now := svc.now()
			g.State = shared.StateWon
			g.EndedAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	guessesTotal.WithLabelValues(guessResultLabel(correct)).Inc()

	outcome := &GuessOutcome{
		Game:      game,
		Letter:    letter,
		IsCorrect: correct,
	}

	if shared.IsTerminalState(game.State) {
		outcome.PointsPerPlayer = svc.settleGame(game)
	}

	return outcome, nil
}

// ForceEnd cancels a non-terminal session, settling it as a loss. Starter
// only; covers both voluntary cancellation and abandonment.
func (svc *GameService) ForceEnd(channelID, userID string) (*model.GameSession, error) {
	game, err := svc.backend.MutateGame(channelID, func(g *model.GameSession) error {
		if g.StarterID != userID {
			return shared.NewForbiddenError("Only the starter can end the game")
		}

		now := svc.now()
		g.State = shared.StateLost
		g.EndedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.settleGame(game)
	return game, nil
}

// settleGame reports the outcome to the ledger for every joined player and
// returns the per-player share. Winners split the pot with integer floor
// division; the remainder is not awarded to anyone.
func (svc *GameService) settleGame(game *model.GameSession) int {
	won := game.State == shared.StateWon

	pointsPer := 0
	if won && len(game.Players) > 0 {
		pointsPer = scorePoints(game.WordNormal, game.MistakeCount) / len(game.Players)
	}

	correctCount := 0
	for _, letter := range game.Guessed {
		if strings.Contains(game.WordNormal, letter) {
			correctCount++
		}
	}

	for _, player := range game.Players {
		err := svc.ledgerSvc.RecordGameOutcome(player.UserID, player.Username, won, pointsPer, len(game.Guessed), correctCount)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"channel": game.ChannelID,
				"user":    player.UserID,
			}).Error("Failed to record game outcome")
		}
	}

	gamesFinishedTotal.WithLabelValues(game.State).Inc()
	log.WithFields(log.Fields{
		"channel":  game.ChannelID,
		"state":    game.State,
		"mistakes": game.MistakeCount,
		"points":   pointsPer,
	}).Info("Game settled")

	return pointsPer
}

// ==================== RULES ====================

func isValidWord(word string) bool {
	if len(word) < shared.MinWordLength || len(word) > shared.MaxWordLength {
		return false
	}
	for _, char := range word {
		isLetter := (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
		if !isLetter && char != ' ' {
			return false
		}
	}
	return true
}

// normalizeLetter folds raw input down to one lowercase a-z character.
func normalizeLetter(raw string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if len(trimmed) != 1 {
		return "", false
	}
	char := trimmed[0]
	if char < 'a' || char > 'z' {
		return "", false
	}
	return trimmed, true
}

// isFullyRevealed reports whether every letter of the word has been
// guessed. Spaces and other non-alphabetic characters don't count.
func isFullyRevealed(wordNormal string, guessed []string) bool {
	for _, char := range wordNormal {
		if char < 'a' || char > 'z' {
			continue
		}
		found := false
		for _, letter := range guessed {
			if rune(letter[0]) == char {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// scorePoints computes the pot for a won game. Length counts letters only,
// so multi-word phrases aren't inflated by their spaces.
func scorePoints(wordNormal string, mistakes int) int {
	letters := 0
	for _, char := range wordNormal {
		if char >= 'a' && char <= 'z' {
			letters++
		}
	}

	points := 100 + 10*letters - 15*mistakes
	if points < 0 {
		return 0
	}
	return points
}

// MaskWord renders the display string: guessed letters shown, unguessed
// shown as underscores, non-alphabetic characters verbatim, all
// space-separated.
func MaskWord(word string, guessed []string) string {
	var b strings.Builder
	for i, char := range word {
		if i > 0 {
			b.WriteByte(' ')
		}

		lower := char
		if char >= 'A' && char <= 'Z' {
			lower = char + ('a' - 'A')
		}

		if lower >= 'a' && lower <= 'z' {
			shown := false
			for _, letter := range guessed {
				if rune(letter[0]) == lower {
					shown = true
					break
				}
			}
			if shown {
				b.WriteRune(char)
			} else {
				b.WriteByte('_')
			}
		} else {
			b.WriteRune(char)
		}
	}
	return b.String()
}

func guessResultLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "wrong"
}
