// services/ledger.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
	log "github.com/sirupsen/logrus"
)

// LedgerService owns the points economy: crediting game outcomes, debiting
// shop purchases, equipping cosmetics and ranking players. Weekly balances
// are reset lazily, on the first touch of a player record after the Monday
// boundary, so the scheduler sweep is a catch-up rather than the source of
// truth.
type LedgerService struct {
	context.DefaultService

	storageSvc *StorageService
	redisSvc   *RedisService

	backend Backend
	now     func() time.Time
}

const LEDGER_SVC = "ledger_svc"

// Win-rate rankings ignore players below this many finished games unless
// the caller asks for a different threshold.
const defaultWinRateMinGames = 5

const leaderboardCacheTTL = 30 * time.Second

func (svc LedgerService) Id() string {
	return LEDGER_SVC
}

func (svc *LedgerService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.redisSvc, _ = svc.Service(REDIS_SVC).(*RedisService)
	svc.backend = svc.storageSvc.Backend()
	if svc.now == nil {
		svc.now = time.Now
	}
	return nil
}

// ==================== OUTCOMES ====================

// RecordGameOutcome credits one player's share of a finished game and rolls
// the game into their running stats. Points land on both the weekly and the
// lifetime balance.
func (svc *LedgerService) RecordGameOutcome(userID, username string, won bool, points, guesses, correct int) error {
	if _, err := svc.backend.GetOrCreatePlayer(userID, username); err != nil {
		return err
	}

	_, err := svc.backend.MutatePlayer(userID, func(p *model.Player) error {
		svc.resetIfDue(p)

		p.GamesPlayed++
		if won {
			p.GamesWon++
		}
		p.LettersGuessed += guesses
		p.CorrectGuesses += correct
		p.WeeklyPoints += points
		p.LifetimePoints += points
		return nil
	})
	if err != nil {
		return err
	}

	svc.invalidateLeaderboards()
	return nil
}

// Spend debits the weekly balance inside a single player mutation. The
// check and the debit happen in the same mutation fn, so a concurrent
// spend can't slip between them on the document backend.
func (svc *LedgerService) Spend(userID string, amount int) (*model.Player, error) {
	return svc.backend.MutatePlayer(userID, func(p *model.Player) error {
		svc.resetIfDue(p)

		if p.WeeklyPoints < amount {
			return shared.NewInsufficientFundsError(
				fmt.Sprintf("You need %d points but only have %d this week", amount, p.WeeklyPoints),
				map[string]int{"required": amount, "available": p.WeeklyPoints},
			)
		}
		p.WeeklyPoints -= amount
		return nil
	})
}

// GrantOwnership appends an item to a player's inventory.
func (svc *LedgerService) GrantOwnership(userID, itemID string) (*model.Player, error) {
	return svc.backend.MutatePlayer(userID, func(p *model.Player) error {
		if p.Owns(itemID) {
			return shared.NewAlreadyOwnedError("You already own this item")
		}
		p.OwnedItems = append(p.OwnedItems, model.OwnedItem{
			ItemID:      itemID,
			PurchasedAt: svc.now(),
		})
		return nil
	})
}

// ==================== COSMETICS ====================

// SetActiveCosmetic equips an owned prefix or theme, or clears the slot
// when itemID is empty.
func (svc *LedgerService) SetActiveCosmetic(userID, category, itemID string) (*model.Player, error) {
	if category != shared.CategoryPrefix && category != shared.CategoryTheme {
		return nil, shared.NewValidationError("Only prefixes and themes can be equipped")
	}

	return svc.backend.MutatePlayer(userID, func(p *model.Player) error {
		if itemID == "" {
			if category == shared.CategoryPrefix {
				p.ActivePrefix = nil
			} else {
				p.ActiveTheme = nil
			}
			return nil
		}

		if !p.Owns(itemID) {
			return shared.NewForbiddenError("You don't own this item")
		}

		item, err := svc.backend.FindShopItem(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return shared.NewNotFoundError("Unknown shop item")
		}
		if item.Category != category {
			return shared.NewValidationError("That item is not a " + category)
		}

		equipped := itemID
		if category == shared.CategoryPrefix {
			p.ActivePrefix = &equipped
		} else {
			p.ActiveTheme = &equipped
		}
		return nil
	})
}

// ==================== PROFILES ====================

// GetProfile returns a player's record, applying any pending weekly reset
// so the caller never sees a stale balance.
func (svc *LedgerService) GetProfile(userID, username string) (*model.Player, error) {
	if _, err := svc.backend.GetOrCreatePlayer(userID, username); err != nil {
		return nil, err
	}

	return svc.backend.MutatePlayer(userID, func(p *model.Player) error {
		svc.resetIfDue(p)
		return nil
	})
}

// ==================== LEADERBOARDS ====================

// LeaderboardRow pairs a player with the metric they are ranked by.
type LeaderboardRow struct {
	Player model.Player `json:"player"`
	Score  float64      `json:"score"`
}

const (
	PeriodWeekly   = "weekly"
	PeriodLifetime = "lifetime"
	PeriodWinRate  = "winrate"
)

// Leaderboard returns the top players for the given period. minGames only
// applies to the win-rate board and falls back to the default threshold
// when zero. Results are cached briefly in redis; rankings a few seconds
// stale are fine.
func (svc *LedgerService) Leaderboard(period string, limit, minGames int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	if minGames <= 0 {
		minGames = defaultWinRateMinGames
	}

	cacheKey := fmt.Sprintf("hangbot:lb:%s:%d:%d", period, limit, minGames)
	if cached := svc.cacheGet(cacheKey); cached != nil {
		return cached, nil
	}

	players, err := svc.backend.ListPlayers(nil)
	if err != nil {
		return nil, err
	}

	boundary := weekBoundary(svc.now())
	var rows []LeaderboardRow

	switch period {
	case PeriodWeekly:
		for _, p := range players {
			points := p.WeeklyPoints
			// A balance untouched since the boundary is logically zero
			// even though the record hasn't been reset yet.
			if p.LastWeeklyReset.Before(boundary) {
				points = 0
			}
			if points > 0 {
				rows = append(rows, LeaderboardRow{Player: p, Score: float64(points)})
			}
		}
	case PeriodLifetime:
		// Every registered player ranks here, including those yet to score.
		for _, p := range players {
			rows = append(rows, LeaderboardRow{Player: p, Score: float64(p.LifetimePoints)})
		}
	case PeriodWinRate:
		for _, p := range players {
			if p.GamesPlayed >= minGames {
				rows = append(rows, LeaderboardRow{Player: p, Score: p.WinRate()})
			}
		}
	default:
		return nil, shared.NewValidationError("Unknown leaderboard period")
	}

	// ListPlayers hands records back in creation order, and the stable sort
	// keeps that order for equal scores.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}

	svc.cacheSet(cacheKey, rows)
	return rows, nil
}

// ==================== WEEKLY RESET ====================

// resetIfDue zeroes the weekly balance when the record was last reset
// before the current week's boundary.
func (svc *LedgerService) resetIfDue(p *model.Player) {
	boundary := weekBoundary(svc.now())
	if p.LastWeeklyReset.Before(boundary) {
		p.WeeklyPoints = 0
		p.LastWeeklyReset = svc.now()
	}
}

// ==================== CACHE ====================

func (svc *LedgerService) cacheGet(key string) []LeaderboardRow {
	if svc.redisSvc == nil || !svc.redisSvc.Enabled() {
		return nil
	}

	data, err := svc.redisSvc.Get(key)
	if err != nil || data == "" {
		return nil
	}

	var rows []LeaderboardRow
	if err := sonic.UnmarshalString(data, &rows); err != nil {
		log.WithError(err).Warn("Failed to decode cached leaderboard")
		return nil
	}
	return rows
}

func (svc *LedgerService) cacheSet(key string, rows []LeaderboardRow) {
	if svc.redisSvc == nil || !svc.redisSvc.Enabled() {
		return
	}

	data, err := sonic.MarshalString(rows)
	if err != nil {
		return
	}
	if err := svc.redisSvc.Set(key, data, leaderboardCacheTTL); err != nil {
		log.WithError(err).Warn("Failed to cache leaderboard")
	}
}

func (svc *LedgerService) invalidateLeaderboards() {
	if svc.redisSvc == nil || !svc.redisSvc.Enabled() {
		return
	}
	if err := svc.redisSvc.DeletePrefix("hangbot:lb:"); err != nil {
		log.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}
