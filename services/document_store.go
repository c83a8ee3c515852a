// services/document_store.go
package services

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// documentStore is the primary backend. Game-per-channel uniqueness rides
// on the unique index over active_channel; individual mutations are wrapped
// in a transaction so each record update is atomic. Cross-record updates
// (the purchase debit/credit pair) are NOT transactional; callers surface
// partial application as a storage failure.
type documentStore struct {
	db *gorm.DB
}

func openDocumentStore() (*documentStore, error) {
	var dialector gorm.Dialector
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		database := os.Getenv("DB_DATABASE")
		if database == "" {
			database = "hangbot.db"
		}
		dialector = sqlite.Open(database)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.GameSession{}, &model.Player{}, &model.ShopItem{}); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return nil, err
	}

	log.Println("Document store connected and migrated")
	return &documentStore{db: db}, nil
}

func (ds *documentStore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// ==================== GAMES ====================

func (ds *documentStore) CreateGame(game *model.GameSession) (*model.GameSession, error) {
	stored := cloneGame(game)
	channel := stored.ChannelID
	stored.ActiveChannel = &channel

	if err := ds.db.Create(stored).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, shared.NewConflictError("A game is already running in this channel")
		}
		return nil, shared.NewStorageError(err, "Failed to create game")
	}

	return stored, nil
}

func (ds *documentStore) FindActiveGame(channelID string) (*model.GameSession, error) {
	var game model.GameSession
	err := ds.db.Where("active_channel = ?", channelID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, shared.NewStorageError(err, "Failed to query active game")
	}
	return &game, nil
}

func (ds *documentStore) MutateGame(channelID string, fn func(*model.GameSession) error) (*model.GameSession, error) {
	var updated *model.GameSession

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		var game model.GameSession
		if err := tx.Where("active_channel = ?", channelID).First(&game).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("No active game in this channel")
			}
			return shared.NewStorageError(err, "Failed to query active game")
		}

		if err := fn(&game); err != nil {
			return err
		}
		if shared.IsTerminalState(game.State) {
			game.ActiveChannel = nil
		}

		if err := tx.Save(&game).Error; err != nil {
			return shared.NewStorageError(err, "Failed to update game")
		}

		updated = &game
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (ds *documentStore) DeleteGame(channelID string) error {
	err := ds.db.Where("channel_id = ?", channelID).Delete(&model.GameSession{}).Error
	if err != nil {
		return shared.NewStorageError(err, "Failed to delete game")
	}
	return nil
}

func (ds *documentStore) PurgeTerminalOlderThan(d time.Duration) (int, error) {
	cutoff := time.Now().Add(-d)

	result := ds.db.Where("state IN ? AND ended_at < ?", []string{shared.StateWon, shared.StateLost}, cutoff).
		Delete(&model.GameSession{})
	if result.Error != nil {
		return 0, shared.NewStorageError(result.Error, "Failed to purge finished games")
	}
	return int(result.RowsAffected), nil
}

// ==================== PLAYERS ====================

func (ds *documentStore) GetOrCreatePlayer(userID, username string) (*model.Player, error) {
	now := time.Now()

	var player model.Player
	err := ds.db.Where("id = ?", userID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = model.Player{
			ID:              userID,
			Username:        username,
			OwnedItems:      []model.OwnedItem{},
			LastWeeklyReset: now,
			CreatedAt:       now,
			LastActiveAt:    now,
		}
		if createErr := ds.db.Create(&player).Error; createErr != nil {
			if isDuplicateKey(createErr) {
				// Lost a create race; the record exists now.
				return ds.GetOrCreatePlayer(userID, username)
			}
			return nil, shared.NewStorageError(createErr, "Failed to create player")
		}
		return &player, nil
	}
	if err != nil {
		return nil, shared.NewStorageError(err, "Failed to query player")
	}

	player.LastActiveAt = now
	if username != "" && player.Username != username {
		player.Username = username
	}
	if err := ds.db.Save(&player).Error; err != nil {
		return nil, shared.NewStorageError(err, "Failed to update player")
	}

	return &player, nil
}

func (ds *documentStore) FindPlayer(userID string) (*model.Player, error) {
	var player model.Player
	err := ds.db.Where("id = ?", userID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, shared.NewStorageError(err, "Failed to query player")
	}
	return &player, nil
}

func (ds *documentStore) MutatePlayer(userID string, fn func(*model.Player) error) (*model.Player, error) {
	var updated *model.Player

	err := ds.db.Transaction(func(tx *gorm.DB) error {
		var player model.Player
		if err := tx.Where("id = ?", userID).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("Unknown player")
			}
			return shared.NewStorageError(err, "Failed to query player")
		}

		if err := fn(&player); err != nil {
			return err
		}

		if err := tx.Save(&player).Error; err != nil {
			return shared.NewStorageError(err, "Failed to update player")
		}

		updated = &player
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (ds *documentStore) ListPlayers(predicate func(*model.Player) bool) ([]model.Player, error) {
	var players []model.Player
	if err := ds.db.Order("created_at asc, id asc").Find(&players).Error; err != nil {
		return nil, shared.NewStorageError(err, "Failed to list players")
	}

	if predicate == nil {
		return players, nil
	}

	filtered := players[:0]
	for i := range players {
		if predicate(&players[i]) {
			filtered = append(filtered, players[i])
		}
	}
	return filtered, nil
}

// ==================== SHOP ====================

func (ds *documentStore) ListShopItems(predicate func(*model.ShopItem) bool) ([]model.ShopItem, error) {
	var items []model.ShopItem
	if err := ds.db.Order("created_at asc, id asc").Find(&items).Error; err != nil {
		return nil, shared.NewStorageError(err, "Failed to list shop items")
	}

	if predicate == nil {
		return items, nil
	}

	filtered := items[:0]
	for i := range items {
		if predicate(&items[i]) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered, nil
}

func (ds *documentStore) FindShopItem(itemID string) (*model.ShopItem, error) {
	var item model.ShopItem
	err := ds.db.Where("id = ?", itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, shared.NewStorageError(err, "Failed to query shop item")
	}
	return &item, nil
}

func (ds *documentStore) SeedShopItems(items []model.ShopItem) (int, error) {
	inserted := 0
	for _, item := range items {
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}

		var existing model.ShopItem
		err := ds.db.Where("id = ?", item.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return inserted, shared.NewStorageError(err, "Failed to check shop item")
		}

		if err := ds.db.Create(&item).Error; err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return inserted, shared.NewStorageError(err, "Failed to seed shop item")
		}
		inserted++
	}

	return inserted, nil
}

func (ds *documentStore) RecordShopPurchase(itemID string) error {
	result := ds.db.Model(&model.ShopItem{}).Where("id = ?", itemID).
		UpdateColumn("purchases", gorm.Expr("purchases + ?", 1))
	if result.Error != nil {
		return shared.NewStorageError(result.Error, "Failed to record purchase")
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Unknown shop item")
	}
	return nil
}
