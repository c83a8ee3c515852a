// services/file_store.go
package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/guessworks/hangbot_api/model"
	"github.com/guessworks/hangbot_api/shared"
	log "github.com/sirupsen/logrus"
)

const (
	gamesFile   = "games.json"
	playersFile = "players.json"
	itemsFile   = "items.json"
)

// fileStore is the flat-file fallback backend. Each entity type is one
// in-memory map mirrored to one pretty-printed JSON document, rewritten in
// full on every mutation. It applies no locking: concurrent mutations of
// the same key can lose one of the two writes. That is the documented
// trade-off of fallback mode, not something to paper over here.
type fileStore struct {
	dir string

	games   map[string]*model.GameSession // channel id -> session
	players map[string]*model.Player      // user id -> player
	items   map[string]*model.ShopItem    // item id -> item
}

func openFileStore(dir string) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	fs := &fileStore{
		dir:     dir,
		games:   map[string]*model.GameSession{},
		players: map[string]*model.Player{},
		items:   map[string]*model.ShopItem{},
	}

	if err := loadDocument(filepath.Join(dir, gamesFile), &fs.games); err != nil {
		return nil, err
	}
	if err := loadDocument(filepath.Join(dir, playersFile), &fs.players); err != nil {
		return nil, err
	}
	if err := loadDocument(filepath.Join(dir, itemsFile), &fs.items); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"dir":     dir,
		"games":   len(fs.games),
		"players": len(fs.players),
		"items":   len(fs.items),
	}).Info("File store loaded")

	return fs, nil
}

func loadDocument(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (fs *fileStore) flush(name string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return shared.NewStorageError(err, "Failed to encode "+name)
	}

	if err := os.WriteFile(filepath.Join(fs.dir, name), data, 0o644); err != nil {
		return shared.NewStorageError(err, "Failed to write "+name)
	}
	return nil
}

func (fs *fileStore) flushGames() error   { return fs.flush(gamesFile, fs.games) }
func (fs *fileStore) flushPlayers() error { return fs.flush(playersFile, fs.players) }
func (fs *fileStore) flushItems() error   { return fs.flush(itemsFile, fs.items) }

func (fs *fileStore) Close() error {
	return nil
}

// ==================== GAMES ====================

func (fs *fileStore) CreateGame(game *model.GameSession) (*model.GameSession, error) {
	// Read-check-write over the whole document. Two racing creates for the
	// same channel can both pass the check; fallback mode accepts that.
	if existing, ok := fs.games[game.ChannelID]; ok && !shared.IsTerminalState(existing.State) {
		return nil, shared.NewConflictError("A game is already running in this channel")
	}

	stored := cloneGame(game)
	fs.games[game.ChannelID] = stored
	if err := fs.flushGames(); err != nil {
		delete(fs.games, game.ChannelID)
		return nil, err
	}

	return cloneGame(stored), nil
}

func (fs *fileStore) FindActiveGame(channelID string) (*model.GameSession, error) {
	game, ok := fs.games[channelID]
	if !ok || shared.IsTerminalState(game.State) {
		return nil, nil
	}
	return cloneGame(game), nil
}

func (fs *fileStore) MutateGame(channelID string, fn func(*model.GameSession) error) (*model.GameSession, error) {
	game, ok := fs.games[channelID]
	if !ok || shared.IsTerminalState(game.State) {
		return nil, shared.NewNotFoundError("No active game in this channel")
	}

	updated := cloneGame(game)
	if err := fn(updated); err != nil {
		return nil, err
	}
	if shared.IsTerminalState(updated.State) {
		updated.ActiveChannel = nil
	}

	fs.games[channelID] = updated
	if err := fs.flushGames(); err != nil {
		fs.games[channelID] = game
		return nil, err
	}

	return cloneGame(updated), nil
}

func (fs *fileStore) DeleteGame(channelID string) error {
	if _, ok := fs.games[channelID]; !ok {
		return nil
	}
	delete(fs.games, channelID)
	return fs.flushGames()
}

func (fs *fileStore) PurgeTerminalOlderThan(d time.Duration) (int, error) {
	cutoff := time.Now().Add(-d)
	purged := 0

	for channelID, game := range fs.games {
		if shared.IsTerminalState(game.State) && game.EndedAt != nil && game.EndedAt.Before(cutoff) {
			delete(fs.games, channelID)
			purged++
		}
	}

	if purged == 0 {
		return 0, nil
	}
	if err := fs.flushGames(); err != nil {
		return 0, err
	}
	return purged, nil
}

// ==================== PLAYERS ====================

func (fs *fileStore) GetOrCreatePlayer(userID, username string) (*model.Player, error) {
	now := time.Now()

	player, ok := fs.players[userID]
	if !ok {
		player = &model.Player{
			ID:              userID,
			Username:        username,
			OwnedItems:      []model.OwnedItem{},
			LastWeeklyReset: now,
			CreatedAt:       now,
			LastActiveAt:    now,
		}
		fs.players[userID] = player
		if err := fs.flushPlayers(); err != nil {
			delete(fs.players, userID)
			return nil, err
		}
		return clonePlayer(player), nil
	}

	player.LastActiveAt = now
	if username != "" && player.Username != username {
		player.Username = username
	}
	if err := fs.flushPlayers(); err != nil {
		return nil, err
	}

	return clonePlayer(player), nil
}

func (fs *fileStore) FindPlayer(userID string) (*model.Player, error) {
	player, ok := fs.players[userID]
	if !ok {
		return nil, nil
	}
	return clonePlayer(player), nil
}

func (fs *fileStore) MutatePlayer(userID string, fn func(*model.Player) error) (*model.Player, error) {
	player, ok := fs.players[userID]
	if !ok {
		return nil, shared.NewNotFoundError("Unknown player")
	}

	updated := clonePlayer(player)
	if err := fn(updated); err != nil {
		return nil, err
	}

	fs.players[userID] = updated
	if err := fs.flushPlayers(); err != nil {
		fs.players[userID] = player
		return nil, err
	}

	return clonePlayer(updated), nil
}

func (fs *fileStore) ListPlayers(predicate func(*model.Player) bool) ([]model.Player, error) {
	players := make([]model.Player, 0, len(fs.players))
	for _, player := range fs.players {
		if predicate == nil || predicate(player) {
			players = append(players, *clonePlayer(player))
		}
	}

	// Record-creation order keeps leaderboard tie-breaks deterministic.
	sort.Slice(players, func(i, j int) bool {
		if players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].CreatedAt.Before(players[j].CreatedAt)
	})

	return players, nil
}

// ==================== SHOP ====================

func (fs *fileStore) ListShopItems(predicate func(*model.ShopItem) bool) ([]model.ShopItem, error) {
	items := make([]model.ShopItem, 0, len(fs.items))
	for _, item := range fs.items {
		if predicate == nil || predicate(item) {
			items = append(items, *item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

func (fs *fileStore) FindShopItem(itemID string) (*model.ShopItem, error) {
	item, ok := fs.items[itemID]
	if !ok {
		return nil, nil
	}
	cloned := *item
	return &cloned, nil
}

func (fs *fileStore) SeedShopItems(items []model.ShopItem) (int, error) {
	inserted := 0
	for _, item := range items {
		if _, ok := fs.items[item.ID]; ok {
			continue
		}
		stored := item
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = time.Now()
		}
		fs.items[item.ID] = &stored
		inserted++
	}

	if inserted == 0 {
		return 0, nil
	}
	if err := fs.flushItems(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (fs *fileStore) RecordShopPurchase(itemID string) error {
	item, ok := fs.items[itemID]
	if !ok {
		return shared.NewNotFoundError("Unknown shop item")
	}
	item.Purchases++
	return fs.flushItems()
}

// ==================== CLONING ====================

func cloneGame(g *model.GameSession) *model.GameSession {
	cloned := *g
	cloned.Players = append([]model.GamePlayer(nil), g.Players...)
	cloned.Guessed = append([]string(nil), g.Guessed...)
	if g.ActiveChannel != nil {
		channel := *g.ActiveChannel
		cloned.ActiveChannel = &channel
	}
	return &cloned
}

func clonePlayer(p *model.Player) *model.Player {
	cloned := *p
	cloned.OwnedItems = append([]model.OwnedItem(nil), p.OwnedItems...)
	if p.ActivePrefix != nil {
		prefix := *p.ActivePrefix
		cloned.ActivePrefix = &prefix
	}
	if p.ActiveTheme != nil {
		theme := *p.ActiveTheme
		cloned.ActiveTheme = &theme
	}
	return &cloned
}
