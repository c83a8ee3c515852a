// services/storage.go
package services

import (
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/guessworks/hangbot_api/model"
	log "github.com/sirupsen/logrus"
)

// Backend is the single persistence contract both storage implementations
// satisfy. Every operation is observably identical across the document and
// file variants; only their durability and race characteristics differ.
type Backend interface {
	// CreateGame persists a new session. Fails with a CONFLICT AppError if
	// the channel already has a non-terminal session.
	CreateGame(game *model.GameSession) (*model.GameSession, error)
	// FindActiveGame returns the channel's non-terminal session, or nil.
	FindActiveGame(channelID string) (*model.GameSession, error)
	// MutateGame applies fn to the channel's non-terminal session and
	// persists the result. Fails with NOT_FOUND when there is none.
	MutateGame(channelID string, fn func(*model.GameSession) error) (*model.GameSession, error)
	DeleteGame(channelID string) error
	// PurgeTerminalOlderThan removes terminal sessions whose end time is
	// older than the cutoff. Returns the number removed.
	PurgeTerminalOlderThan(d time.Duration) (int, error)

	// GetOrCreatePlayer fetches the player record, creating it on first
	// interaction. A changed display name is overwritten with the last
	// seen value.
	GetOrCreatePlayer(userID, username string) (*model.Player, error)
	// FindPlayer returns the player record, or nil when unknown.
	FindPlayer(userID string) (*model.Player, error)
	MutatePlayer(userID string, fn func(*model.Player) error) (*model.Player, error)
	// ListPlayers returns players matching the predicate (nil matches all)
	// in record-creation order.
	ListPlayers(predicate func(*model.Player) bool) ([]model.Player, error)

	// ListShopItems returns items matching the predicate (nil matches all).
	ListShopItems(predicate func(*model.ShopItem) bool) ([]model.ShopItem, error)
	// FindShopItem returns the item, or nil when unknown.
	FindShopItem(itemID string) (*model.ShopItem, error)
	// SeedShopItems inserts items whose id is not present yet, skipping
	// existing ones. Returns the number inserted.
	SeedShopItems(items []model.ShopItem) (int, error)
	RecordShopPurchase(itemID string) error

	Close() error
}

const (
	BackendDocument = "document"
	BackendFile     = "file"
)

// StorageService selects the backend once at startup and injects it into
// every consumer. Runtime shape-sniffing is deliberately not a thing here.
type StorageService struct {
	context.DefaultService

	backend Backend
	kind    string
	fileDir string
}

const STORAGE_SVC = "storage_svc"

func (svc StorageService) Id() string {
	return STORAGE_SVC
}

func (svc *StorageService) Configure(ctx *context.Context) error {
	svc.kind = os.Getenv("STORAGE_BACKEND")
	if svc.kind == "" {
		svc.kind = BackendDocument
	}

	svc.fileDir = os.Getenv("FILE_STORE_DIR")
	if svc.fileDir == "" {
		svc.fileDir = "./data"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *StorageService) Start() error {
	switch svc.kind {
	case BackendDocument:
		backend, err := openDocumentStore()
		if err != nil {
			return fmt.Errorf("failed to open document store: %w", err)
		}
		svc.backend = backend
	case BackendFile:
		backend, err := openFileStore(svc.fileDir)
		if err != nil {
			return fmt.Errorf("failed to open file store: %w", err)
		}
		svc.backend = backend
	default:
		return fmt.Errorf("unknown storage backend %q", svc.kind)
	}

	log.WithField("backend", svc.kind).Info("Storage backend ready")
	return nil
}

func (svc *StorageService) Shutdown() {
	if svc.backend != nil {
		if err := svc.backend.Close(); err != nil {
			log.WithError(err).Warn("Failed to close storage backend")
		}
	}
}

// Backend returns the selected storage implementation.
func (svc *StorageService) Backend() Backend {
	return svc.backend
}

// Kind returns which backend variant was selected at startup.
func (svc *StorageService) Kind() string {
	return svc.kind
}

// FileDir returns the file store directory; meaningful only when the file
// backend is active.
func (svc *StorageService) FileDir() string {
	return svc.fileDir
}
