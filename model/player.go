// model/player.go
package model

import (
	"time"
)

// OwnedItem records one purchased cosmetic. ItemID is unique within a
// player's collection.
type OwnedItem struct {
	ItemID      string    `json:"item_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Player is the per-user economy record. Created lazily on first
// interaction, never deleted. WeeklyPoints resets at the Monday boundary;
// LifetimePoints only ever grows.
type Player struct {
	ID              string      `json:"id" gorm:"primaryKey"`
	Username        string      `json:"username" gorm:"not null"` // last seen display name
	WeeklyPoints    int         `json:"weekly_points" gorm:"not null"`
	LifetimePoints  int         `json:"lifetime_points" gorm:"not null"`
	GamesPlayed     int         `json:"games_played" gorm:"not null"`
	GamesWon        int         `json:"games_won" gorm:"not null"`
	LettersGuessed  int         `json:"letters_guessed" gorm:"not null"`
	CorrectGuesses  int         `json:"correct_guesses" gorm:"not null"`
	OwnedItems      []OwnedItem `json:"owned_items" gorm:"serializer:json;type:text"`
	ActivePrefix    *string     `json:"active_prefix"`
	ActiveTheme     *string     `json:"active_theme"`
	LastWeeklyReset time.Time   `json:"last_weekly_reset"`
	CreatedAt       time.Time   `json:"created_at"`
	LastActiveAt    time.Time   `json:"last_active_at"`
}

// Owns reports whether the player owns the given item.
func (p *Player) Owns(itemID string) bool {
	for _, it := range p.OwnedItems {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}

// WinRate returns wins/played, or 0 when no games were played.
func (p *Player) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(p.GamesPlayed)
}
