package dto

import "time"

type PurchaseRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required,min=1,max=64"`
	Item     string `json:"item" validate:"required"` // item id or (partial) display name
}

type EquipRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Category string `json:"category" validate:"required,oneof=prefix theme"`
	ItemID   string `json:"item_id" validate:"required"`
}

type ShopItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Category    string `json:"category"`
	Value       string `json:"value,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Color       string `json:"color,omitempty"`
	Limited     bool   `json:"limited"`
	Purchases   int    `json:"purchases"`
}

type ShopListResponse struct {
	Items []ShopItemResponse `json:"items"`
	Total int                `json:"total"`
}

type PurchaseResponse struct {
	Item            ShopItemResponse `json:"item"`
	RemainingWeekly int              `json:"remaining_weekly_points"`
}

type OwnedItemResponse struct {
	ItemID      string    `json:"item_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type PlayerProfileResponse struct {
	UserID          string              `json:"user_id"`
	Username        string              `json:"username"`
	WeeklyPoints    int                 `json:"weekly_points"`
	LifetimePoints  int                 `json:"lifetime_points"`
	GamesPlayed     int                 `json:"games_played"`
	GamesWon        int                 `json:"games_won"`
	LettersGuessed  int                 `json:"letters_guessed"`
	CorrectGuesses  int                 `json:"correct_guesses"`
	Accuracy        float64             `json:"accuracy"`
	OwnedItems      []OwnedItemResponse `json:"owned_items"`
	ActivePrefix    *string             `json:"active_prefix"`
	ActiveTheme     *string             `json:"active_theme"`
	NeedsReset      bool                `json:"needs_weekly_reset"`
	LastWeeklyReset time.Time           `json:"last_weekly_reset"`
	CreatedAt       time.Time           `json:"created_at"`
}
