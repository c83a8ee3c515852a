// model/shop.go
package model

import (
	"time"
)

// ShopItem is one purchasable cosmetic. Seeded from the static catalog,
// never deleted; retired items are marked unavailable instead.
type ShopItem struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Cost        int       `json:"cost" gorm:"not null"`
	Category    string    `json:"category" gorm:"index;not null"` // prefix, theme, emoji, badge
	Value       string    `json:"value"`
	Emoji       string    `json:"emoji"`
	Color       string    `json:"color"`
	Available   bool      `json:"available" gorm:"not null;default:true"`
	Limited     bool      `json:"limited" gorm:"not null;default:false"`
	Purchases   int       `json:"purchases" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}
