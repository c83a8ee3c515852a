// model/catalog.go
package model

// DefaultCatalog is the static cosmetic catalog. Seeding is idempotent:
// items already present in storage are never overwritten, so edits here
// only affect fresh installs.
func DefaultCatalog() []ShopItem {
	return []ShopItem{
		{ID: "prefix_champ", Name: "Champion", Description: "A golden [CHAMP] tag before your name", Cost: 150, Category: "prefix", Value: "[CHAMP]", Emoji: "🏆", Color: "#ffd700", Available: true},
		{ID: "prefix_wizard", Name: "Word Wizard", Description: "Show everyone who the real wordsmith is", Cost: 120, Category: "prefix", Value: "[WIZARD]", Emoji: "🧙", Color: "#9370db", Available: true},
		{ID: "prefix_sharp", Name: "Sharpshooter", Description: "For players who rarely miss a letter", Cost: 100, Category: "prefix", Value: "[SHARP]", Emoji: "🎯", Color: "#dc143c", Available: true},
		{ID: "theme_midnight", Name: "Midnight", Description: "Dark board theme", Cost: 200, Category: "theme", Value: "midnight", Color: "#191970", Available: true},
		{ID: "theme_sunrise", Name: "Sunrise", Description: "Warm orange board theme", Cost: 200, Category: "theme", Value: "sunrise", Color: "#ff8c00", Available: true},
		{ID: "theme_forest", Name: "Forest", Description: "Green board theme", Cost: 180, Category: "theme", Value: "forest", Color: "#228b22", Available: true},
		{ID: "emoji_fire", Name: "Fire Reaction", Description: "React with fire on correct guesses", Cost: 60, Category: "emoji", Emoji: "🔥", Available: true},
		{ID: "emoji_skull", Name: "Skull Reaction", Description: "React with a skull on wrong guesses", Cost: 60, Category: "emoji", Emoji: "💀", Available: true},
		{ID: "badge_founder", Name: "Founder Badge", Description: "Limited badge for early players", Cost: 500, Category: "badge", Emoji: "🌟", Available: true, Limited: true},
		{ID: "badge_veteran", Name: "Veteran Badge", Description: "For the long haul", Cost: 300, Category: "badge", Emoji: "🎖️", Available: true},
	}
}
