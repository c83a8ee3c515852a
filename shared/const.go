package shared

const (
	UserID = "user_id"

	StateWaiting = "waiting"
	StateActive  = "active"
	StateWon     = "won"
	StateLost    = "lost"

	CategoryPrefix = "prefix"
	CategoryTheme  = "theme"
	CategoryEmoji  = "emoji"
	CategoryBadge  = "badge"

	MaxMistakes = 6
	MaxPlayers  = 4
	MinPlayers  = 2

	JoinWindowSeconds = 60

	MinWordLength = 3
	MaxWordLength = 30
)

func IsTerminalState(state string) bool {
	return state == StateWon || state == StateLost
}

func IsValidCategory(category string) bool {
	switch category {
	case CategoryPrefix, CategoryTheme, CategoryEmoji, CategoryBadge:
		return true
	}
	return false
}
