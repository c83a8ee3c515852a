package dto

type LeaderboardEntry struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Rank     int     `json:"rank"`
	Points   int     `json:"points,omitempty"`
	Wins     int     `json:"wins,omitempty"`
	Played   int     `json:"played,omitempty"`
	WinRate  float64 `json:"win_rate,omitempty"`
}

type LeaderboardResponse struct {
	Period  string             `json:"period"` // weekly, lifetime, winrate
	Entries []LeaderboardEntry `json:"entries"`
}
