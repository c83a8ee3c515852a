package dto

type ResetWeeklyResponse struct {
	ResetCount int `json:"reset_count"`
}

type PurgeGamesRequest struct {
	OlderThanHours int `json:"older_than_hours" validate:"omitempty,min=1"`
}

type PurgeGamesResponse struct {
	PurgedCount int `json:"purged_count"`
}
