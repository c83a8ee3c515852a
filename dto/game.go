package dto

import "time"

// Game lifecycle DTOs
type CreateGameRequest struct {
	Word     string `json:"word" validate:"required,game_word" example:"lighthouse"`
	UserID   string `json:"user_id" validate:"required" example:"usr_204958611"`
	Username string `json:"username" validate:"required,min=1,max=64" example:"sam"`
}

type JoinGameRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required,min=1,max=64"`
}

type StartGameRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type GuessRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required,min=1,max=64"`
	Letter   string `json:"letter" validate:"required"`
}

type EndGameRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type GamePlayerResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

type GameResponse struct {
	ID           string               `json:"id"`
	ChannelID    string               `json:"channel_id"`
	State        string               `json:"state"`
	StarterID    string               `json:"starter_id"`
	Players      []GamePlayerResponse `json:"players"`
	Guessed      []string             `json:"guessed"`
	MistakeCount int                  `json:"mistake_count"`
	MaxMistakes  int                  `json:"max_mistakes"`
	Display      string               `json:"display"`
	Word         string               `json:"word,omitempty"` // only on terminal states
	JoinDeadline time.Time            `json:"join_deadline"`
	CreatedAt    time.Time            `json:"created_at"`
	StartedAt    *time.Time           `json:"started_at"`
	EndedAt      *time.Time           `json:"ended_at"`
}

type JoinGameResponse struct {
	Game        GameResponse `json:"game"`
	PlayerCount int          `json:"player_count"`
}

type GuessResponse struct {
	Game         GameResponse `json:"game"`
	Letter       string       `json:"letter"`
	IsCorrect    bool         `json:"is_correct"`
	MistakeCount int          `json:"mistake_count"`
	MaxMistakes  int          `json:"max_mistakes"`
	State        string       `json:"state"`
	Display      string       `json:"display"`
	PointsPer    int          `json:"points_per_player,omitempty"` // set when the guess won the game
}
