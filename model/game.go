// model/game.go
package model

import (
	"time"
)

// GamePlayer is one joined participant, in join order.
type GamePlayer struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// GameSession is one word-guessing round, owned by the channel it was
// created in. At most one non-terminal session exists per channel: the
// document backend enforces that with a unique index on ActiveChannel,
// which is set while the session is waiting/active and cleared on the
// terminal transition.
type GameSession struct {
	ID            string       `json:"id" gorm:"primaryKey"`
	ChannelID     string       `json:"channel_id" gorm:"index;not null"`
	ActiveChannel *string      `json:"-" gorm:"uniqueIndex"`
	Word          string       `json:"word" gorm:"not null"`
	WordNormal    string       `json:"word_normal" gorm:"not null"` // lowercase form used for matching
	State         string       `json:"state" gorm:"index;not null"`
	StarterID     string       `json:"starter_id" gorm:"not null"`
	Players       []GamePlayer `json:"players" gorm:"serializer:json;type:text"`
	Guessed       []string     `json:"guessed" gorm:"serializer:json;type:text"`
	MistakeCount  int          `json:"mistake_count" gorm:"not null"`
	MaxMistakes   int          `json:"max_mistakes" gorm:"not null"`
	JoinDeadline  time.Time    `json:"join_deadline"`
	CreatedAt     time.Time    `json:"created_at"`
	StartedAt     *time.Time   `json:"started_at"`
	EndedAt       *time.Time   `json:"ended_at"`
}

// HasPlayer reports whether the given user has joined this session.
func (g *GameSession) HasPlayer(userID string) bool {
	for _, p := range g.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// HasGuessed reports whether the letter was already guessed.
func (g *GameSession) HasGuessed(letter string) bool {
	for _, l := range g.Guessed {
		if l == letter {
			return true
		}
	}
	return false
}
