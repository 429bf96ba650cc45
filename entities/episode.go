package entities

import (
	"github.com/google/uuid"
	"time"
)

type Episode struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SeriesId   uuid.UUID `json:"series_id" gorm:"type:uuid;not null;index:idx_episodes_series_id"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Season     int       `json:"season" gorm:"not null;default:1"`
	Number     int       `json:"number" gorm:"not null"`
	PlaybackId string    `json:"playback_id" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Episode) TableName() string {
	return "episodes"
}
