package entities

import (
	"github.com/google/uuid"
	"time"
)

type Movie struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	PosterUrl   string    `json:"poster_url" gorm:"type:varchar(500)"`
	TrailerUrl  string    `json:"trailer_url" gorm:"type:varchar(500)"`
	PlaybackId  string    `json:"playback_id" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}
