package entities

import (
	"github.com/google/uuid"
	"stream-backend/constant"
	"time"
)

type Subscription struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId    uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index:idx_subscriptions_user_id"`
	Plan      constant.Plan `json:"plan" gorm:"type:varchar(20);not null"`
	StartsAt  time.Time     `json:"starts_at" gorm:"type:timestamptz;not null"`
	ExpiresAt time.Time     `json:"expires_at" gorm:"type:timestamptz;not null"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
