package entities

import (
	"github.com/google/uuid"
	"time"
)

type PromoRedemption struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:unique_promo_user_code"`
	Code       string    `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:unique_promo_user_code"`
	RedeemedAt time.Time `json:"redeemed_at" gorm:"type:timestamptz;not null"`
}

func (PromoRedemption) TableName() string {
	return "promo_redemptions"
}
