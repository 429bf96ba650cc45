package entities

import (
	"github.com/google/uuid"
	"stream-backend/constant"
	"time"
)

type Order struct {
	ID              uuid.UUID            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserId          uuid.UUID            `json:"user_id" gorm:"type:uuid;not null;index:idx_orders_user_id"`
	ProviderOrderId string               `json:"provider_order_id" gorm:"type:varchar(255);not null;uniqueIndex:unique_provider_order_id"`
	Amount          int64                `json:"amount" gorm:"not null"`
	Currency        string               `json:"currency" gorm:"type:varchar(10);not null"`
	Plan            constant.Plan        `json:"plan" gorm:"type:varchar(20)"`
	PaymentId       string               `json:"payment_id" gorm:"type:varchar(255)"`
	Status          constant.OrderStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
