package entities

import (
	"github.com/google/uuid"
	"stream-backend/constant"
	"time"
)

// MediaAsset tracks one uploaded media item from session mint to playback.
// PlaybackId is set if and only if Status is READY.
type MediaAsset struct {
	ID         uuid.UUID            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EntryId    uuid.UUID            `json:"entry_id" gorm:"type:uuid;not null;index:idx_media_assets_entry_id"`
	EntryType  constant.EntryType   `json:"entry_type" gorm:"type:varchar(20);not null"`
	UploadId   string               `json:"upload_id" gorm:"type:varchar(255);not null;index:idx_media_assets_upload_id"`
	AssetId    string               `json:"asset_id" gorm:"type:varchar(255)"`
	PlaybackId string               `json:"playback_id" gorm:"type:varchar(255)"`
	Status     constant.AssetStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func (MediaAsset) TableName() string {
	return "media_assets"
}
