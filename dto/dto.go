package dto

import (
	"github.com/google/uuid"
	"stream-backend/constant"
)

// IngestMessage asks the reconcile worker to follow one upload session
// through the provider until it is playable.
type IngestMessage struct {
	AssetId  uuid.UUID `json:"assetId"`
	UploadId string    `json:"uploadId"`
}

type AssetReadyMessage struct {
	AssetId    uuid.UUID          `json:"assetId"`
	EntryId    uuid.UUID          `json:"entryId"`
	EntryType  constant.EntryType `json:"entryType"`
	PlaybackId string             `json:"playbackId"`
}

type OrderPaidMessage struct {
	OrderId   uuid.UUID `json:"orderId"`
	UserId    uuid.UUID `json:"userId"`
	PaymentId string    `json:"paymentId"`
}
