package handler

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"stream-backend/dto"
	"stream-backend/service"
)

type ServiceDependencies struct {
	IngestService service.IngestService
}

// ReconcileHandler feeds ingest.requested messages into the reconcile workflow.
func ReconcileHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var ingest dto.IngestMessage
	if err := json.Unmarshal(msg.Body, &ingest); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal ingest message")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("asset_id", ingest.AssetId.String()).
		Str("upload_id", ingest.UploadId).
		Msg("received ingest message")

	err := deps.IngestService.Reconcile(ctx, ingest)
	if err != nil {
		return err
	}

	return nil
}
