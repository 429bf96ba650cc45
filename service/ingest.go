package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"stream-backend/constant"
	"stream-backend/dto"
	"stream-backend/entities"
	"stream-backend/pkg/muxapi"
	"stream-backend/repository"
)

const (
	providerAssetReady   = "ready"
	providerAssetErrored = "errored"
)

// MediaProvider is the slice of the video provider API the workflow needs.
type MediaProvider interface {
	CreateDirectUpload(ctx context.Context) (*muxapi.DirectUpload, error)
	GetDirectUpload(ctx context.Context, uploadId string) (*muxapi.DirectUpload, error)
	GetAsset(ctx context.Context, assetId string) (*muxapi.Asset, error)
}

// UploadTarget is the single-use capability handed back to the caller. It is
// never persisted; the client uploads straight to the provider.
type UploadTarget struct {
	Url      string `json:"url"`
	UploadId string `json:"uploadId"`
}

type PollResult struct {
	Ready      bool   `json:"ready"`
	Errored    bool   `json:"errored,omitempty"`
	AssetId    string `json:"assetId,omitempty"`
	PlaybackId string `json:"playbackId,omitempty"`
}

type IngestService interface {
	BeginUpload(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType) (*UploadTarget, error)
	PollStatus(ctx context.Context, uploadId string) (*PollResult, error)
	Finalize(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType, playbackId string) error
	Reconcile(ctx context.Context, message dto.IngestMessage) error
}

type ingestService struct {
	repo     repository.Repository
	provider MediaProvider
	events   EventPublisher
}

func NewIngestService(repo repository.Repository, provider MediaProvider, events EventPublisher) IngestService {
	return &ingestService{
		repo:     repo,
		provider: provider,
		events:   events,
	}
}

// BeginUpload mints exactly one upload session per call. There is no
// idempotency key: a retried call mints a second, independently billed
// session, so callers must not retry blindly.
func (s *ingestService) BeginUpload(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType) (*UploadTarget, error) {
	upload, err := s.provider.CreateDirectUpload(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create direct upload")
		return nil, err
	}

	asset := &entities.MediaAsset{
		ID:        uuid.New(),
		EntryId:   entryId,
		EntryType: entryType,
		UploadId:  upload.Id,
		Status:    constant.AssetStatusUploading,
	}
	if err := s.repo.CreateMediaAsset(ctx, asset); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to persist media asset")
		return nil, err
	}

	msg := dto.IngestMessage{AssetId: asset.ID, UploadId: upload.Id}
	if err := s.events.Publish(ctx, EventIngestRequested, msg); err != nil {
		// The client poll path still works without the reconcile worker.
		zerolog.Ctx(ctx).Error().Err(err).Str("upload_id", upload.Id).Msg("failed to publish ingest event")
	}

	zerolog.Ctx(ctx).Info().Str("upload_id", upload.Id).Str("entry_id", entryId.String()).Msg("upload session minted")
	return &UploadTarget{Url: upload.Url, UploadId: upload.Id}, nil
}

// PollStatus is a pure read against the provider; nothing is persisted here.
// Callers invoke Finalize once they observe ready.
func (s *ingestService) PollStatus(ctx context.Context, uploadId string) (*PollResult, error) {
	upload, err := s.provider.GetDirectUpload(ctx, uploadId)
	if err != nil {
		return nil, err
	}

	if upload.AssetId == "" {
		return &PollResult{Ready: false}, nil
	}

	asset, err := s.provider.GetAsset(ctx, upload.AssetId)
	if err != nil {
		return nil, err
	}

	// an errored asset never becomes playable; callers must stop polling
	if asset.Status == providerAssetErrored {
		return &PollResult{Errored: true, AssetId: asset.Id}, nil
	}

	if asset.Status == providerAssetReady && len(asset.PlaybackIds) > 0 {
		return &PollResult{
			Ready:      true,
			AssetId:    asset.Id,
			PlaybackId: asset.PlaybackIds[0].Id,
		}, nil
	}

	return &PollResult{Ready: false, AssetId: upload.AssetId}, nil
}

// Finalize writes the playback id onto the catalog entry. Repeating the same
// playback id leaves the entry in the same final state.
func (s *ingestService) Finalize(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType, playbackId string) error {
	if playbackId == "" {
		return errors.New("playback id is empty")
	}

	var err error
	switch entryType {
	case constant.EntryTypeMovie:
		err = s.repo.UpdateMoviePlaybackId(ctx, entryId, playbackId)
	case constant.EntryTypeEpisode:
		err = s.repo.UpdateEpisodePlaybackId(ctx, entryId, playbackId)
	default:
		return errors.New("unknown entry type")
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("entry_id", entryId.String()).Msg("failed to attach playback id")
		return err
	}

	if err := s.repo.MarkMediaAssetReady(ctx, entryId, entryType, playbackId); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("entry_id", entryId.String()).Msg("failed to mark media asset ready")
		return err
	}

	msg := dto.AssetReadyMessage{EntryId: entryId, EntryType: entryType, PlaybackId: playbackId}
	if err := s.events.Publish(ctx, EventAssetReady, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("entry_id", entryId.String()).Msg("failed to publish asset ready event")
	}

	zerolog.Ctx(ctx).Info().Str("entry_id", entryId.String()).Str("playback_id", playbackId).Msg("ingestion finalized")
	return nil
}

// Reconcile follows one upload session server-side until the provider reports
// a playable asset, then finalizes. Client polling stays available; this path
// makes completion independent of it.
func (s *ingestService) Reconcile(ctx context.Context, message dto.IngestMessage) (err error) {
	zerolog.Ctx(ctx).Info().Str("asset_id", message.AssetId.String()).Msg("reconciling upload session")

	asset, err := s.repo.FindMediaAssetById(ctx, message.AssetId)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to find media asset by id")
		return err
	}

	if asset.Status != constant.AssetStatusUploading && asset.Status != constant.AssetStatusProcessing {
		zerolog.Ctx(ctx).Info().Str("asset_id", message.AssetId.String()).Str("status", string(asset.Status)).Msg("asset is not in flight")
		return nil
	}

	defer func() {
		if err != nil && errors.Is(err, ErrNonRetryable) {
			if updateErr := s.repo.MarkMediaAssetFailed(ctx, asset.ID); updateErr != nil {
				zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to mark media asset failed")
			}
			err = nil
		}
	}()

	operation := func() (*PollResult, error) {
		result, pollErr := s.PollStatus(ctx, asset.UploadId)
		if pollErr != nil {
			if errors.Is(pollErr, muxapi.ErrNotFound) {
				return nil, backoff.Permanent(errors.Join(ErrNonRetryable, pollErr))
			}
			return nil, pollErr
		}

		if result.Errored {
			return nil, backoff.Permanent(errors.Join(ErrNonRetryable, errors.New("provider reported a failed encode")))
		}

		if !result.Ready {
			if result.AssetId != "" && asset.Status != constant.AssetStatusProcessing {
				if updateErr := s.repo.UpdateMediaAssetProgress(ctx, asset.ID, constant.AssetStatusProcessing, result.AssetId); updateErr != nil {
					zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to record encoding progress")
				} else {
					asset.Status = constant.AssetStatusProcessing
				}
			}
			return nil, errors.New("asset not ready")
		}

		return result, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 2 * time.Minute
	result, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(20))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("upload_id", asset.UploadId).Msg("upload session did not become ready")
		return err
	}

	return s.Finalize(ctx, asset.EntryId, asset.EntryType, result.PlaybackId)
}
