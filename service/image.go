package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
	"stream-backend/config"
	"stream-backend/repository"
)

// ImageService relays poster binaries to the object store and persists the
// public URL on the owning catalog row.
type ImageService interface {
	UploadMoviePoster(ctx context.Context, movieId uuid.UUID, filename string, data []byte, contentType string) (string, error)
	UploadSeriesPoster(ctx context.Context, seriesId uuid.UUID, filename string, data []byte, contentType string) (string, error)
}

type imageService struct {
	repo repository.Repository
	cfg  *config.Config
}

func NewImageService(repo repository.Repository, cfg *config.Config) ImageService {
	return &imageService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *imageService) UploadMoviePoster(ctx context.Context, movieId uuid.UUID, filename string, data []byte, contentType string) (string, error) {
	url, err := s.put(ctx, movieId, filename, data, contentType)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateMoviePosterUrl(ctx, movieId, url); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("movie_id", movieId.String()).Msg("failed to persist poster url")
		return "", err
	}
	return url, nil
}

func (s *imageService) UploadSeriesPoster(ctx context.Context, seriesId uuid.UUID, filename string, data []byte, contentType string) (string, error) {
	url, err := s.put(ctx, seriesId, filename, data, contentType)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateSeriesPosterUrl(ctx, seriesId, url); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("series_id", seriesId.String()).Msg("failed to persist poster url")
		return "", err
	}
	return url, nil
}

func (s *imageService) put(ctx context.Context, entryId uuid.UUID, filename string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("posters/%s-%s", entryId, SanitizeFilename(filename))
	_, err := s.cfg.Storage.PutObject(ctx, s.cfg.MinIOBucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("object", objectName).Msg("failed to upload image")
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.PublicMediaURL, "/"), s.cfg.MinIOBucket, objectName), nil
}

// SanitizeFilename replaces every rune outside [a-zA-Z0-9.] with a dash so
// the object name stays URL-safe.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
