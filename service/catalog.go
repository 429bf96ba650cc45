package service

import (
	"context"

	"github.com/google/uuid"
	"stream-backend/entities"
	"stream-backend/repository"
)

type CatalogService interface {
	CreateMovie(ctx context.Context, title, description, trailerUrl string) (*entities.Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*entities.Movie, error)
	ListMovies(ctx context.Context) ([]*entities.Movie, error)
	CreateSeries(ctx context.Context, title, description string) (*entities.Series, error)
	ListSeries(ctx context.Context) ([]*entities.Series, error)
	CreateEpisode(ctx context.Context, seriesId uuid.UUID, title string, season, number int) (*entities.Episode, error)
}

type catalogService struct {
	repo repository.Repository
}

func NewCatalogService(repo repository.Repository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) CreateMovie(ctx context.Context, title, description, trailerUrl string) (*entities.Movie, error) {
	movie := &entities.Movie{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		TrailerUrl:  trailerUrl,
	}
	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *catalogService) GetMovie(ctx context.Context, id uuid.UUID) (*entities.Movie, error) {
	return s.repo.FindMovieById(ctx, id)
}

func (s *catalogService) ListMovies(ctx context.Context) ([]*entities.Movie, error) {
	return s.repo.ListMovies(ctx)
}

func (s *catalogService) CreateSeries(ctx context.Context, title, description string) (*entities.Series, error) {
	series := &entities.Series{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
	}
	if err := s.repo.CreateSeries(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *catalogService) ListSeries(ctx context.Context) ([]*entities.Series, error) {
	return s.repo.ListSeries(ctx)
}

func (s *catalogService) CreateEpisode(ctx context.Context, seriesId uuid.UUID, title string, season, number int) (*entities.Episode, error) {
	if _, err := s.repo.FindSeriesById(ctx, seriesId); err != nil {
		return nil, err
	}

	episode := &entities.Episode{
		ID:       uuid.New(),
		SeriesId: seriesId,
		Title:    title,
		Season:   season,
		Number:   number,
	}
	if err := s.repo.CreateEpisode(ctx, episode); err != nil {
		return nil, err
	}
	return episode, nil
}
