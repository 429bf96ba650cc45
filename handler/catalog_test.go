package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"stream-backend/entities"
)

type stubCatalog struct {
	movie *entities.Movie
	err   error
}

func (s *stubCatalog) CreateMovie(ctx context.Context, title, description, trailerUrl string) (*entities.Movie, error) {
	return s.movie, s.err
}

func (s *stubCatalog) GetMovie(ctx context.Context, id uuid.UUID) (*entities.Movie, error) {
	return s.movie, s.err
}

func (s *stubCatalog) ListMovies(ctx context.Context) ([]*entities.Movie, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entities.Movie{s.movie}, nil
}

func (s *stubCatalog) CreateSeries(ctx context.Context, title, description string) (*entities.Series, error) {
	return nil, s.err
}

func (s *stubCatalog) ListSeries(ctx context.Context) ([]*entities.Series, error) {
	return nil, s.err
}

func (s *stubCatalog) CreateEpisode(ctx context.Context, seriesId uuid.UUID, title string, season, number int) (*entities.Episode, error) {
	return nil, s.err
}

func newCatalogRouter(stub *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(stub)
	r.GET("/movie/:id", h.GetMovie)
	r.GET("/movies", h.ListMovies)
	return r
}

func TestGetMovieNotFound(t *testing.T) {
	r := newCatalogRouter(&stubCatalog{err: gorm.ErrRecordNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movie/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"movie not found"}`, w.Body.String())
}

func TestGetMovieInvalidId(t *testing.T) {
	r := newCatalogRouter(&stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movie/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMovieFound(t *testing.T) {
	movie := &entities.Movie{ID: uuid.New(), Title: "Stalker", PlaybackId: "playback-1"}
	r := newCatalogRouter(&stubCatalog{movie: movie})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/movie/"+movie.ID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stalker")
	assert.Contains(t, w.Body.String(), "playback-1")
}
