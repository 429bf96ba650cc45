package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"stream-backend/constant"
	"stream-backend/entities"
)

type Repository interface {
	Migrate(ctx context.Context) error
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB

	CreateUser(ctx context.Context, user *entities.User) error
	FindUserById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	SetUserPremium(ctx context.Context, id uuid.UUID, premium bool) error

	CreateMovie(ctx context.Context, movie *entities.Movie) error
	FindMovieById(ctx context.Context, id uuid.UUID) (*entities.Movie, error)
	ListMovies(ctx context.Context) ([]*entities.Movie, error)
	UpdateMoviePlaybackId(ctx context.Context, id uuid.UUID, playbackId string) error
	UpdateMoviePosterUrl(ctx context.Context, id uuid.UUID, url string) error

	CreateSeries(ctx context.Context, series *entities.Series) error
	FindSeriesById(ctx context.Context, id uuid.UUID) (*entities.Series, error)
	ListSeries(ctx context.Context) ([]*entities.Series, error)
	UpdateSeriesPosterUrl(ctx context.Context, id uuid.UUID, url string) error

	CreateEpisode(ctx context.Context, episode *entities.Episode) error
	FindEpisodeById(ctx context.Context, id uuid.UUID) (*entities.Episode, error)
	UpdateEpisodePlaybackId(ctx context.Context, id uuid.UUID, playbackId string) error

	CreateMediaAsset(ctx context.Context, asset *entities.MediaAsset) error
	FindMediaAssetById(ctx context.Context, id uuid.UUID) (*entities.MediaAsset, error)
	FindMediaAssetByUploadId(ctx context.Context, uploadId string) (*entities.MediaAsset, error)
	UpdateMediaAssetProgress(ctx context.Context, id uuid.UUID, status constant.AssetStatus, assetId string) error
	MarkMediaAssetReady(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType, playbackId string) error
	MarkMediaAssetFailed(ctx context.Context, id uuid.UUID) error

	CreateOrder(ctx context.Context, order *entities.Order) error
	FindOrderByProviderOrderId(ctx context.Context, providerOrderId string) (*entities.Order, error)
	MarkOrderPaid(ctx context.Context, id uuid.UUID, paymentId string) error

	CreateSubscription(ctx context.Context, sub *entities.Subscription) error
	FindActiveSubscription(ctx context.Context, userId uuid.UUID, at time.Time) (*entities.Subscription, error)

	CreatePromoRedemption(ctx context.Context, redemption *entities.PromoRedemption) error
	HasPromoRedemption(ctx context.Context, userId uuid.UUID, code string) (bool, error)
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) Repository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

// Migrate applies the schema once at startup; handlers never touch DDL.
func (r *repo) Migrate(ctx context.Context) error {
	return r.GetDB().WithContext(ctx).AutoMigrate(
		&entities.User{},
		&entities.Movie{},
		&entities.Series{},
		&entities.Episode{},
		&entities.MediaAsset{},
		&entities.Order{},
		&entities.Subscription{},
		&entities.PromoRedemption{},
	)
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.GetDB().Transaction(func(tx *gorm.DB) error {
		err := callback(ctx)
		if err != nil {
			return err
		}
		return nil
	}, opts...)
}

func (r *repo) CreateUser(ctx context.Context, user *entities.User) error {
	return r.GetDB().WithContext(ctx).Create(user).Error
}

func (r *repo) FindUserById(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user := &entities.User{}
	err := r.GetDB().WithContext(ctx).First(user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *repo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	user := &entities.User{}
	err := r.GetDB().WithContext(ctx).First(user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *repo) SetUserPremium(ctx context.Context, id uuid.UUID, premium bool) error {
	return r.GetDB().WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("is_premium", premium).Error
}

func (r *repo) CreateMovie(ctx context.Context, movie *entities.Movie) error {
	return r.GetDB().WithContext(ctx).Create(movie).Error
}

func (r *repo) FindMovieById(ctx context.Context, id uuid.UUID) (*entities.Movie, error) {
	movie := &entities.Movie{}
	err := r.GetDB().WithContext(ctx).First(movie, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return movie, nil
}

func (r *repo) ListMovies(ctx context.Context) ([]*entities.Movie, error) {
	var movies []*entities.Movie
	err := r.GetDB().WithContext(ctx).Order("created_at DESC").Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *repo) UpdateMoviePlaybackId(ctx context.Context, id uuid.UUID, playbackId string) error {
	tx := r.GetDB().WithContext(ctx).Model(&entities.Movie{}).Where("id = ?", id).Update("playback_id", playbackId)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) UpdateMoviePosterUrl(ctx context.Context, id uuid.UUID, url string) error {
	return r.GetDB().WithContext(ctx).Model(&entities.Movie{}).Where("id = ?", id).Update("poster_url", url).Error
}

func (r *repo) CreateSeries(ctx context.Context, series *entities.Series) error {
	return r.GetDB().WithContext(ctx).Create(series).Error
}

func (r *repo) FindSeriesById(ctx context.Context, id uuid.UUID) (*entities.Series, error) {
	series := &entities.Series{}
	err := r.GetDB().WithContext(ctx).First(series, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return series, nil
}

func (r *repo) ListSeries(ctx context.Context) ([]*entities.Series, error) {
	var series []*entities.Series
	err := r.GetDB().WithContext(ctx).Order("created_at DESC").Find(&series).Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

func (r *repo) UpdateSeriesPosterUrl(ctx context.Context, id uuid.UUID, url string) error {
	return r.GetDB().WithContext(ctx).Model(&entities.Series{}).Where("id = ?", id).Update("poster_url", url).Error
}

func (r *repo) CreateEpisode(ctx context.Context, episode *entities.Episode) error {
	return r.GetDB().WithContext(ctx).Create(episode).Error
}

func (r *repo) FindEpisodeById(ctx context.Context, id uuid.UUID) (*entities.Episode, error) {
	episode := &entities.Episode{}
	err := r.GetDB().WithContext(ctx).First(episode, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return episode, nil
}

func (r *repo) UpdateEpisodePlaybackId(ctx context.Context, id uuid.UUID, playbackId string) error {
	tx := r.GetDB().WithContext(ctx).Model(&entities.Episode{}).Where("id = ?", id).Update("playback_id", playbackId)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repo) CreateMediaAsset(ctx context.Context, asset *entities.MediaAsset) error {
	return r.GetDB().WithContext(ctx).Create(asset).Error
}

func (r *repo) FindMediaAssetById(ctx context.Context, id uuid.UUID) (*entities.MediaAsset, error) {
	asset := &entities.MediaAsset{}
	err := r.GetDB().WithContext(ctx).First(asset, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *repo) FindMediaAssetByUploadId(ctx context.Context, uploadId string) (*entities.MediaAsset, error) {
	asset := &entities.MediaAsset{}
	err := r.GetDB().WithContext(ctx).First(asset, "upload_id = ?", uploadId).Error
	if err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *repo) UpdateMediaAssetProgress(ctx context.Context, id uuid.UUID, status constant.AssetStatus, assetId string) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if assetId != "" {
		updates["asset_id"] = assetId
	}
	return r.GetDB().WithContext(ctx).Model(&entities.MediaAsset{}).Where("id = ?", id).Updates(updates).Error
}

// MarkMediaAssetReady keeps the playback invariant: playback_id and the READY
// status are written together. Repeating the same playback id is a no-op in
// effect, so finalize stays idempotent.
func (r *repo) MarkMediaAssetReady(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType, playbackId string) error {
	updates := map[string]interface{}{
		"status":      constant.AssetStatusReady,
		"playback_id": playbackId,
	}
	return r.GetDB().WithContext(ctx).Model(&entities.MediaAsset{}).
		Where("entry_id = ? AND entry_type = ?", entryId, entryType).
		Updates(updates).Error
}

func (r *repo) MarkMediaAssetFailed(ctx context.Context, id uuid.UUID) error {
	return r.GetDB().WithContext(ctx).Model(&entities.MediaAsset{}).Where("id = ?", id).Update("status", constant.AssetStatusFailed).Error
}

func (r *repo) CreateOrder(ctx context.Context, order *entities.Order) error {
	return r.GetDB().WithContext(ctx).Create(order).Error
}

func (r *repo) FindOrderByProviderOrderId(ctx context.Context, providerOrderId string) (*entities.Order, error) {
	order := &entities.Order{}
	err := r.GetDB().WithContext(ctx).First(order, "provider_order_id = ?", providerOrderId).Error
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *repo) MarkOrderPaid(ctx context.Context, id uuid.UUID, paymentId string) error {
	updates := map[string]interface{}{
		"status":     constant.OrderStatusPaid,
		"payment_id": paymentId,
	}
	return r.GetDB().WithContext(ctx).Model(&entities.Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repo) CreateSubscription(ctx context.Context, sub *entities.Subscription) error {
	return r.GetDB().WithContext(ctx).Create(sub).Error
}

func (r *repo) FindActiveSubscription(ctx context.Context, userId uuid.UUID, at time.Time) (*entities.Subscription, error) {
	sub := &entities.Subscription{}
	err := r.GetDB().WithContext(ctx).
		Where("user_id = ? AND starts_at <= ? AND expires_at > ?", userId, at, at).
		Order("expires_at DESC").
		First(sub).Error
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repo) CreatePromoRedemption(ctx context.Context, redemption *entities.PromoRedemption) error {
	return r.GetDB().WithContext(ctx).Create(redemption).Error
}

func (r *repo) HasPromoRedemption(ctx context.Context, userId uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.GetDB().WithContext(ctx).Model(&entities.PromoRedemption{}).
		Where("user_id = ? AND code = ?", userId, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
