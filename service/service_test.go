package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stream-backend/constant"
	"stream-backend/entities"
	"stream-backend/pkg/muxapi"
)

// fakeRepo is an in-memory stand-in for the persistence gateway shared by the
// service tests.
type fakeRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entities.User
	movies   map[uuid.UUID]*entities.Movie
	series   map[uuid.UUID]*entities.Series
	episodes map[uuid.UUID]*entities.Episode
	assets   map[uuid.UUID]*entities.MediaAsset
	orders   map[uuid.UUID]*entities.Order
	subs     []*entities.Subscription
	promos   map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    map[uuid.UUID]*entities.User{},
		movies:   map[uuid.UUID]*entities.Movie{},
		series:   map[uuid.UUID]*entities.Series{},
		episodes: map[uuid.UUID]*entities.Episode{},
		assets:   map[uuid.UUID]*entities.MediaAsset{},
		orders:   map[uuid.UUID]*entities.Order{},
		promos:   map[string]bool{},
	}
}

func (f *fakeRepo) Migrate(ctx context.Context) error { return nil }

func (f *fakeRepo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return callback(ctx)
}

func (f *fakeRepo) GetDB() *gorm.DB { return nil }

func (f *fakeRepo) CreateUser(ctx context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return fmt.Errorf("duplicate email")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) FindUserById(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) SetUserPremium(ctx context.Context, id uuid.UUID, premium bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		user.IsPremium = premium
	}
	return nil
}

func (f *fakeRepo) CreateMovie(ctx context.Context, movie *entities.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies[movie.ID] = movie
	return nil
}

func (f *fakeRepo) FindMovieById(ctx context.Context, id uuid.UUID) (*entities.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	movie, ok := f.movies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return movie, nil
}

func (f *fakeRepo) ListMovies(ctx context.Context) ([]*entities.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Movie
	for _, m := range f.movies {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) UpdateMoviePlaybackId(ctx context.Context, id uuid.UUID, playbackId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	movie, ok := f.movies[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	movie.PlaybackId = playbackId
	return nil
}

func (f *fakeRepo) UpdateMoviePosterUrl(ctx context.Context, id uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if movie, ok := f.movies[id]; ok {
		movie.PosterUrl = url
	}
	return nil
}

func (f *fakeRepo) CreateSeries(ctx context.Context, series *entities.Series) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[series.ID] = series
	return nil
}

func (f *fakeRepo) FindSeriesById(ctx context.Context, id uuid.UUID) (*entities.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	series, ok := f.series[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return series, nil
}

func (f *fakeRepo) ListSeries(ctx context.Context) ([]*entities.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Series
	for _, s := range f.series {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) UpdateSeriesPosterUrl(ctx context.Context, id uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if series, ok := f.series[id]; ok {
		series.PosterUrl = url
	}
	return nil
}

func (f *fakeRepo) CreateEpisode(ctx context.Context, episode *entities.Episode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodes[episode.ID] = episode
	return nil
}

func (f *fakeRepo) FindEpisodeById(ctx context.Context, id uuid.UUID) (*entities.Episode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	episode, ok := f.episodes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return episode, nil
}

func (f *fakeRepo) UpdateEpisodePlaybackId(ctx context.Context, id uuid.UUID, playbackId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	episode, ok := f.episodes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	episode.PlaybackId = playbackId
	return nil
}

func (f *fakeRepo) CreateMediaAsset(ctx context.Context, asset *entities.MediaAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeRepo) FindMediaAssetById(ctx context.Context, id uuid.UUID) (*entities.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *asset
	return &copied, nil
}

func (f *fakeRepo) FindMediaAssetByUploadId(ctx context.Context, uploadId string) (*entities.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assets {
		if a.UploadId == uploadId {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateMediaAssetProgress(ctx context.Context, id uuid.UUID, status constant.AssetStatus, assetId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if asset, ok := f.assets[id]; ok {
		asset.Status = status
		if assetId != "" {
			asset.AssetId = assetId
		}
	}
	return nil
}

func (f *fakeRepo) MarkMediaAssetReady(ctx context.Context, entryId uuid.UUID, entryType constant.EntryType, playbackId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, asset := range f.assets {
		if asset.EntryId == entryId && asset.EntryType == entryType {
			asset.Status = constant.AssetStatusReady
			asset.PlaybackId = playbackId
		}
	}
	return nil
}

func (f *fakeRepo) MarkMediaAssetFailed(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if asset, ok := f.assets[id]; ok {
		asset.Status = constant.AssetStatusFailed
	}
	return nil
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order *entities.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepo) FindOrderByProviderOrderId(ctx context.Context, providerOrderId string) (*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ProviderOrderId == providerOrderId {
			copied := *o
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) MarkOrderPaid(ctx context.Context, id uuid.UUID, paymentId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[id]; ok {
		order.Status = constant.OrderStatusPaid
		order.PaymentId = paymentId
	}
	return nil
}

func (f *fakeRepo) CreateSubscription(ctx context.Context, sub *entities.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeRepo) FindActiveSubscription(ctx context.Context, userId uuid.UUID, at time.Time) (*entities.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.UserId == userId && !s.StartsAt.After(at) && s.ExpiresAt.After(at) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreatePromoRedemption(ctx context.Context, redemption *entities.PromoRedemption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := redemption.UserId.String() + "|" + redemption.Code
	if f.promos[key] {
		return fmt.Errorf("duplicate redemption")
	}
	f.promos[key] = true
	return nil
}

func (f *fakeRepo) HasPromoRedemption(ctx context.Context, userId uuid.UUID, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.promos[userId.String()+"|"+code], nil
}

// fakeProvider simulates the video provider's upload and asset lifecycle.
type fakeProvider struct {
	mu           sync.Mutex
	seq          int
	uploads      map[string]*muxapi.DirectUpload
	assets       map[string]*muxapi.Asset
	createErr    error
	getUploadErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		uploads: map[string]*muxapi.DirectUpload{},
		assets:  map[string]*muxapi.Asset{},
	}
}

func (f *fakeProvider) CreateDirectUpload(ctx context.Context) (*muxapi.DirectUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	id := fmt.Sprintf("upload-%03d", f.seq)
	upload := &muxapi.DirectUpload{
		Id:     id,
		Url:    "https://storage.example.com/" + id,
		Status: "waiting",
	}
	f.uploads[id] = upload
	return upload, nil
}

func (f *fakeProvider) GetDirectUpload(ctx context.Context, uploadId string) (*muxapi.DirectUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUploadErr != nil {
		return nil, f.getUploadErr
	}
	upload, ok := f.uploads[uploadId]
	if !ok {
		return nil, muxapi.ErrNotFound
	}
	copied := *upload
	return &copied, nil
}

func (f *fakeProvider) GetAsset(ctx context.Context, assetId string) (*muxapi.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset, ok := f.assets[assetId]
	if !ok {
		return nil, muxapi.ErrNotFound
	}
	copied := *asset
	return &copied, nil
}

// attachAsset simulates the provider accepting the uploaded bytes.
func (f *fakeProvider) attachAsset(uploadId, assetId, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[uploadId].AssetId = assetId
	f.assets[assetId] = &muxapi.Asset{Id: assetId, Status: status}
}

// markReady simulates encoding completion.
func (f *fakeProvider) markReady(assetId, playbackId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	asset := f.assets[assetId]
	asset.Status = "ready"
	if playbackId != "" {
		asset.PlaybackIds = []muxapi.PlaybackId{{Id: playbackId, Policy: "public"}}
	}
}

type publishedEvent struct {
	routingKey string
	payload    interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

func (f *fakePublisher) byKey(routingKey string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishedEvent
	for _, e := range f.events {
		if e.routingKey == routingKey {
			out = append(out, e)
		}
	}
	return out
}

type fakeGateway struct {
	seq int
	err error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.seq++
	return fmt.Sprintf("order_fake_%d", f.seq), nil
}
