package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"stream-backend/entities"
	"stream-backend/repository"
)

// EntitlementService gates playback: a user may watch premium content when
// the premium flag is set or an active subscription window exists.
type EntitlementService interface {
	CheckPremium(ctx context.Context, userId uuid.UUID) (bool, error)
	CheckSubscription(ctx context.Context, userId uuid.UUID) (*entities.Subscription, error)
	Access(ctx context.Context, userId uuid.UUID) (bool, error)
}

type entitlementService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewEntitlementService(repo repository.Repository) EntitlementService {
	return &entitlementService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *entitlementService) CheckPremium(ctx context.Context, userId uuid.UUID) (bool, error) {
	user, err := s.repo.FindUserById(ctx, userId)
	if err != nil {
		return false, err
	}
	return user.IsPremium, nil
}

// CheckSubscription returns nil without error when no window is active.
func (s *entitlementService) CheckSubscription(ctx context.Context, userId uuid.UUID) (*entities.Subscription, error) {
	sub, err := s.repo.FindActiveSubscription(ctx, userId, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (s *entitlementService) Access(ctx context.Context, userId uuid.UUID) (bool, error) {
	premium, err := s.CheckPremium(ctx, userId)
	if err != nil {
		return false, err
	}
	if premium {
		return true, nil
	}

	sub, err := s.CheckSubscription(ctx, userId)
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}
