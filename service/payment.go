package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"stream-backend/constant"
	"stream-backend/dto"
	"stream-backend/entities"
	"stream-backend/pkg/payment"
	"stream-backend/repository"
)

var (
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrUnknownPromoCode  = errors.New("unknown promo code")
	ErrPromoAlreadyUsed  = errors.New("promo code already used")
	ErrInvalidPlan       = errors.New("invalid plan")
)

// PaymentGateway is the slice of the payment provider the settlement flow needs.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
}

type PaymentService interface {
	CreateOrder(ctx context.Context, userId uuid.UUID, amount int64, currency string, plan constant.Plan) (*entities.Order, error)
	VerifyPayment(ctx context.Context, providerOrderId, paymentId, signature string) error
	ApplyPromo(ctx context.Context, userId uuid.UUID, code string) (*entities.Subscription, error)
}

type paymentService struct {
	repo       repository.Repository
	gateway    PaymentGateway
	secret     string
	promoCodes map[string]int
	events     EventPublisher
	now        func() time.Time
}

func NewPaymentService(repo repository.Repository, gateway PaymentGateway, secret string, promoCodes map[string]int, events EventPublisher) PaymentService {
	return &paymentService{
		repo:       repo,
		gateway:    gateway,
		secret:     secret,
		promoCodes: promoCodes,
		events:     events,
		now:        time.Now,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, userId uuid.UUID, amount int64, currency string, plan constant.Plan) (*entities.Order, error) {
	if plan != "" && plan.Months() == 0 {
		return nil, ErrInvalidPlan
	}
	if currency == "" {
		currency = "INR"
	}

	order := &entities.Order{
		ID:       uuid.New(),
		UserId:   userId,
		Amount:   amount,
		Currency: currency,
		Plan:     plan,
		Status:   constant.OrderStatusCreated,
	}

	providerOrderId, err := s.gateway.CreateOrder(ctx, amount, currency, "rcpt_"+order.ID.String())
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create gateway order")
		return nil, err
	}
	order.ProviderOrderId = providerOrderId

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("provider_order_id", providerOrderId).Msg("failed to persist order")
		return nil, err
	}

	return order, nil
}

// VerifyPayment checks the callback signature and, on a match, settles the
// order: status paid, premium flag, and a subscription window when the order
// carries a plan. A mismatch mutates nothing.
func (s *paymentService) VerifyPayment(ctx context.Context, providerOrderId, paymentId, signature string) error {
	order, err := s.repo.FindOrderByProviderOrderId(ctx, providerOrderId)
	if err != nil {
		return err
	}

	if !payment.VerifySignature(providerOrderId, paymentId, s.secret, signature) {
		zerolog.Ctx(ctx).Warn().Str("provider_order_id", providerOrderId).Msg("payment signature mismatch")
		return ErrSignatureMismatch
	}

	if order.Status == constant.OrderStatusPaid {
		return nil
	}

	if err := s.repo.MarkOrderPaid(ctx, order.ID, paymentId); err != nil {
		return err
	}
	if err := s.repo.SetUserPremium(ctx, order.UserId, true); err != nil {
		return err
	}

	if order.Plan != "" {
		if err := s.grantWindow(ctx, order.UserId, order.Plan, order.Plan.Months()); err != nil {
			return err
		}
	}

	msg := dto.OrderPaidMessage{OrderId: order.ID, UserId: order.UserId, PaymentId: paymentId}
	if err := s.events.Publish(ctx, EventOrderPaid, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order paid event")
	}

	zerolog.Ctx(ctx).Info().Str("order_id", order.ID.String()).Str("payment_id", paymentId).Msg("order settled")
	return nil
}

func (s *paymentService) ApplyPromo(ctx context.Context, userId uuid.UUID, code string) (*entities.Subscription, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	months, ok := s.promoCodes[code]
	if !ok {
		return nil, ErrUnknownPromoCode
	}

	used, err := s.repo.HasPromoRedemption(ctx, userId, code)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrPromoAlreadyUsed
	}

	// Redemption row first; the unique (user, code) index stops a concurrent
	// second redemption before any entitlement is granted.
	redemption := &entities.PromoRedemption{
		ID:         uuid.New(),
		UserId:     userId,
		Code:       code,
		RedeemedAt: s.now(),
	}
	if err := s.repo.CreatePromoRedemption(ctx, redemption); err != nil {
		return nil, err
	}

	sub, err := s.grantWindowSub(ctx, userId, constant.PlanPromo, months)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *paymentService) grantWindow(ctx context.Context, userId uuid.UUID, plan constant.Plan, months int) error {
	_, err := s.grantWindowSub(ctx, userId, plan, months)
	return err
}

func (s *paymentService) grantWindowSub(ctx context.Context, userId uuid.UUID, plan constant.Plan, months int) (*entities.Subscription, error) {
	now := s.now()
	sub := &entities.Subscription{
		ID:        uuid.New(),
		UserId:    userId,
		Plan:      plan,
		StartsAt:  now,
		ExpiresAt: now.AddDate(0, months, 0),
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.repo.SetUserPremium(ctx, userId, true); err != nil {
		return nil, err
	}
	return sub, nil
}
