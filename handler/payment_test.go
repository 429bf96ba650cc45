package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stream-backend/constant"
	"stream-backend/entities"
	"stream-backend/service"
)

type stubPayments struct {
	verifyErr error
	promoErr  error
}

func (s *stubPayments) CreateOrder(ctx context.Context, userId uuid.UUID, amount int64, currency string, plan constant.Plan) (*entities.Order, error) {
	return &entities.Order{ID: uuid.New(), UserId: userId, Amount: amount, Status: constant.OrderStatusCreated}, nil
}

func (s *stubPayments) VerifyPayment(ctx context.Context, providerOrderId, paymentId, signature string) error {
	return s.verifyErr
}

func (s *stubPayments) ApplyPromo(ctx context.Context, userId uuid.UUID, code string) (*entities.Subscription, error) {
	if s.promoErr != nil {
		return nil, s.promoErr
	}
	return &entities.Subscription{ID: uuid.New(), UserId: userId}, nil
}

func newPaymentRouter(stub *stubPayments) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPaymentHandler(stub)
	r.POST("/verify-payment", h.VerifyPayment)
	r.POST("/apply-promo", h.ApplyPromo)
	return r
}

func TestVerifyPaymentSignatureMismatchIs400(t *testing.T) {
	r := newPaymentRouter(&stubPayments{verifyErr: service.ErrSignatureMismatch})

	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"deadbeef"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "signature mismatch")
}

func TestVerifyPaymentMissingFieldsIs400(t *testing.T) {
	r := newPaymentRouter(&stubPayments{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(`{"razorpay_order_id":"order_1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentOK(t *testing.T) {
	r := newPaymentRouter(&stubPayments{})

	body := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"good"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"paid"}`, w.Body.String())
}

func TestApplyPromoAlreadyUsedIs400(t *testing.T) {
	r := newPaymentRouter(&stubPayments{promoErr: service.ErrPromoAlreadyUsed})

	body := `{"userId":"` + uuid.NewString() + `","code":"USEOLI"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/apply-promo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already used")
}
