package payment

import (
	"context"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway wraps the payment provider SDK. The SDK itself is not
// context-aware; ctx is accepted to keep the call site uniform.
type Gateway struct {
	client *razorpay.Client
}

func NewGateway(keyId, keySecret string) *Gateway {
	return &Gateway{client: razorpay.NewClient(keyId, keySecret)}
}

func (g *Gateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.New("payment: order id missing in gateway response")
	}
	return id, nil
}
