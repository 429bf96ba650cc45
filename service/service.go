package service

import (
	"context"
	"errors"
)

// ErrNonRetryable marks failures where requeueing cannot help.
var ErrNonRetryable = errors.New("non-retryable error")

// Routing keys for domain events on the shared exchange.
const (
	EventIngestRequested = "ingest.requested"
	EventAssetReady      = "asset.ready"
	EventOrderPaid       = "order.paid"
)

// EventPublisher is satisfied by the rabbitmq publisher; tests substitute fakes.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}
