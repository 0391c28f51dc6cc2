// Package events publica los cambios de pedidos para otros consumidores
// (almacén, notificaciones).
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// Event es el mensaje que viaja por el bus de pedidos
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	Number     string    `json:"number"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	PrevStatus string    `json:"prev_status,omitempty"`
	Total      int64     `json:"total"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher solo registra los eventos; se usa cuando no hay brokers
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.log.Info("order event",
		zap.String("type", e.Type),
		zap.String("order_id", e.OrderID),
		zap.String("number", e.Number),
		zap.String("status", e.Status),
		zap.Int64("total", e.Total),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
