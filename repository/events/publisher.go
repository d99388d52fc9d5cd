// Outbound booking lifecycle events over RabbitMQ. Publishing is
// best-effort: a broker failure is logged, never surfaced to the
// request that triggered it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"voom/model"
	bookingsvc "voom/service/booking"

	"github.com/rabbitmq/amqp091-go"
)

const exchange = "booking_topic"

type Publisher struct {
	conn *amqp091.Connection
	log  *slog.Logger
}

var _ bookingsvc.Events = (*Publisher)(nil)

// New connects to the broker and declares the booking exchange. An
// empty URL returns a disabled publisher whose methods are no-ops.
func New(url string, log *slog.Logger) (*Publisher, error) {
	if url == "" {
		return &Publisher{log: log}, nil
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, log: log}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

type bookingEvent struct {
	BookingID int64     `json:"booking_id"`
	CarID     int64     `json:"car_id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	Total     int64     `json:"total"`
	Currency  string    `json:"currency"`
	Refund    string    `json:"refund,omitempty"`
	At        time.Time `json:"at"`
}

func (p *Publisher) BookingCreated(ctx context.Context, b *model.Booking) {
	p.publish(ctx, "booking.created", eventFrom(b, ""))
}

func (p *Publisher) BookingConfirmed(ctx context.Context, b *model.Booking) {
	p.publish(ctx, "booking.confirmed", eventFrom(b, ""))
}

func (p *Publisher) BookingCancelled(ctx context.Context, b *model.Booking, refund bookingsvc.RefundLevel) {
	p.publish(ctx, "booking.cancelled", eventFrom(b, string(refund)))
}

func eventFrom(b *model.Booking, refund string) bookingEvent {
	return bookingEvent{
		BookingID: b.ID,
		CarID:     b.CarID,
		UserID:    b.UserID,
		Status:    string(b.Status),
		Total:     b.TotalAmount,
		Currency:  b.Currency,
		Refund:    refund,
		At:        time.Now().UTC(),
	}
}

func (p *Publisher) publish(ctx context.Context, key string, ev bookingEvent) {
	if p.conn == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("event marshal", "key", key, "err", err)
		return
	}

	ch, err := p.conn.Channel()
	if err != nil {
		p.log.Error("event channel", "key", key, "err", err)
		return
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, exchange, key, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		p.log.Error("event publish", "key", key, "err", err)
	}
}
