package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"estatehub/config"
	"estatehub/infras/kafka"
	"estatehub/infras/otel"
	"estatehub/internal/domains/booking/model"
	"estatehub/shared/constant"
	"estatehub/shared/timezone"
	"fmt"
	"time"
)

const (
	TypeCreated       = "booking.created"
	TypeStatusChanged = "booking.status_changed"
)

// Payload is the JSON body published for every booking event, keyed by booking id.
type Payload struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"bookingId"`
	FacilityName string    `json:"facilityName"`
	Category     string    `json:"category"`
	UserID       string    `json:"userId"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Status       string    `json:"status"`
	FromStatus   string    `json:"fromStatus,omitempty"`
	Actor        string    `json:"actor"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type Publisher interface {
	Created(ctx context.Context, booking model.Booking, actor string) error
	StatusChanged(ctx context.Context, booking model.Booking, from, actor string) error
}

type publisherImpl struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		topic:  cfg.Kafka.BookingTopic,
		otel:   otel,
	}
}

func NewPayload(eventType string, booking model.Booking, actor string) Payload {
	return Payload{
		Type:         eventType,
		BookingID:    booking.ID,
		FacilityName: booking.FacilityName,
		Category:     booking.Category,
		UserID:       booking.RequesterID,
		Date:         timezone.FormatDate(booking.BookingDate),
		StartTime:    timezone.FormatClock(booking.StartMinute),
		EndTime:      timezone.FormatClock(booking.EndMinute),
		Status:       booking.Status,
		Actor:        actor,
		OccurredAt:   timezone.Now(),
	}
}

func (p *publisherImpl) Created(ctx context.Context, booking model.Booking, actor string) error {
	return p.publish(ctx, NewPayload(TypeCreated, booking, actor))
}

func (p *publisherImpl) StatusChanged(ctx context.Context, booking model.Booking, from, actor string) error {
	payload := NewPayload(TypeStatusChanged, booking, actor)
	payload.FromStatus = from

	return p.publish(ctx, payload)
}

func (p *publisherImpl) publish(ctx context.Context, payload Payload) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+"."+payload.Type)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = p.client.SendMessages(ctx, p.topic, kafka.Message{Key: payload.BookingID, Value: payload}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", payload.Type, err)
	}

	return nil
}
