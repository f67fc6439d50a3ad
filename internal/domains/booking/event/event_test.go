package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"estatehub/config"
	"estatehub/infras/kafka"
	kafkaMocks "estatehub/infras/kafka/mocks"
	"estatehub/infras/otel/mocks"
	"estatehub/internal/domains/booking/event"
	"estatehub/internal/domains/booking/model"
)

var booking = model.Booking{
	ID:           "b-1",
	FacilityName: "Tennis Court",
	Category:     "sport",
	RequesterID:  "resident-7",
	BookingDate:  time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	StartMinute:  660,
	EndMinute:    720,
	Status:       model.StatusApproved,
}

func newPublisher(t *testing.T) (event.Publisher, *kafkaMocks.MockClient) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.BookingTopic = "estatehub.bookings"

	return event.New(client, cfg, mocks.NewOtel()), client
}

func TestPublisher_StatusChanged(t *testing.T) {
	publisher, client := newPublisher(t)

	client.EXPECT().
		SendMessages(gomock.Any(), "estatehub.bookings", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			assert.Len(t, messages, 1)
			assert.Equal(t, "b-1", messages[0].Key)

			payload, ok := messages[0].Value.(event.Payload)
			assert.True(t, ok)
			assert.Equal(t, event.TypeStatusChanged, payload.Type)
			assert.Equal(t, model.StatusPending, payload.FromStatus)
			assert.Equal(t, model.StatusApproved, payload.Status)
			assert.Equal(t, "2025-11-01", payload.Date)
			assert.Equal(t, "11:00", payload.StartTime)
			assert.Equal(t, "12:00", payload.EndTime)
			assert.Equal(t, "admin-1", payload.Actor)

			return nil
		})

	assert.NoError(t, publisher.StatusChanged(context.Background(), booking, model.StatusPending, "admin-1"))
}

func TestPublisher_Created(t *testing.T) {
	publisher, client := newPublisher(t)

	client.EXPECT().
		SendMessages(gomock.Any(), "estatehub.bookings", gomock.Any()).
		Return(errors.New("broker unavailable"))

	err := publisher.Created(context.Background(), booking, "resident-7")

	assert.ErrorContains(t, err, "booking.created")
}
