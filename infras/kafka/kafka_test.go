package kafka_test

import (
	"estatehub/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusChanged struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{
		Key:   "booking-1",
		Value: statusChanged{BookingID: "booking-1", Status: "approved"},
	}

	encoded, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("booking-1"), encoded.Key)
	assert.JSONEq(t, `{"booking_id":"booking-1","status":"approved"}`, string(encoded.Value))

	key, decoded, err := kafka.DecodeKafkaMessage[statusChanged](encoded)
	require.NoError(t, err)
	assert.Equal(t, "booking-1", key)
	assert.Equal(t, "approved", decoded.Status)
}

func TestMessage_Unencodable(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage()
	assert.Error(t, err)
}
