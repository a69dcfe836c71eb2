package event

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	now := time.Date(2025, time.February, 15, 9, 0, 0, 0, time.UTC)
	next := "2025-03-15"
	evt := PaymentRecordedEvent{
		LoanID:      7,
		MemberID:    3,
		PaymentID:   11,
		Amount:      "1240.00",
		PaymentDate: "2025-02-15",
		TotalPaid:   "1240.00",
		Outstanding: "12316.00",
		Progress:    "PartiallyPaid",
		NextDueDate: &next,
		Timestamp:   now,
	}

	msg, err := newPublishing(evt, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, publisherAppID, msg.AppId)
	assert.Equal(t, now, msg.Timestamp)
	_, err = uuid.Parse(msg.MessageId)
	assert.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "1240.00", decoded["amount"])
	assert.Equal(t, "2025-03-15", decoded["nextDueDate"])
	assert.Equal(t, "PartiallyPaid", decoded["progress"])
}

func TestNewPublishingUniqueMessageIDs(t *testing.T) {
	a, err := newPublishing(PurchasePaidEvent{PurchaseID: 1}, time.Now())
	require.NoError(t, err)
	b, err := newPublishing(PurchasePaidEvent{PurchaseID: 1}, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.MessageId, b.MessageId)
}

func TestNewPublishingRejectsUnencodablePayload(t *testing.T) {
	_, err := newPublishing(map[string]any{"bad": make(chan int)}, time.Now())
	assert.Error(t, err)
}

func TestNewRabbitMQEventPublisherValidation(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	_, err := NewRabbitMQEventPublisher(nil, "collections", logger)
	assert.Error(t, err)

	_, err = NewRabbitMQEventPublisher(&amqp.Connection{}, "", logger)
	assert.Error(t, err)
}
