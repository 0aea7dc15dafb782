package kafka_test

import (
	"testing"

	"leavedesk/internal/messaging/kafka"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "leave_request",
		AggregateID:   uuid.NewString(),
		EventType:     "leave.approved",
		Topic:         "leavedesk.leave.decided.v1",
		Payload:       []byte(`{"event_type":"leave.approved"}`),
		Status:        kafka.OutboxStatusPending,
	}

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(valid))
	})

	t.Run("negative missing id", func(t *testing.T) {
		ev := valid
		ev.ID = ""
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})

	t.Run("negative missing topic", func(t *testing.T) {
		ev := valid
		ev.Topic = ""
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})

	t.Run("negative empty payload", func(t *testing.T) {
		ev := valid
		ev.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})

	t.Run("negative unknown status", func(t *testing.T) {
		ev := valid
		ev.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(ev))
	})
}
