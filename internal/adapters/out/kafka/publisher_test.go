package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkaadapter "kirana/internal/adapters/out/kafka"
	"kirana/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct{ mock.Mock }

func (m *MockProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestEventPublisher_Publish(t *testing.T) {
	at := time.Date(2026, 10, 12, 13, 0, 0, 0, time.UTC)
	events := []kernel.Event{
		kernel.NewEvent("order.status_changed", "order", "o-1", at, map[string]any{"to": "Accepted"}),
		kernel.NewEvent("order.agent_assigned", "order", "o-1", at, map[string]any{"agent_id": "a-1"}),
	}

	var sent []kafka.Message
	producer := new(MockProducer)
	producer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	err := kafkaadapter.NewEventPublisher(producer, discard).Publish(t.Context(), events...)

	require.NoError(t, err)
	producer.AssertExpectations(t)
	require.Len(t, sent, 2)
	assert.Equal(t, []byte("o-1"), sent[0].Key)
	assert.Contains(t, sent[1].Headers, kafka.Header{Key: "event_type", Value: []byte("order.agent_assigned")})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(sent[0].Value, &payload))
	assert.Equal(t, "order.status_changed", payload["name"])
	assert.Equal(t, "order", payload["aggregate_type"])
	assert.Equal(t, map[string]any{"to": "Accepted"}, payload["data"])
}

func TestEventPublisher_NothingToPublish(t *testing.T) {
	producer := new(MockProducer)

	err := kafkaadapter.NewEventPublisher(producer, discard).Publish(t.Context())

	require.NoError(t, err)
	producer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestEventPublisher_ProducerError(t *testing.T) {
	producer := new(MockProducer)
	producer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := kafkaadapter.NewEventPublisher(producer, discard).
		Publish(t.Context(), kernel.NewEvent("agent.availability_changed", "agent", "a-1", time.Now(), nil))

	require.EqualError(t, err, "leader not available")
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, kafkaadapter.NoopPublisher{}.Publish(context.Background(), kernel.Event{}))
}
