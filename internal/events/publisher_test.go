package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReconnectDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, reconnectMaxDelay},
		{40, reconnectMaxDelay},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reconnectDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestPublishWhileDisconnected(t *testing.T) {
	p := &amqpPublisher{exchange: "orders", logger: zap.NewNop(), done: make(chan struct{})}

	err := p.PublishOrderStatus(context.Background(), OrderStatusChanged{OrderID: 42, To: "Completed"})
	require.ErrorIs(t, err, ErrDisconnected)
	assert.Contains(t, err.Error(), "order 42")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, ok := p.reconnect()
	assert.False(t, ok, "reconnect must stop once the publisher is closed")
}
