package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const RoutingOrderStatus = "order.status_changed"

// OrderStatusChanged is published after every persisted order transition.
type OrderStatusChanged struct {
	OrderID    uint      `json:"order_id"`
	CustomerID uint      `json:"customer_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Source     string    `json:"source"`
	ChangedAt  time.Time `json:"changed_at"`
}

type Publisher interface {
	PublishOrderStatus(ctx context.Context, event OrderStatusChanged) error
	Close() error
}

// NoopPublisher drops events. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderStatus(context.Context, OrderStatusChanged) error { return nil }
func (NoopPublisher) Close() error                                                 { return nil }

// ErrDisconnected is returned while the broker connection is down and a
// reconnect is in progress.
var ErrDisconnected = errors.New("amqp publisher disconnected")

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

type amqpPublisher struct {
	mu       sync.Mutex
	url      string
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewAMQPPublisher connects and declares a durable topic exchange. A dropped
// connection is redialled in the background until Close is called.
func NewAMQPPublisher(url, exchange string, logger *zap.Logger) (Publisher, error) {
	p := &amqpPublisher{url: url, exchange: exchange, logger: logger, done: make(chan struct{})}
	closed, err := p.connect()
	if err != nil {
		return nil, err
	}

	logger.Info("connected to AMQP broker", zap.String("exchange", exchange))
	p.wg.Add(1)
	go p.watch(closed)
	return p, nil
}

// connect dials the broker, opens a channel and declares the exchange. The
// returned channel fires when the new connection closes.
func (p *amqpPublisher) connect() (<-chan *amqp.Error, error) {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		channel.Close()
		conn.Close()
		return nil, ErrDisconnected
	}
	p.conn = conn
	p.channel = channel
	return closed, nil
}

// watch redials after the broker drops the connection.
func (p *amqpPublisher) watch(closed <-chan *amqp.Error) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case amqpErr := <-closed:
			select {
			case <-p.done:
				return
			default:
			}
			p.mu.Lock()
			p.channel = nil
			p.conn = nil
			p.mu.Unlock()
			p.logger.Warn("AMQP connection lost, reconnecting", zap.Any("reason", amqpErr))

			next, ok := p.reconnect()
			if !ok {
				return
			}
			closed = next
		}
	}
}

func (p *amqpPublisher) reconnect() (<-chan *amqp.Error, bool) {
	for attempt := 0; ; attempt++ {
		timer := time.NewTimer(reconnectDelay(attempt))
		select {
		case <-p.done:
			timer.Stop()
			return nil, false
		case <-timer.C:
		}

		closed, err := p.connect()
		if err == nil {
			p.logger.Info("AMQP broker reconnected", zap.Int("attempts", attempt+1))
			return closed, true
		}
		if errors.Is(err, ErrDisconnected) {
			return nil, false
		}
		p.logger.Warn("AMQP reconnect failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
}

// reconnectDelay doubles from reconnectBaseDelay up to reconnectMaxDelay.
func reconnectDelay(attempt int) time.Duration {
	if attempt > 5 {
		return reconnectMaxDelay
	}
	d := reconnectBaseDelay << attempt
	if d > reconnectMaxDelay {
		return reconnectMaxDelay
	}
	return d
}

func (p *amqpPublisher) PublishOrderStatus(ctx context.Context, event OrderStatusChanged) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil || p.channel.IsClosed() {
		return fmt.Errorf("publish order %d status: %w", event.OrderID, ErrDisconnected)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,         // exchange
		RoutingOrderStatus, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    event.ChangedAt,
		})
	if err != nil {
		return fmt.Errorf("publish order %d status: %w", event.OrderID, err)
	}

	p.logger.Debug("order status event published",
		zap.Uint("order_id", event.OrderID),
		zap.String("to", event.To))
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	conn, channel := p.conn, p.channel
	p.conn, p.channel = nil, nil
	p.mu.Unlock()

	p.wg.Wait()
	if conn == nil {
		return nil
	}
	if err := channel.Close(); err != nil {
		conn.Close()
		return err
	}
	return conn.Close()
}
