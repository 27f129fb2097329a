package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

const (
	defaultHeartbeat = 10 * time.Second
	defaultLocale    = "en_US"
	dialTimeout      = 3 * time.Second

	msgReconnect = "RECONNECT_DONE"
	msgClose     = "CLOSE"
)

var ErrPublishDuringReconnect = errors.New("amqp: trying to publish during reconnect")

type listenerMsg = string

// AMQPClient is the subset of an amqp connection the bdshub consumers and
// publishers need. The default implementation reconnects on its own.
type AMQPClient interface {
	Listen(ctx context.Context, exchange string, routingKey string, queueName string, options ...ListenOption) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Close() error
}

type reconnectingClient struct {
	uri    string
	logger *lecho.Logger

	mu   sync.RWMutex
	conn *amqp.Connection

	// publishers and consumers get their own channel so flow control on
	// publishing never blocks consumption
	consumeChannel *amqp.Channel
	publishChannel *amqp.Channel

	notifyCloseChan chan *amqp.Error

	listenersMu  sync.Mutex
	listeners    []chan listenerMsg
	reconnecting atomic.Bool
}

func DialAMQP(uri string, logger *lecho.Logger) (AMQPClient, error) {
	client := &reconnectingClient{
		uri:       uri,
		logger:    logger,
		listeners: []chan listenerMsg{},
	}
	if err := client.connect(); err != nil {
		return nil, err
	}
	go client.reconnectionLoop()
	return client, nil
}

func (c *reconnectingClient) connect() error {
	conn, err := amqp.DialConfig(c.uri, amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return err
	}
	consumeChannel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	publishChannel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	notifyCloseChan := make(chan *amqp.Error, 1)
	conn.NotifyClose(notifyCloseChan)

	c.mu.Lock()
	c.conn = conn
	c.consumeChannel = consumeChannel
	c.publishChannel = publishChannel
	c.notifyCloseChan = notifyCloseChan
	c.mu.Unlock()
	return nil
}

func (c *reconnectingClient) notifyListeners(msg listenerMsg) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	for _, listener := range c.listeners {
		listener <- msg
	}
}

func retryPolicy() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

func (c *reconnectingClient) reconnectionLoop() {
	for {
		c.mu.RLock()
		closed := c.notifyCloseChan
		c.mu.RUnlock()

		amqpErr, ok := <-closed
		if !ok || amqpErr == nil {
			// graceful Close()
			return
		}
		c.logger.Error(amqpErr)
		c.reconnecting.Store(true)

		c.logger.Info("amqp: trying to reconnect...")
		if err := backoff.Retry(c.connect, retryPolicy()); err != nil {
			c.logger.Errorf("amqp: giving up reconnecting: %v", err)
			c.notifyListeners(msgClose)
			return
		}
		c.reconnecting.Store(false)
		c.logger.Info("amqp: successfully reconnected")
		c.notifyListeners(msgReconnect)
	}
}

func (c *reconnectingClient) Close() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn.Close()
}

func (c *reconnectingClient) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.mu.RLock()
	ch, err := c.conn.Channel()
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

type ListenOptions struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	AutoAck    bool
	// DeliveryLimit caps redeliveries of requeued messages, 0 disables it.
	DeliveryLimit int
}

type ListenOption = func(opts ListenOptions) ListenOptions

func WithDurable(durable bool) ListenOption {
	return func(opts ListenOptions) ListenOptions {
		opts.Durable = durable
		return opts
	}
}

func WithAutoDelete(autoDelete bool) ListenOption {
	return func(opts ListenOptions) ListenOptions {
		opts.AutoDelete = autoDelete
		return opts
	}
}

func WithExclusive(exclusive bool) ListenOption {
	return func(opts ListenOptions) ListenOptions {
		opts.Exclusive = exclusive
		return opts
	}
}

func WithAutoAck(autoAck bool) ListenOption {
	return func(opts ListenOptions) ListenOptions {
		opts.AutoAck = autoAck
		return opts
	}
}

func WithDeliveryLimit(limit int) ListenOption {
	return func(opts ListenOptions) ListenOptions {
		opts.DeliveryLimit = limit
		return opts
	}
}

// Listen consumes queueName bound to exchange with routingKey. The returned
// channel survives reconnects: after a reconnect the queue is consumed again
// from the new amqp channel. It is closed when reconnecting fails for good.
func (c *reconnectingClient) Listen(ctx context.Context, exchange string, routingKey string, queueName string, options ...ListenOption) (<-chan amqp.Delivery, error) {
	deliveries, err := c.consume(exchange, routingKey, queueName, options...)
	if err != nil {
		return nil, err
	}

	clientChannel := make(chan amqp.Delivery)
	notifyReconnectChan := make(chan listenerMsg, 2)
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, notifyReconnectChan)
	c.listenersMu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-notifyReconnectChan:
				switch msg {
				case msgReconnect:
					d, err := c.consume(exchange, routingKey, queueName, options...)
					if err != nil {
						c.logger.Error(err)
						close(clientChannel)
						return
					}
					c.logger.Infof("amqp: consuming %s from new deliveries channel", routingKey)
					deliveries = d
				case msgClose:
					close(clientChannel)
					return
				default:
					c.logger.Warnf("amqp: unrecognized message sent to listener: %s", msg)
				}
			case delivery, ok := <-deliveries:
				if !ok {
					// wait for the reconnect notification
					deliveries = nil
					continue
				}
				select {
				case clientChannel <- delivery:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return clientChannel, nil
}

func (c *reconnectingClient) consume(exchange string, routingKey string, queueName string, options ...ListenOption) (<-chan amqp.Delivery, error) {
	opts := ListenOptions{
		Durable:       true,
		DeliveryLimit: 10,
	}
	for _, opt := range options {
		opts = opt(opts)
	}

	c.mu.RLock()
	ch := c.consumeChannel
	c.mu.RUnlock()

	// topic exchanges route on the message routing key
	err := ch.ExchangeDeclare(exchange, "topic", opts.Durable, opts.AutoDelete, false, false, nil)
	if err != nil {
		return nil, err
	}

	var args amqp.Table
	if opts.DeliveryLimit > 0 {
		args = amqp.Table{"delivery-limit": opts.DeliveryLimit}
	}
	// non exclusive queues are load balanced between bdshub instances
	queue, err := ch.QueueDeclare(queueName, opts.Durable, opts.AutoDelete, opts.Exclusive, false, args)
	if err != nil {
		return nil, err
	}

	if err = ch.QueueBind(queue.Name, routingKey, exchange, false, nil); err != nil {
		return nil, err
	}

	return ch.Consume(queue.Name, "", opts.AutoAck, opts.Exclusive, false, false, nil)
}

// PublishWithContext waits (with backoff) for a running reconnect to finish
// before publishing.
func (c *reconnectingClient) PublishWithContext(ctx context.Context, exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error {
	if c.reconnecting.Load() {
		err := backoff.Retry(func() error {
			if c.reconnecting.Load() {
				return ErrPublishDuringReconnect
			}
			return nil
		}, backoff.WithContext(retryPolicy(), ctx))
		if err != nil {
			return err
		}
	}

	c.mu.RLock()
	ch := c.publishChannel
	c.mu.RUnlock()
	return ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}
