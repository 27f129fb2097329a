package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/getsentry/sentry-go"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/ziflex/lecho/v3"
)

// MessageWriter is implemented by *kafkago.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher forwards committed events to a kafka topic, keyed by user id so
// the events of one wallet stay ordered within a partition.
type Publisher struct {
	writer MessageWriter
	logger *lecho.Logger
}

func NewWriter(brokers []string, topic string, logger *lecho.Logger) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...))
		}),
	}
}

func NewPublisher(writer MessageWriter, logger *lecho.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) Publish(ctx context.Context, event service.Event) error {
	value, err := service.EncodeEvent(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.CreatedAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
}

// Start publishes every event read from events until ctx is done or the
// channel is closed. Write errors are reported and do not stop the loop.
func (p *Publisher) Start(ctx context.Context, events <-chan service.Event) error {
	p.logger.Info("Starting kafka event publisher")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := p.Publish(ctx, event); err != nil {
				p.logger.Errorf("kafka: publishing %s event failed: %v", event.Type, err)
				sentry.CaptureException(err)
			}
		}
	}
}
