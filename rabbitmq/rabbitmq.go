package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses the buffers events are encoded into.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"

	BankTransferRoutingKey = "transfer.confirmed"
)

var ErrDisconnected = errors.New("disconnected from RabbitMQ")

type (
	// SubscribeToEventsFunc returns the stream of committed events and a
	// function releasing the subscription.
	SubscribeToEventsFunc = func() (events <-chan service.Event, unsubscribe func(), err error)
	EncodeEventFunc       = func(ctx context.Context, w io.Writer, event service.Event) error
)

// DepositConfirmer completes a pending deposit from a bank notification.
type DepositConfirmer interface {
	ConfirmBankTransfer(ctx context.Context, depositID, bankTransactionID string, amount decimal.Decimal) error
}

// BankTransferConfirmation is the message the bank integration publishes once
// a transfer quoting a deposit has been received.
type BankTransferConfirmation struct {
	DepositID     string          `json:"deposit_id"`
	TransactionID string          `json:"bank_transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type Client interface {
	SubscribeToBankTransfers(context.Context, DepositConfirmer) error
	StartPublishEvents(context.Context, SubscribeToEventsFunc, EncodeEventFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient
	logger     *lecho.Logger

	bankConsumerQueueName string
	bankExchange          string
	eventExchange         string
}

type ClientOption = func(client *DefaultClient)

func WithEventExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.eventExchange = exchange
	}
}

func WithBankExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.bankExchange = exchange
	}
}

func WithBankConsumerQueueName(name string) ClientOption {
	return func(client *DefaultClient) {
		client.bankConsumerQueueName = name
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),
		bankConsumerQueueName: "bank_transfer_consumer",
		bankExchange:          "bank_transfer",
		eventExchange:         "bdshub_events",
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

// SubscribeToBankTransfers approves deposits confirmed by the bank. Messages
// that cannot be decoded or applied are dropped without requeueing.
func (client *DefaultClient) SubscribeToBankTransfers(ctx context.Context, confirmer DepositConfirmer) error {
	deliveries, err := client.amqpClient.Listen(ctx, client.bankExchange, BankTransferRoutingKey, client.bankConsumerQueueName)
	if err != nil {
		return err
	}

	client.logger.Info("Starting bank transfer consumer loop")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case delivery, ok := <-deliveries:
			if !ok {
				return ErrDisconnected
			}
			client.handleBankTransfer(ctx, confirmer, delivery)
		}
	}
}

func (client *DefaultClient) handleBankTransfer(ctx context.Context, confirmer DepositConfirmer, delivery amqp.Delivery) {
	var confirmation BankTransferConfirmation
	err := json.Unmarshal(delivery.Body, &confirmation)
	if err == nil && (confirmation.DepositID == "" || !confirmation.Amount.IsPositive()) {
		err = fmt.Errorf("incomplete bank transfer confirmation: %s", delivery.Body)
	}
	if err == nil {
		err = confirmer.ConfirmBankTransfer(ctx, confirmation.DepositID, confirmation.TransactionID, confirmation.Amount)
	}
	if err != nil {
		captureErr(client.logger, err)
		// requeueing would only replay the same failure
		if err := delivery.Nack(false, false); err != nil {
			captureErr(client.logger, err)
		}
		return
	}
	client.logger.Infof("Bank transfer %s confirmed deposit %s", confirmation.TransactionID, confirmation.DepositID)
	if err := delivery.Ack(false); err != nil {
		captureErr(client.logger, err)
	}
}

// StartPublishEvents forwards every committed event to the event exchange
// with the event type as routing key.
func (client *DefaultClient) StartPublishEvents(ctx context.Context, subscribe SubscribeToEventsFunc, payloadFunc EncodeEventFunc) error {
	// topic exchange, durable, not auto deleted
	err := client.amqpClient.ExchangeDeclare(client.eventExchange, "topic", true, false, false, false, nil)
	if err != nil {
		return err
	}

	events, unsubscribe, err := subscribe()
	if err != nil {
		return err
	}
	defer unsubscribe()

	client.logger.Info("Starting rabbitmq event publisher")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := client.publishEvent(ctx, event, payloadFunc); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishEvent(ctx context.Context, event service.Event, payloadFunc EncodeEventFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	defer func() {
		payload.Reset()
		bufPool.Put(payload)
	}()
	if err := payloadFunc(ctx, payload, event); err != nil {
		return err
	}

	err := client.amqpClient.PublishWithContext(ctx,
		client.eventExchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return err
	}

	client.logger.Debugf("Published %s event for user %s to rabbitmq", event.Type, event.UserID)
	return nil
}

// EncodeEventJSON is the default EncodeEventFunc.
func EncodeEventJSON(ctx context.Context, w io.Writer, event service.Event) error {
	b, err := service.EncodeEvent(event)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
