package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/kafka"
	"github.com/bdsvietnam/bdshub.go/lib"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/bdsvietnam/bdshub.go/rabbitmq"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Re-emits the completed ledger entries between START_DATE and END_DATE
// (RFC3339) to the configured rabbitmq exchange and kafka topic.
// DRY_RUN=true only lists what would be published.
func main() {

	c := &service.Config{}
	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		logrus.Fatalf("Error loading environment variables: %v", err)
	}
	logger := lib.Logger(c.LogFilePath)
	startDate, endDate, err := loadStartAndEndDateFromEnv()
	if err != nil {
		logrus.Fatalf("Could not load start and end date from env %v", err)
	}
	dryRun := os.Getenv("DRY_RUN") == "true"

	dbConn, err := db.Open(c)
	if err != nil {
		logrus.Fatalf("Error initializing db connection: %v", err)
	}

	result := []models.Transaction{}
	err = dbConn.NewSelect().Model(&result).
		Where("status = ?", common.TransactionStatusCompleted).
		Where("completed_at > ?", startDate).
		Where("completed_at < ?", endDate).
		OrderExpr("completed_at ASC").
		Scan(context.Background())
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("Found %d ledger entries", len(result))

	ctx := context.Background()
	var sinks []chan service.Event
	done := make(chan struct{}, 2)

	if c.RabbitMQUri != "" && !dryRun {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, logger)
		if err != nil {
			logrus.Fatal(err)
		}
		defer amqpClient.Close()
		rabbitmqClient, err := rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithEventExchange(c.RabbitMQEventExchange),
		)
		if err != nil {
			logrus.Fatal(err)
		}
		events := make(chan service.Event)
		sinks = append(sinks, events)
		go func() {
			err := rabbitmqClient.StartPublishEvents(ctx, func() (<-chan service.Event, func(), error) {
				return events, func() {}, nil
			}, rabbitmq.EncodeEventJSON)
			if err != nil {
				logrus.Error(err)
				sentry.CaptureException(err)
			}
			done <- struct{}{}
		}()
	}
	if len(c.KafkaBrokers) > 0 && !dryRun {
		publisher := kafka.NewPublisher(kafka.NewWriter(c.KafkaBrokers, c.KafkaEventTopic, logger), logger)
		defer publisher.Close()
		events := make(chan service.Event)
		sinks = append(sinks, events)
		go func() {
			if err := publisher.Start(ctx, events); err != nil {
				logrus.Error(err)
			}
			done <- struct{}{}
		}()
	}
	if len(sinks) == 0 && !dryRun {
		logrus.Fatal("Neither RABBITMQ_URI nor KAFKA_BROKERS is configured")
	}

	for i := range result {
		entry := &result[i]
		event := service.LedgerEvent(entry)
		logrus.Infof("Publishing %s for entry %s of user %s", event.Type, entry.ID, entry.UserID)
		// unbuffered, every sink takes the event before the next one is read
		for _, sink := range sinks {
			sink <- event
		}
	}
	// closing the channels ends the publishers once they are drained
	for _, sink := range sinks {
		close(sink)
	}
	for range sinks {
		<-done
	}
	logrus.Infof("Published %d ledger entries to %d sinks, dry run: %v", len(result), len(sinks), dryRun)
}

func loadStartAndEndDateFromEnv() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, os.Getenv("START_DATE"))
	if err != nil {
		return
	}
	end, err = time.Parse(time.RFC3339, os.Getenv("END_DATE"))
	return
}
