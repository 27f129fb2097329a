package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db"
	"github.com/bdsvietnam/bdshub.go/db/migrations"
	"github.com/bdsvietnam/bdshub.go/docs"
	"github.com/bdsvietnam/bdshub.go/kafka"
	"github.com/bdsvietnam/bdshub.go/lib"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/bdsvietnam/bdshub.go/lib/tokens"
	"github.com/bdsvietnam/bdshub.go/lib/transport"
	"github.com/bdsvietnam/bdshub.go/rabbitmq"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun/migrate"
	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const version = "1.0.0"

// @title        bdshub
// @version      1.0.0
// @description  Real estate classifieds backend with member wallets, paid listing drafts and admin review.

// @contact.name   BDS Vietnam
// @contact.email  support@bdsvietnam.vn

// @BasePath  /

// @securitydefinitions.oauth2.password  OAuth2Password
// @tokenUrl                             /auth/login
// @schemes                              https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := lib.Logger(c.LogFilePath)

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(startupCtx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(startupCtx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	cancelStartup()

	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	// Without REDIS_URI the rate limit counters stay in memory
	var rdb *redis.Client
	if c.RedisUri != "" {
		opts, err := redis.ParseURL(c.RedisUri)
		if err != nil {
			logger.Fatalf("Error parsing REDIS_URI: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No bank transfer confirmations or rabbitmq events will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, logger)
		if err != nil {
			logger.Fatal(err)
		}
		defer amqpClient.Close()

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithEventExchange(c.RabbitMQEventExchange),
			rabbitmq.WithBankExchange(c.RabbitMQBankExchange),
			rabbitmq.WithBankConsumerQueueName(c.RabbitMQBankConsumerQueue),
		)
		if err != nil {
			logger.Fatal(err)
		}
	}

	var kafkaPublisher *kafka.Publisher
	if len(c.KafkaBrokers) > 0 {
		kafkaPublisher = kafka.NewPublisher(kafka.NewWriter(c.KafkaBrokers, c.KafkaEventTopic, logger), logger)
		defer kafkaPublisher.Close()
	}

	svc := &service.BdshubService{
		Config:      c,
		DB:          dbConn,
		Logger:      logger,
		EventPubSub: service.NewPubsub(),
	}

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("bdshub.go")))
	}

	cacheClient, err := transport.CreateCacheClient(c.CacheTTL)
	if err != nil {
		logger.Fatal(err)
	}

	transport.RegisterEndpoints(svc, e, transport.Middlewares{
		Auth:       tokens.Middleware(c.JWTSecret, svc),
		Admin:      tokens.RoleMiddleware(common.RoleAdmin),
		AdminToken: tokens.AdminTokenMiddleware(c.AdminToken),
		// strict rate limit for requests that move money
		StrictRate: transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit, rdb),
		Log:        transport.CreateLoggingMiddleware(logger),
		Cache:      cacheClient.Middleware(),
	}, version)

	//Swagger API docs
	docs.SwaggerInfo.Host = c.Host
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var backgroundWg sync.WaitGroup
	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	// Move approved drafts past their lifetime to expired
	backgroundWg.Add(1)
	go func() {
		svc.StartPostExpiryRoutine(backGroundCtx)
		svc.Logger.Info("Post expiry routine done")
		backgroundWg.Done()
	}()

	//Start webhook subscription
	if svc.Config.WebhookUrl != "" {
		backgroundWg.Add(1)
		go func() {
			svc.StartWebhookSubscription(backGroundCtx, svc.Config.WebhookUrl)
			svc.Logger.Info("Webhook routine done")
			backgroundWg.Done()
		}()
	}

	if rabbitmqClient != nil {
		backgroundWg.Add(2)
		go func() {
			err := rabbitmqClient.SubscribeToBankTransfers(backGroundCtx, svc)
			if err != nil && err != context.Canceled {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}
			svc.Logger.Info("Bank transfer consumer done")
			backgroundWg.Done()
		}()
		go func() {
			err := rabbitmqClient.StartPublishEvents(backGroundCtx, svc.SubscribeAllEvents, rabbitmq.EncodeEventJSON)
			if err != nil && err != context.Canceled {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}
			svc.Logger.Info("Rabbit event publisher done")
			backgroundWg.Done()
		}()
	}

	if kafkaPublisher != nil {
		events, unsubscribe, err := svc.SubscribeAllEvents()
		if err != nil {
			logger.Fatal(err)
		}
		backgroundWg.Add(1)
		go func() {
			defer unsubscribe()
			err := kafkaPublisher.Start(backGroundCtx, events)
			if err != nil && err != context.Canceled {
				svc.Logger.Error(err)
			}
			svc.Logger.Info("Kafka event publisher done")
			backgroundWg.Done()
		}()
	}

	//Start Prometheus server if necessary
	var echoPrometheus *echo.Echo
	if svc.Config.EnablePrometheus {
		echoPrometheus = transport.StartPrometheusEcho(logger, c.PrometheusPort, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	if echoPrometheus != nil {
		if err := echoPrometheus.Shutdown(ctx); err != nil {
			e.Logger.Fatal(err)
		}
	}
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("bdshub exiting gracefully. Goodbye.")
}
