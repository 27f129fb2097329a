package service

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	DatabaseUri               string        `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns          int           `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns      int           `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime   int           `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN                 string        `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate    float64       `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl           string        `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath               string        `envconfig:"LOG_FILE_PATH"`
	JWTSecret                 []byte        `envconfig:"JWT_SECRET" required:"true"`
	JWTRefreshTokenExpiry     int           `envconfig:"JWT_REFRESH_EXPIRY" default:"604800"` // in seconds, default 7 days
	JWTAccessTokenExpiry      int           `envconfig:"JWT_ACCESS_EXPIRY" default:"172800"`  // in seconds, default 2 days
	AdminToken                string        `envconfig:"ADMIN_TOKEN"`
	Host                      string        `envconfig:"HOST" default:"localhost:8001"`
	Port                      int           `envconfig:"PORT" default:"8001"`
	BodyLimit                 string        `envconfig:"BODY_LIMIT" default:"30M"`
	DefaultRateLimit          int           `envconfig:"DEFAULT_RATE_LIMIT" default:"20"`
	StrictRateLimit           int           `envconfig:"STRICT_RATE_LIMIT" default:"5"`
	BurstRateLimit            int           `envconfig:"BURST_RATE_LIMIT" default:"2"`
	RedisUri                  string        `envconfig:"REDIS_URI"`
	CacheTTL                  time.Duration `envconfig:"CACHE_TTL" default:"60s"`
	EnablePrometheus          bool          `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort            int           `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl                string        `envconfig:"WEBHOOK_URL"`
	RabbitMQUri               string        `envconfig:"RABBITMQ_URI"`
	RabbitMQEventExchange     string        `envconfig:"RABBITMQ_EVENT_EXCHANGE" default:"bdshub_events"`
	RabbitMQBankExchange      string        `envconfig:"RABBITMQ_BANK_EXCHANGE" default:"bank_transfer"`
	RabbitMQBankConsumerQueue string        `envconfig:"RABBITMQ_BANK_CONSUMER_QUEUE_NAME" default:"bank_transfer_consumer"`
	KafkaBrokers              []string      `envconfig:"KAFKA_BROKERS"`
	KafkaEventTopic           string        `envconfig:"KAFKA_EVENT_TOPIC" default:"bdshub.events"`
	PostFee                   int64         `envconfig:"POST_FEE" default:"50000"`
	MinDepositAmount          int64         `envconfig:"MIN_DEPOSIT_AMOUNT" default:"50000"`
	MaxDepositAmount          int64         `envconfig:"MAX_DEPOSIT_AMOUNT" default:"50000000"`
	PostLifetimeDays          int           `envconfig:"POST_LIFETIME_DAYS" default:"30"`
	PostExpiryInterval        time.Duration `envconfig:"POST_EXPIRY_INTERVAL" default:"1h"`
	MinPasswordEntropy        int           `envconfig:"MIN_PASSWORD_ENTROPY" default:"0"`
	DepositProcessingTime     string        `envconfig:"DEPOSIT_PROCESSING_TIME" default:"15-30 phút sau khi chuyển tiền"`
}

func (c *Config) PostFeeAmount() decimal.Decimal {
	return decimal.NewFromInt(c.PostFee)
}

func (c *Config) PostLifetime() time.Duration {
	return time.Duration(c.PostLifetimeDays) * 24 * time.Hour
}
