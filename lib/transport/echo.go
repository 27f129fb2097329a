package transport

import (
	"fmt"
	"net/http"
	"time"

	cache "github.com/SporkHubr/echo-http-cache"
	"github.com/SporkHubr/echo-http-cache/adapter/memory"
	"github.com/bdsvietnam/bdshub.go/lib"
	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/bdsvietnam/bdshub.go/lib/tokens"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v3"
	"golang.org/x/time/rate"
)

func InitEcho(c *service.Config, logger *lecho.Logger) (e *echo.Echo) {

	// New Echo app
	e = echo.New()
	e.HideBanner = true

	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = lib.NewValidator()

	e.Use(middleware.Recover())
	// base64 images travel inside JSON bodies
	e.Use(middleware.BodyLimit(c.BodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	// set the default rate limit defining the overal max requests/second
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(c.DefaultRateLimit))))

	e.Logger = logger
	e.Use(middleware.RequestID())

	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{}))
	}
	return e
}

func CreateLoggingMiddleware(logger *lecho.Logger) echo.MiddlewareFunc {
	return lecho.Middleware(lecho.Config{
		Logger: logger,
		Enricher: func(c echo.Context, logger zerolog.Context) zerolog.Context {
			return logger.Interface(tokens.ContextUserID, c.Get(tokens.ContextUserID))
		},
	})
}

func rateLimitIdentifier(ctx echo.Context) (string, error) {
	if userID, ok := ctx.Get(tokens.ContextUserID).(string); ok && userID != "" {
		return userID, nil
	}
	return ctx.RealIP(), nil
}

// CreateRateLimitMiddleware limits requests per user (or IP for anonymous
// requests). With a redis client the counters are shared between instances.
func CreateRateLimitMiddleware(requestsPerSecond int, burst int, rdb *redis.Client) echo.MiddlewareFunc {
	var store middleware.RateLimiterStore
	if rdb != nil {
		store = NewRedisRateLimiterStore(rdb, requestsPerSecond+burst, time.Second)
	} else {
		store = middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(requestsPerSecond), Burst: burst},
		)
	}
	config := middleware.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: rateLimitIdentifier,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, responses.ErrorResponse{Error: true, Code: http.StatusTooManyRequests, Message: "too many requests"})
		},
	}

	return middleware.RateLimiterWithConfig(config)
}

// CreateCacheClient caches public GET responses in memory for ttl.
func CreateCacheClient(ttl time.Duration) (*cache.Client, error) {
	memcached, err := memory.NewAdapter(
		memory.AdapterWithAlgorithm(memory.LRU),
		memory.AdapterWithCapacity(10000),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache client memory adapter: %w", err)
	}

	return cache.NewClient(
		cache.ClientWithAdapter(memcached),
		cache.ClientWithTTL(ttl),
		cache.ClientWithRefreshKey("opn"),
	)
}

func StartPrometheusEcho(logger *lecho.Logger, port int, e *echo.Echo) *echo.Echo {
	// Create Prometheus server and Middleware
	echoPrometheus := echo.New()
	echoPrometheus.HideBanner = true
	prom := prometheus.NewPrometheus("echo", nil)
	// Scrape metrics from Main Server
	e.Use(prom.HandlerFunc)
	// Setup metrics endpoint at another server
	prom.SetMetricsPath(echoPrometheus)
	echoPrometheus.Logger = logger
	go func() {
		echoPrometheus.Logger.Infof("Starting prometheus on port %d", port)
		if err := echoPrometheus.Start(fmt.Sprintf(":%d", port)); err != nil {
			echoPrometheus.Logger.Info(err)
		}
	}()
	return echoPrometheus
}
