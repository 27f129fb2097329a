package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
)

const applicationName = "bdshub"

var supportedSchemes = []string{"postgres://", "postgresql://", "unix://"}

func isSupported(dsn string) bool {
	for _, scheme := range supportedSchemes {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// Open connects to postgres and checks the connection before returning.
func Open(config *service.Config) (*bun.DB, error) {
	dsn := config.DatabaseUri
	if !isSupported(dsn) {
		return nil, fmt.Errorf("invalid database connection string %s, only (postgres|postgresql|unix):// is supported", dsn)
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithApplicationName(applicationName),
		pgdriver.WithDialTimeout(10*time.Second),
	)
	sqldb := openSQL(config, connector)
	sqldb.SetMaxOpenConns(config.DatabaseMaxConns)
	sqldb.SetMaxIdleConns(config.DatabaseMaxIdleConns)
	sqldb.SetConnMaxLifetime(time.Duration(config.DatabaseConnMaxLifetime) * time.Second)

	db := bun.NewDB(sqldb, pgdialect.New())
	// BUNDEBUG=1 logs failed queries, BUNDEBUG=2 logs all of them
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),
		bundebug.FromEnv("BUNDEBUG"),
	))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}
	return db, nil
}

// openSQL wraps the connector with datadog tracing when an agent is configured.
func openSQL(config *service.Config, connector driver.Connector) *sql.DB {
	if config.DatadogAgentUrl == "" {
		return sql.OpenDB(connector)
	}
	sqltrace.Register("postgres", pgdriver.Driver{}, sqltrace.WithServiceName("bdshub.go"))
	return sqltrace.OpenDB(connector)
}
