package database

import (
	"context"
	"fmt"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ConnectorConfig struct {
	Host     string
	Port     string
	Username string
	DbName   string
	Password string
	SslMode  string
}

func (c ConnectorConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		c.Host, c.Port, c.Username, c.DbName, c.SslMode, c.Password)
}

type ConnectorFunc func() (*gorm.DB, zerolog.Logger, error)

// NewSQLiteConnector opens a SQLite database at path. An empty path opens a
// private in-memory database.
func NewSQLiteConnector(ctx context.Context, path string) ConnectorFunc {
	log := logging.GetFromContext(ctx)

	if path == "" {
		path = "file::memory:"
	}

	return func() (*gorm.DB, zerolog.Logger, error) {
		sublogger := log.With().Str("database", path).Logger()

		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger:          logger.Default.LogMode(logger.Silent),
			CreateBatchSize: 1000,
		})
		if err != nil {
			return nil, sublogger, err
		}

		db.Exec("PRAGMA foreign_keys = ON")

		sqldb, err := db.DB()
		if err != nil {
			return nil, sublogger, err
		}
		sqldb.SetMaxOpenConns(1)

		return db, sublogger, nil
	}
}

func NewPostgreSQLConnector(ctx context.Context, cfg ConnectorConfig) ConnectorFunc {
	log := logging.GetFromContext(ctx)

	return func() (*gorm.DB, zerolog.Logger, error) {
		sublogger := log.With().Str("host", cfg.Host).Str("database", cfg.DbName).Logger()

		sublogger.Info().Msg("connecting to database host")

		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: logger.New(
				&logadapter{logger: sublogger},
				logger.Config{
					SlowThreshold:             time.Second,
					LogLevel:                  logger.Warn,
					IgnoreRecordNotFoundError: true,
					Colorful:                  false,
				},
			),
		})
		if err != nil {
			sublogger.Error().Err(err).Msg("failed to connect to database")
			return nil, sublogger, classify(err)
		}

		return db, sublogger, nil
	}
}

// logadapter provides a Printf interface to the gorm logger
// so that we can forward the log data to zerolog
type logadapter struct {
	logger zerolog.Logger
}

func (adapter *logadapter) Printf(format string, args ...interface{}) {
	adapter.logger.Info().Msgf(format, args...)
}
