package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diwise/iot-device-catalog/internal/pkg/application/catalog"
	"github.com/diwise/iot-device-catalog/internal/pkg/application/events"
	"github.com/diwise/iot-device-catalog/internal/pkg/application/webevents"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/repositories/memory"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/router"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-device-catalog/internal/pkg/presentation/api"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName string = "iot-device-catalog"

type appConfig struct {
	servicePort string

	storageDriver string
	sqlitePath    string
	postgres      database.ConnectorConfig

	mode              string
	messaging         bool
	notificationsFile string
	devicesFile       string
}

func main() {
	serviceVersion := buildinfo.SourceVersion()

	logger := newLogger(serviceName, serviceVersion)
	logger.Info().Msg("starting up ...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logging.NewContextWithLogger(ctx, logger)

	cfg, err := parseConfig(os.Args[1:], logger)
	exitIf(err, logger, "invalid configuration")

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	mode, err := catalog.ParseMode(cfg.mode)
	exitIf(err, logger, "invalid catalog mode")

	store, err := newStore(ctx, cfg)
	exitIf(err, logger, "could not create or connect to device store")
	defer store.Close()

	err = store.Initialize(ctx)
	exitIf(err, logger, "failed to initialize device store")

	sender, err := newEventSender(cfg.notificationsFile)
	exitIf(err, logger, "failed to create event sender")

	we := webevents.New()
	defer we.Shutdown()

	var publisher catalog.EventPublisher = we
	var messenger messaging.MsgContext

	if cfg.messaging {
		messenger, err = messaging.Initialize(messaging.LoadConfiguration(serviceName, logger))
		exitIf(err, logger, "failed to init messenger")
		defer messenger.Close()

		publisher = catalog.Fanout(messenger, we)
	}

	svc := catalog.New(store, publisher, sender, mode)

	if mode == catalog.Replica && messenger != nil {
		messenger.RegisterTopicMessageHandler(types.TopicDeviceCreated, catalog.NewDeviceChangedHandler(svc))
		messenger.RegisterTopicMessageHandler(types.TopicDeviceUpdated, catalog.NewDeviceChangedHandler(svc))
		messenger.RegisterTopicMessageHandler(types.TopicDeviceDeleted, catalog.NewDeviceDeletedHandler(svc))
	}

	if cfg.devicesFile != "" && mode == catalog.Primary {
		err = seedDevices(ctx, store, cfg.devicesFile)
		exitIf(err, logger, "failed to seed devices")
	}

	r := createAppAndSetupRouter(ctx, svc, api.WithEventStream(we.Handler()))

	err = serve(ctx, logger, ":"+cfg.servicePort, r)
	exitIf(err, logger, "failed to start request router")
}

func createAppAndSetupRouter(ctx context.Context, svc catalog.DeviceCatalog, opts ...api.Option) *chi.Mux {
	r := router.New(serviceName)
	return api.RegisterHandlers(ctx, r, svc, opts...)
}

func serve(ctx context.Context, logger zerolog.Logger, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info().Msg("shutting down ...")
		server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("listening for requests")

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func newStore(ctx context.Context, cfg appConfig) (storage.DeviceStore, error) {
	switch cfg.storageDriver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return database.NewDeviceRepository(database.NewSQLiteConnector(ctx, cfg.sqlitePath))
	case "postgres":
		return database.NewDeviceRepository(database.NewPostgreSQLConnector(ctx, cfg.postgres))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.storageDriver)
	}
}

func newEventSender(notificationsFile string) (events.EventSender, error) {
	if notificationsFile == "" {
		return events.New(nil)
	}

	f, err := os.Open(notificationsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := events.LoadConfiguration(f)
	if err != nil {
		return nil, err
	}

	return events.New(cfg)
}

func seedDevices(ctx context.Context, store storage.DeviceStore, devicesFile string) error {
	f, err := os.Open(devicesFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return catalog.SeedDevices(ctx, store, f)
}

// parseConfig reads the configuration from the environment. Command line
// flags take precedence.
func parseConfig(args []string, logger zerolog.Logger) (appConfig, error) {
	getenv := func(key, fallback string) string {
		return env.GetVariableOrDefault(logger, key, fallback)
	}

	cfg := appConfig{}

	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)

	fs.StringVar(&cfg.servicePort, "port", getenv("SERVICE_PORT", "8080"), "port to listen on")
	fs.StringVar(&cfg.storageDriver, "storage", getenv("STORAGE_DRIVER", "memory"), "device store, one of memory, sqlite or postgres")
	fs.StringVar(&cfg.sqlitePath, "sqlite", getenv("SQLITE_PATH", ""), "sqlite database file, in-memory if empty")
	fs.StringVar(&cfg.postgres.Host, "pghost", getenv("POSTGRES_HOST", "localhost"), "postgres host")
	fs.StringVar(&cfg.postgres.Port, "pgport", getenv("POSTGRES_PORT", "5432"), "postgres port")
	fs.StringVar(&cfg.postgres.Username, "pguser", getenv("POSTGRES_USER", "postgres"), "postgres user")
	fs.StringVar(&cfg.postgres.Password, "pgpassword", getenv("POSTGRES_PASSWORD", ""), "postgres password")
	fs.StringVar(&cfg.postgres.DbName, "pgdbname", getenv("POSTGRES_DBNAME", "diwise"), "postgres database")
	fs.StringVar(&cfg.postgres.SslMode, "pgsslmode", getenv("POSTGRES_SSLMODE", "disable"), "postgres ssl mode")
	fs.StringVar(&cfg.mode, "mode", getenv("CATALOG_MODE", string(catalog.Primary)), "primary or replica")
	fs.StringVar(&cfg.notificationsFile, "notifications", getenv("NOTIFICATIONS_FILE", ""), "yaml file with notification subscribers")
	fs.StringVar(&cfg.devicesFile, "devices", getenv("DEVICES_FILE", ""), "csv file used to seed an empty catalog")
	fs.BoolVar(&cfg.messaging, "messaging", strings.ToLower(getenv("MESSAGING_ENABLED", "true")) == "true", "publish and consume device changes over amqp")

	err := fs.Parse(args)

	return cfg, err
}

func newLogger(serviceName, serviceVersion string) zerolog.Logger {
	logger := log.With().Str("service", strings.ToLower(serviceName)).Str("version", serviceVersion).Logger()
	return logger
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Fatal().Err(err).Msg(msg)
	}
}
