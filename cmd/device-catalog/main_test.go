package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diwise/iot-device-catalog/internal/pkg/application/catalog"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/repositories/memory"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestSetup(t *testing.T) {
	is := is.New(t)
	server := httptest.NewServer(createAppAndSetupRouter(context.Background(), catalog.New(memory.New(), nil, nil, catalog.Primary)))
	defer server.Close()

	resp, _ := testRequest(server, http.MethodGet, "/health", nil)

	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestThatGetUnknownDeviceReturns404(t *testing.T) {
	is := is.New(t)
	server := httptest.NewServer(createAppAndSetupRouter(context.Background(), catalog.New(memory.New(), nil, nil, catalog.Primary)))
	defer server.Close()

	resp, _ := testRequest(server, http.MethodGet, "/api/v0/devices/17", nil)

	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestSeededDeviceCanBeFetched(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	devicesFile := filepath.Join(t.TempDir(), "devices.csv")
	err := os.WriteFile(devicesFile, []byte("name;type;description;location;tags;connection_info\nGate Sensor;sensor;;north-gate;outdoor;\n"), 0o600)
	is.NoErr(err)

	cfg, err := parseConfig([]string{"-storage", "sqlite", "-sqlite", ""}, zerolog.Nop())
	is.NoErr(err)

	store, err := newStore(ctx, cfg)
	is.NoErr(err)
	defer store.Close()

	is.NoErr(store.Initialize(ctx))
	is.NoErr(seedDevices(ctx, store, devicesFile))

	server := httptest.NewServer(createAppAndSetupRouter(ctx, catalog.New(store, nil, nil, catalog.Primary)))
	defer server.Close()

	resp, body := testRequest(server, http.MethodGet, "/api/v0/devices/1", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"name":"Gate Sensor"`))
}

func TestParseConfig(t *testing.T) {
	is := is.New(t)

	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("CATALOG_MODE", "replica")
	t.Setenv("MESSAGING_ENABLED", "false")

	cfg, err := parseConfig([]string{"-port", "9090", "-pghost", "primary-db"}, zerolog.Nop())
	is.NoErr(err)

	is.Equal(cfg.servicePort, "9090")
	is.Equal(cfg.storageDriver, "postgres")
	is.Equal(cfg.postgres.Host, "primary-db")
	is.Equal(cfg.postgres.Port, "5432")
	is.Equal(cfg.mode, "replica")
	is.True(!cfg.messaging)
}

func TestParseConfigReadsEnvironment(t *testing.T) {
	is := is.New(t)

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("DEVICES_FILE", "/opt/diwise/config/devices.csv")

	cfg, err := parseConfig(nil, zerolog.Nop())
	is.NoErr(err)

	is.Equal(cfg.postgres.Host, "db")
	is.Equal(cfg.devicesFile, "/opt/diwise/config/devices.csv")
}

func TestUnknownStorageDriver(t *testing.T) {
	is := is.New(t)

	_, err := newStore(context.Background(), appConfig{storageDriver: "mongodb"})
	is.True(err != nil)
}

func TestNotificationsFileIsLoaded(t *testing.T) {
	is := is.New(t)

	notifications := filepath.Join(t.TempDir(), "notifications.yaml")
	err := os.WriteFile(notifications, []byte("notifications:\n  - id: changes\n    type: diwise.device.created\n    subscribers:\n    - endpoint: http://localhost:8990\n"), 0o600)
	is.NoErr(err)

	sender, err := newEventSender(notifications)
	is.NoErr(err)
	is.True(sender != nil)

	_, err = newEventSender(filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(err != nil)
}

func testRequest(ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	resp, _ := http.DefaultClient.Do(req)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}
