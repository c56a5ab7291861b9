package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/iot-device-catalog/internal/pkg/application/catalog"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/repositories/memory"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

func TestHealth(t *testing.T) {
	is, server, _ := testSetup(t, catalog.Primary)

	resp, _ := testRequest(server, http.MethodGet, "/health", nil)
	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestCreateAndGetDevice(t *testing.T) {
	is, server, _ := testSetup(t, catalog.Primary)

	resp, body := testRequest(server, http.MethodPost, "/api/v0/devices",
		strings.NewReader(`{"name":"Gate Sensor","type":"sensor","location":"north-gate","tags":["outdoor","battery"]}`))
	is.Equal(resp.StatusCode, http.StatusCreated)
	is.Equal(resp.Header.Get("Location"), "/api/v0/devices/1")

	created := deviceFromResponse(t, body)
	is.Equal(created.ID, int64(1))
	is.Equal(created.Tags, []string{"battery", "outdoor"})

	resp, body = testRequest(server, http.MethodGet, "/api/v0/devices/1", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(deviceFromResponse(t, body).Name, "Gate Sensor")
}

func TestCreateInvalidDevice(t *testing.T) {
	is, server, _ := testSetup(t, catalog.Primary)

	resp, _ := testRequest(server, http.MethodPost, "/api/v0/devices", strings.NewReader(`{"name":"no type"}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = testRequest(server, http.MethodPost, "/api/v0/devices", strings.NewReader(`not json`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestGetUnknownDevice(t *testing.T) {
	is, server, _ := testSetup(t, catalog.Primary)

	resp, _ := testRequest(server, http.MethodGet, "/api/v0/devices/4711", nil)
	is.Equal(resp.StatusCode, http.StatusNotFound)

	resp, _ = testRequest(server, http.MethodGet, "/api/v0/devices/abc", nil)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestPatchDevice(t *testing.T) {
	is, server, store := testSetup(t, catalog.Primary)

	id, err := store.Create(context.Background(), types.Device{Name: "Gate Sensor", Type: "sensor", Location: "north-gate"})
	is.NoErr(err)
	before, _ := store.Get(context.Background(), id)

	resp, body := testRequest(server, http.MethodPatch, "/api/v0/devices/1", strings.NewReader(`{"location":"south-gate"}`))
	is.Equal(resp.StatusCode, http.StatusOK)

	updated := deviceFromResponse(t, body)
	is.Equal(updated.Location, "south-gate")
	is.True(updated.UpdatedAt.After(before.UpdatedAt))

	resp, _ = testRequest(server, http.MethodPatch, "/api/v0/devices/1", strings.NewReader(`{"name":""}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = testRequest(server, http.MethodPatch, "/api/v0/devices/1", strings.NewReader(`{}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	resp, _ = testRequest(server, http.MethodPatch, "/api/v0/devices/2", strings.NewReader(`{"name":"ghost"}`))
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestDeleteDevice(t *testing.T) {
	is, server, store := testSetup(t, catalog.Primary)

	_, err := store.Create(context.Background(), types.Device{Name: "n", Type: "t"})
	is.NoErr(err)

	resp, _ := testRequest(server, http.MethodDelete, "/api/v0/devices/1", nil)
	is.Equal(resp.StatusCode, http.StatusNoContent)

	resp, _ = testRequest(server, http.MethodDelete, "/api/v0/devices/1", nil)
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestQueryDevices(t *testing.T) {
	is, server, store := testSetup(t, catalog.Primary)
	ctx := context.Background()

	store.Create(ctx, types.Device{Name: "a", Type: "sensor", Location: "roof", Tags: []string{"outdoor"}})
	store.Create(ctx, types.Device{Name: "b", Type: "sensor", Location: "cellar"})
	store.Create(ctx, types.Device{Name: "c", Type: "gateway", Location: "roof", Tags: []string{"outdoor"}})

	resp, body := testRequest(server, http.MethodGet, "/api/v0/devices?type=sensor", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(len(devicesFromResponse(t, body)), 2)

	_, body = testRequest(server, http.MethodGet, "/api/v0/devices?tag=outdoor&location=roof", nil)
	is.Equal(len(devicesFromResponse(t, body)), 2)

	_, body = testRequest(server, http.MethodGet, "/api/v0/devices?limit=2", nil)
	response := struct {
		Meta  meta           `json:"meta"`
		Data  []types.Device `json:"data"`
		Links links          `json:"links"`
	}{}
	is.NoErr(json.Unmarshal(body, &response))
	is.Equal(response.Meta.Count, uint64(2))
	is.True(response.Links.Next != nil)
	is.True(strings.Contains(*response.Links.Next, "offset=2"))

	resp, _ = testRequest(server, http.MethodGet, "/api/v0/devices?limit=many", nil)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestQueryDevicesAsCsv(t *testing.T) {
	is, server, store := testSetup(t, catalog.Primary)

	store.Create(context.Background(), types.Device{Name: "a", Type: "sensor", Tags: []string{"outdoor"}})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v0/devices", nil)
	req.Header.Set("Accept", "text/csv")

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	is.Equal(resp.Header.Get("Content-Type"), "text/csv")
	is.True(strings.HasPrefix(string(body), "name;type;description;location;tags;connection_info\n"))
	is.True(strings.Contains(string(body), "a;sensor;;;outdoor;"))
}

func TestSearchDevices(t *testing.T) {
	is, server, store := testSetup(t, catalog.Primary)

	store.Create(context.Background(), types.Device{
		Name: "mqtt", Type: "sensor",
		ConnectionInfo: types.ConnectionInfo{"mqtt": map[string]any{"port": 1883, "host": "broker"}},
	})

	_, body := testRequest(server, http.MethodGet, "/api/v0/devices/search?path=mqtt.port&value=1883", nil)
	is.Equal(len(devicesFromResponse(t, body)), 1)

	_, body = testRequest(server, http.MethodGet, "/api/v0/devices/search?path=mqtt.host&value=broker", nil)
	is.Equal(len(devicesFromResponse(t, body)), 1)

	resp, _ := testRequest(server, http.MethodGet, "/api/v0/devices/search?value=broker", nil)
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestReplicaRejectsMutations(t *testing.T) {
	is, server, _ := testSetup(t, catalog.Replica)

	resp, _ := testRequest(server, http.MethodPost, "/api/v0/devices", strings.NewReader(`{"name":"n","type":"t"}`))
	is.Equal(resp.StatusCode, http.StatusMethodNotAllowed)

	resp, _ = testRequest(server, http.MethodGet, "/api/v0/devices", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
}

func TestStorageErrorsMapToStatusCodes(t *testing.T) {
	is := is.New(t)

	is.Equal(statusFromError(storage.ErrStorageUnavailable), http.StatusServiceUnavailable)
	is.Equal(statusFromError(storage.ErrConstraintViolation), http.StatusConflict)
	is.Equal(statusFromError(errors.New("boom")), http.StatusInternalServerError)

	svc := &catalog.DeviceCatalogMock{
		GetFunc: func(ctx context.Context, id int64) (types.Device, error) {
			return types.Device{}, storage.ErrStorageUnavailable
		},
	}

	server := httptest.NewServer(RegisterHandlers(context.Background(), chi.NewRouter(), svc))
	defer server.Close()

	resp, _ := testRequest(server, http.MethodGet, "/api/v0/devices/1", nil)
	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)
}

func TestEventStreamIsMountedWhenConfigured(t *testing.T) {
	is := is.New(t)

	stream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	})

	svc := catalog.New(memory.New(), nil, nil, catalog.Primary)

	server := httptest.NewServer(RegisterHandlers(context.Background(), chi.NewRouter(), svc, WithEventStream(stream)))
	defer server.Close()

	resp, _ := testRequest(server, http.MethodGet, "/api/v0/events", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "text/event-stream")

	withoutStream := httptest.NewServer(RegisterHandlers(context.Background(), chi.NewRouter(), svc))
	defer withoutStream.Close()

	resp, _ = testRequest(withoutStream, http.MethodGet, "/api/v0/events", nil)
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func testSetup(t *testing.T, mode catalog.Mode) (*is.I, *httptest.Server, storage.DeviceStore) {
	is := is.New(t)
	ctx := context.Background()

	store := memory.New()
	is.NoErr(store.Initialize(ctx))

	svc := catalog.New(store, nil, nil, mode)

	server := httptest.NewServer(RegisterHandlers(ctx, chi.NewRouter(), svc))
	t.Cleanup(server.Close)

	return is, server, store
}

func testRequest(ts *httptest.Server, method, path string, body io.Reader) (*http.Response, []byte) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	resp, _ := http.DefaultClient.Do(req)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, respBody
}

func deviceFromResponse(t *testing.T, body []byte) types.Device {
	response := struct {
		Data types.Device `json:"data"`
	}{}
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("unexpected response body %s", string(body))
	}
	return response.Data
}

func devicesFromResponse(t *testing.T, body []byte) []types.Device {
	response := struct {
		Data []types.Device `json:"data"`
	}{}
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("unexpected response body %s", string(body))
	}
	return response.Data
}
