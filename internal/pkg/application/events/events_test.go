package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestConfig(t *testing.T) {
	is := setupTest(t)
	config := strings.NewReader(`
notifications:
  - id: device-changes
    name: Device catalog changes
    type: diwise.device.updated
    subscribers:
    - endpoint: http://api-notification:8990
`)
	cfg, err := LoadConfiguration(config)

	is.NoErr(err)
	is.Equal(len(cfg.Notifications), 1)
	is.Equal(cfg.Notifications[0].ID, "device-changes")
	is.Equal(cfg.Notifications[0].Subscribers[0].Endpoint, "http://api-notification:8990")
}

func TestSendWithoutSubscribersIsNoop(t *testing.T) {
	is := setupTest(t)

	sender, err := New(nil)
	is.NoErr(err)

	err = sender.Send(context.Background(), DeviceCreated, 1, time.Now(), map[string]any{"id": 1})
	is.NoErr(err)
}

func TestSendPostsCloudEventToSubscribers(t *testing.T) {
	is := setupTest(t)

	var mu sync.Mutex
	var eventType, eventID string
	var body map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		eventType = r.Header.Get("Ce-Type")
		eventID = r.Header.Get("Ce-Id")
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender, err := New(&Config{
		Notifications: []Notification{
			{Type: DeviceDeleted, Subscribers: []SubscriberConfig{{Endpoint: server.URL}}},
		},
	})
	is.NoErr(err)

	timestamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err = sender.Send(context.Background(), DeviceDeleted, 7, timestamp, map[string]any{"id": 7})
	is.NoErr(err)

	mu.Lock()
	defer mu.Unlock()

	is.Equal(eventType, DeviceDeleted)
	is.Equal(eventID, "7:1709294400000000")
	is.Equal(body["id"], float64(7))
}

func TestSendReportsUnreachableSubscriber(t *testing.T) {
	is := setupTest(t)

	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	sender, err := New(&Config{
		Notifications: []Notification{
			{Type: DeviceCreated, Subscribers: []SubscriberConfig{{Endpoint: endpoint}}},
		},
	})
	is.NoErr(err)

	err = sender.Send(context.Background(), DeviceCreated, 1, time.Now(), map[string]any{})
	is.True(err != nil)
}

func setupTest(t *testing.T) *is.I {
	is := is.New(t)

	return is
}
