package webevents

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/matryer/is"
)

func TestPublishWithoutListeners(t *testing.T) {
	is := is.New(t)
	we := New()
	defer we.Shutdown()

	err := we.PublishOnTopic(context.Background(), &types.DeviceDeleted{ID: 1, DeletedAt: time.Now()})
	is.NoErr(err)
}

func TestThatListenersReceiveDeviceChanges(t *testing.T) {
	is := is.New(t)
	we := New()
	defer we.Shutdown()

	server := httptest.NewServer(we.Handler())
	defer server.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				we.PublishOnTopic(context.Background(), &types.DeviceCreated{Device: types.Device{ID: 1, Name: "Gate Sensor", Type: "sensor"}})
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	is.True(strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))

	received := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == "event: "+types.TopicDeviceCreated {
			received = true
			break
		}
	}

	is.True(received)
}
