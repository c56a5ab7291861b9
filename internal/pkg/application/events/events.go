package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"golang.org/x/sys/unix"
	yaml "gopkg.in/yaml.v2"
)

const (
	DeviceCreated string = "diwise.device.created"
	DeviceUpdated string = "diwise.device.updated"
	DeviceDeleted string = "diwise.device.deleted"
)

const eventSource string = "github.com/diwise/iot-device-catalog"

//go:generate moq -rm -out events_mock.go . EventSender

type EventSender interface {
	Send(ctx context.Context, eventType string, deviceID int64, timestamp time.Time, data any) error
}

type eventSender struct {
	subscribers map[string][]SubscriberConfig
	client      cloudevents.Client
}

func New(cfg *Config) (EventSender, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	e := &eventSender{
		subscribers: make(map[string][]SubscriberConfig),
		client:      c,
	}

	if cfg != nil {
		for _, n := range cfg.Notifications {
			e.subscribers[n.Type] = append(e.subscribers[n.Type], n.Subscribers...)
		}
	}

	return e, nil
}

func (e *eventSender) Send(ctx context.Context, eventType string, deviceID int64, timestamp time.Time, data any) error {
	subscribers, ok := e.subscribers[eventType]
	if !ok || len(subscribers) == 0 {
		return nil
	}

	event := cloudevents.NewEvent()
	event.SetID(fmt.Sprintf("%d:%d", deviceID, timestamp.UnixMicro()))
	event.SetTime(timestamp)
	event.SetSource(eventSource)
	event.SetType(eventType)
	event.SetExtension("deviceid", fmt.Sprintf("%d", deviceID))

	err := event.SetData(cloudevents.ApplicationJSON, data)
	if err != nil {
		return err
	}

	logger := logging.GetFromContext(ctx)

	var errs []error

	for _, s := range subscribers {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.Endpoint)

		result := e.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) {
			logger.Error().Err(result).Str("endpoint", s.Endpoint).Str("type", eventType).Msg("failed to send event")
			errs = append(errs, fmt.Errorf("%s: %w", s.Endpoint, result))
			continue
		}

		if !cloudevents.IsACK(result) {
			logger.Warn().Err(result).Str("endpoint", s.Endpoint).Msg("event was not acknowledged")
		}
	}

	return errors.Join(errs...)
}

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []Notification `yaml:"notifications"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(buf, &cfg); err == nil {
		return &cfg, nil
	} else {
		return nil, err
	}
}
