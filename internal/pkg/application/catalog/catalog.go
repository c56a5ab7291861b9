package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diwise/iot-device-catalog/internal/pkg/application/events"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("iot-device-catalog/catalog")

var ErrReadOnly = errors.New("catalog is read only")

type Mode string

const (
	Primary Mode = "primary"
	Replica Mode = "replica"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Primary, "":
		return Primary, nil
	case Replica:
		return Replica, nil
	default:
		return "", fmt.Errorf("unknown catalog mode %q", s)
	}
}

//go:generate moq -rm -out catalog_mock.go . DeviceCatalog

type DeviceCatalog interface {
	Create(ctx context.Context, device types.Device) (types.Device, error)
	Get(ctx context.Context, id int64) (types.Device, error)
	Update(ctx context.Context, id int64, patch types.DevicePatch) (types.Device, error)
	Delete(ctx context.Context, id int64) error

	Query(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.Device, error)
	QueryConnectionAttribute(ctx context.Context, path string, value any) ([]types.Device, error)

	// Replicate and Forget apply changes made by the primary catalog.
	Replicate(ctx context.Context, device types.Device) error
	Forget(ctx context.Context, id int64) error

	ReadOnly() bool
}

//go:generate moq -rm -out publisher_mock.go . EventPublisher

// EventPublisher is the part of the messaging context used to announce
// changes on the topic exchange.
type EventPublisher interface {
	PublishOnTopic(ctx context.Context, message messaging.TopicMessage) error
}

type fanout []EventPublisher

// Fanout returns a publisher that hands every message to each of the non nil
// publishers, or nil if there are none.
func Fanout(publishers ...EventPublisher) EventPublisher {
	f := fanout(lo.Filter(publishers, func(p EventPublisher, _ int) bool {
		return p != nil
	}))

	if len(f) == 0 {
		return nil
	}

	return f
}

func (f fanout) PublishOnTopic(ctx context.Context, message messaging.TopicMessage) error {
	errs := []error{}

	for _, p := range f {
		if err := p.PublishOnTopic(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type deviceCatalog struct {
	store     storage.DeviceStore
	publisher EventPublisher
	sender    events.EventSender
	mode      Mode
}

// New returns a catalog backed by store. The publisher and sender are
// optional, a replica never publishes.
func New(store storage.DeviceStore, publisher EventPublisher, sender events.EventSender, mode Mode) DeviceCatalog {
	c := &deviceCatalog{
		store:     store,
		publisher: publisher,
		sender:    sender,
		mode:      mode,
	}

	if mode == Replica {
		c.publisher = nil
		c.sender = nil
	}

	return c
}

func (c *deviceCatalog) ReadOnly() bool {
	return c.mode == Replica
}

func (c *deviceCatalog) Create(ctx context.Context, device types.Device) (created types.Device, err error) {
	ctx, span := tracer.Start(ctx, "create-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if c.ReadOnly() {
		return types.Device{}, ErrReadOnly
	}

	id, err := c.store.Create(ctx, device)
	if err != nil {
		return types.Device{}, err
	}

	span.SetAttributes(attribute.Int64("device.id", id))

	created, err = c.store.Get(ctx, id)
	if err != nil {
		return types.Device{}, err
	}

	logger := logging.GetFromContext(ctx)
	logger.Info().Int64("device_id", id).Str("type", created.Type).Msg("device created")

	c.publish(ctx, &types.DeviceCreated{Device: created}, events.DeviceCreated, id, created.CreatedAt, created)

	return created, nil
}

func (c *deviceCatalog) Get(ctx context.Context, id int64) (device types.Device, err error) {
	ctx, span := tracer.Start(ctx, "get-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.Int64("device.id", id))

	return c.store.Get(ctx, id)
}

func (c *deviceCatalog) Update(ctx context.Context, id int64, patch types.DevicePatch) (updated types.Device, err error) {
	ctx, span := tracer.Start(ctx, "update-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.Int64("device.id", id))

	if c.ReadOnly() {
		return types.Device{}, ErrReadOnly
	}

	updated, err = c.store.Update(ctx, id, patch)
	if err != nil {
		return types.Device{}, err
	}

	logger := logging.GetFromContext(ctx)
	logger.Info().Int64("device_id", id).Msg("device updated")

	c.publish(ctx, &types.DeviceUpdated{Device: updated}, events.DeviceUpdated, id, updated.UpdatedAt, updated)

	return updated, nil
}

func (c *deviceCatalog) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "delete-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.Int64("device.id", id))

	if c.ReadOnly() {
		return ErrReadOnly
	}

	err = c.store.Delete(ctx, id)
	if err != nil {
		return err
	}

	logger := logging.GetFromContext(ctx)
	logger.Info().Int64("device_id", id).Msg("device deleted")

	deleted := &types.DeviceDeleted{ID: id, DeletedAt: time.Now().UTC()}
	c.publish(ctx, deleted, events.DeviceDeleted, id, deleted.DeletedAt, deleted)

	return nil
}

func (c *deviceCatalog) Query(ctx context.Context, conditions ...storage.ConditionFunc) (devices []types.Device, err error) {
	ctx, span := tracer.Start(ctx, "query-devices")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return c.store.Query(ctx, conditions...)
}

func (c *deviceCatalog) QueryConnectionAttribute(ctx context.Context, path string, value any) (devices []types.Device, err error) {
	ctx, span := tracer.Start(ctx, "query-connection-attribute")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.String("connection.path", path))

	return c.store.QueryConnectionAttribute(ctx, path, value)
}

func (c *deviceCatalog) Replicate(ctx context.Context, device types.Device) (err error) {
	ctx, span := tracer.Start(ctx, "replicate-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.Int64("device.id", device.ID))

	return c.store.Put(ctx, device)
}

// Forget removes a replicated device. A device that is already gone is not
// an error since deletes may be delivered more than once.
func (c *deviceCatalog) Forget(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "forget-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.Int64("device.id", id))

	err = c.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}

	return err
}

// publish announces a change that has already been stored. Failures are
// logged and never undo the change.
func (c *deviceCatalog) publish(ctx context.Context, message messaging.TopicMessage, eventType string, id int64, timestamp time.Time, data any) {
	logger := logging.GetFromContext(ctx)

	if c.publisher != nil {
		err := c.publisher.PublishOnTopic(ctx, message)
		if err != nil {
			logger.Error().Err(err).Str("topic", message.TopicName()).Int64("device_id", id).Msg("failed to publish device change")
		}
	}

	if c.sender != nil {
		err := c.sender.Send(ctx, eventType, id, timestamp, data)
		if err != nil {
			logger.Warn().Err(err).Str("type", eventType).Int64("device_id", id).Msg("failed to notify subscribers")
		}
	}
}
