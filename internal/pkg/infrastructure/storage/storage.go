package storage

import (
	"context"
	"errors"
	"time"

	"github.com/diwise/iot-device-catalog/pkg/types"
)

var (
	ErrNotFound            = errors.New("device not found")
	ErrValidation          = errors.New("validation failed")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConstraintViolation = errors.New("constraint violation")
)

//go:generate moq -rm -out devicestore_mock.go . DeviceStore

// DeviceStore is the authoritative catalog of devices together with the
// indexes needed to look them up by type, location and tag.
type DeviceStore interface {
	// Initialize creates the schema and its indexes. Calling it again on an
	// already initialized store is a no-op.
	Initialize(ctx context.Context) error

	Create(ctx context.Context, device types.Device) (int64, error)
	Get(ctx context.Context, id int64) (types.Device, error)
	Update(ctx context.Context, id int64, patch types.DevicePatch) (types.Device, error)
	Delete(ctx context.Context, id int64) error

	ListByType(ctx context.Context, deviceType string) ([]types.Device, error)
	ListByLocation(ctx context.Context, location string) ([]types.Device, error)
	ListByTag(ctx context.Context, tag string) ([]types.Device, error)
	QueryConnectionAttribute(ctx context.Context, path string, value any) ([]types.Device, error)
	Query(ctx context.Context, conditions ...ConditionFunc) ([]types.Device, error)

	// Put stores a device under an id assigned elsewhere, replacing any
	// existing record with that id.
	Put(ctx context.Context, device types.Device) error

	Close() error
}

// Clock returns the current time. Stores truncate it to microseconds.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// Now returns the clock reading in the resolution persisted by the stores.
func Now(clock Clock) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	return clock().UTC().Truncate(time.Microsecond)
}

// Touch returns the timestamp to use for a mutation of a record last updated
// at previous. The result is always strictly after previous.
func Touch(clock Clock, previous time.Time) time.Time {
	now := Now(clock)
	if !now.After(previous) {
		now = previous.Add(time.Microsecond)
	}
	return now
}
