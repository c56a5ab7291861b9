package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/matryer/is"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestPrepareStampsAndNormalizes(t *testing.T) {
	is := is.New(t)

	now := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	d, err := Prepare(types.Device{
		ID:             17,
		Name:           "sensor",
		Type:           "temperature",
		ConnectionInfo: types.ConnectionInfo{},
		Tags:           []string{"outdoor", "battery", "outdoor"},
	}, fixedClock(now))
	is.NoErr(err)

	is.Equal(d.ID, int64(0))
	is.Equal(d.Tags, []string{"battery", "outdoor"})
	is.True(d.ConnectionInfo == nil)
	is.Equal(d.CreatedAt, now.Truncate(time.Microsecond))
	is.Equal(d.CreatedAt, d.UpdatedAt)
}

func TestValidate(t *testing.T) {
	is := is.New(t)

	is.NoErr(Validate(types.Device{Name: "n", Type: "t"}))

	for _, d := range []types.Device{
		{Type: "t"},
		{Name: "n"},
		{Name: "n", Type: "t", Tags: []string{""}},
		{Name: string(make([]byte, MaxNameLength+1)), Type: "t"},
	} {
		err := Validate(d)
		is.True(errors.Is(err, ErrValidation))
	}
}

func TestApplyPatchKeepsIdentity(t *testing.T) {
	is := is.New(t)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	current := types.Device{
		ID: 3, Name: "gate", Type: "sensor", Location: "north-gate",
		ConnectionInfo: types.ConnectionInfo{"host": "10.0.0.1"},
		Tags:           []string{"outdoor"},
		CreatedAt:      created, UpdatedAt: created,
	}

	location := "south-gate"
	d, err := ApplyPatch(current, types.DevicePatch{Location: &location}, fixedClock(created.Add(time.Minute)))
	is.NoErr(err)

	is.Equal(d.ID, int64(3))
	is.Equal(d.Location, "south-gate")
	is.Equal(d.CreatedAt, created)
	is.Equal(d.UpdatedAt, created.Add(time.Minute))
	is.Equal(d.Tags, []string{"outdoor"})
	is.True(d.ConnectionInfo.Matches("host", "10.0.0.1"))
	is.Equal(current.Location, "north-gate")
}

func TestApplyPatchClearsConnectionInfo(t *testing.T) {
	is := is.New(t)

	current := types.Device{ID: 1, Name: "n", Type: "t", ConnectionInfo: types.ConnectionInfo{"a": 1}}

	d, err := ApplyPatch(current, types.DevicePatch{ConnectionInfo: types.ConnectionInfo{}}, SystemClock)
	is.NoErr(err)
	is.True(d.ConnectionInfo == nil)
}

func TestTouchIsStrictlyIncreasing(t *testing.T) {
	is := is.New(t)

	previous := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	is.Equal(Touch(fixedClock(previous), previous), previous.Add(time.Microsecond))
	is.Equal(Touch(fixedClock(previous.Add(-time.Hour)), previous), previous.Add(time.Microsecond))
	is.Equal(Touch(fixedClock(previous.Add(time.Second)), previous), previous.Add(time.Second))
}

func TestPrepareReplica(t *testing.T) {
	is := is.New(t)

	_, err := PrepareReplica(types.Device{Name: "n", Type: "t"}, SystemClock)
	is.True(errors.Is(err, ErrValidation))

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d, err := PrepareReplica(types.Device{
		ID: 9, Name: "n", Type: "t", CreatedAt: created, UpdatedAt: created.Add(-time.Hour),
	}, SystemClock)
	is.NoErr(err)
	is.Equal(d.ID, int64(9))
	is.Equal(d.UpdatedAt, created)
}

func TestValidateRejectsTagSeparator(t *testing.T) {
	is := is.New(t)

	err := Validate(types.Device{Name: "n", Type: "t", Tags: []string{"zone a,b"}})
	is.True(errors.Is(err, ErrValidation))

	_, err = ApplyPatch(types.Device{ID: 1, Name: "n", Type: "t"}, types.DevicePatch{Tags: []string{"a,b"}}, SystemClock)
	is.True(errors.Is(err, ErrValidation))
}

func TestPrepareCopiesConnectionInfoAsJSON(t *testing.T) {
	is := is.New(t)

	hosts := []string{"h1"}

	d, err := Prepare(types.Device{
		Name: "gateway", Type: "gateway",
		ConnectionInfo: types.ConnectionInfo{"hosts": hosts, "port": 1883},
	}, SystemClock)
	is.NoErr(err)

	hosts[0] = "mutated"

	is.Equal(d.ConnectionInfo["hosts"], []any{"h1"})
	is.Equal(d.ConnectionInfo["port"], float64(1883))
}

func TestPrepareRejectsConnectionInfoThatIsNotJSON(t *testing.T) {
	is := is.New(t)

	_, err := Prepare(types.Device{
		Name: "gateway", Type: "gateway",
		ConnectionInfo: types.ConnectionInfo{"callback": func() {}},
	}, SystemClock)
	is.True(errors.Is(err, ErrValidation))
}
