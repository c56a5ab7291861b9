package catalog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/repositories/memory"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/matryer/is"
)

const devicesCsv string = `name;type;description;location;tags;connection_info
Gate Sensor;sensor;counts passing vehicles;north-gate;outdoor,battery;{"protocol":"mqtt","mqtt":{"port":1883}}
Pump;actuator;;basement;;`

func TestSeedDevices(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	store := memory.New()

	err := SeedDevices(ctx, store, strings.NewReader(devicesCsv))
	is.NoErr(err)

	all, err := store.Query(ctx)
	is.NoErr(err)
	is.Equal(len(all), 2)

	gate := all[0]
	is.Equal(gate.Name, "Gate Sensor")
	is.Equal(gate.Tags, []string{"battery", "outdoor"})
	is.True(gate.ConnectionInfo.Matches("mqtt.port", 1883))

	pump := all[1]
	is.Equal(pump.Location, "basement")
	is.Equal(len(pump.Tags), 0)
	is.True(pump.ConnectionInfo == nil)
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	store := memory.New()
	_, err := store.Create(ctx, types.Device{Name: "existing", Type: "sensor"})
	is.NoErr(err)

	is.NoErr(SeedDevices(ctx, store, strings.NewReader(devicesCsv)))

	all, _ := store.Query(ctx)
	is.Equal(len(all), 1)
}

func TestSeedRejectsInvalidRows(t *testing.T) {
	is := is.New(t)

	err := SeedDevices(context.Background(), memory.New(), strings.NewReader("lonely"))
	is.True(errors.Is(err, storage.ErrValidation))

	err = SeedDevices(context.Background(), memory.New(), strings.NewReader("n;t;;;;{broken"))
	is.True(errors.Is(err, storage.ErrValidation))
}

func TestSeedWithInvalidRowStoresNothing(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	store := memory.New()

	file := devicesCsv + "\n;sensor;missing name;;;\nOversized;" + strings.Repeat("t", storage.MaxTypeLength+1) + ";;;;"

	err := SeedDevices(ctx, store, strings.NewReader(file))
	is.True(errors.Is(err, storage.ErrValidation))
	is.True(strings.Contains(err.Error(), "row 4"))
	is.True(strings.Contains(err.Error(), "row 5"))

	all, err := store.Query(ctx)
	is.NoErr(err)
	is.Equal(len(all), 0)

	is.NoErr(SeedDevices(ctx, store, strings.NewReader(devicesCsv)))

	all, _ = store.Query(ctx)
	is.Equal(len(all), 2)
}

func TestWrittenDevicesCanBeSeeded(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	source := memory.New()
	is.NoErr(SeedDevices(ctx, source, strings.NewReader(devicesCsv)))
	devices, _ := source.Query(ctx)

	buf := &bytes.Buffer{}
	is.NoErr(WriteDevices(buf, devices))

	target := memory.New()
	is.NoErr(SeedDevices(ctx, target, buf))

	copied, _ := target.Query(ctx)
	is.Equal(len(copied), 2)
	is.True(copied[0].ConnectionInfo.Matches("protocol", "mqtt"))
	is.Equal(copied[0].Description, "counts passing vehicles")
}
