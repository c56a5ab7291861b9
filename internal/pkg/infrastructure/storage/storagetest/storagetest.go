// Package storagetest holds the behaviour every DeviceStore implementation
// must share. Backends call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/matryer/is"
	"github.com/samber/lo"
)

// NewStoreFunc returns an empty, initialized store driven by clock.
type NewStoreFunc func(t *testing.T, clock storage.Clock) storage.DeviceStore

// FakeClock ticks one second every time it is read.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

// FrozenClock never advances.
func FrozenClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func Run(t *testing.T, newStore NewStoreFunc) {
	tests := map[string]func(*testing.T, NewStoreFunc){
		"CreateAssignsFreshIDs":          testCreateAssignsFreshIDs,
		"CreateRequiresNameAndType":      testCreateRequiresNameAndType,
		"CreateRejectsOversizedFields":   testCreateRejectsOversizedFields,
		"GetUnknownDevice":               testGetUnknownDevice,
		"UpdateAdvancesUpdatedAt":        testUpdateAdvancesUpdatedAt,
		"UpdateWithFrozenClock":          testUpdateWithFrozenClock,
		"UpdateCannotClearNameOrType":    testUpdateCannotClearNameOrType,
		"UpdateUnknownDevice":            testUpdateUnknownDevice,
		"DeleteThenGet":                  testDeleteThenGet,
		"IDsAreNeverReused":              testIDsAreNeverReused,
		"ListByType":                     testListByType,
		"ListByTag":                      testListByTag,
		"TagsHaveSetSemantics":           testTagsHaveSetSemantics,
		"UpdateMaintainsIndexes":         testUpdateMaintainsIndexes,
		"QueryCombinesConditions":        testQueryCombinesConditions,
		"QueryConnectionAttribute":       testQueryConnectionAttribute,
		"PutReplicatesAndAdvancesIDs":    testPutReplicatesAndAdvancesIDs,
		"InitializeIsIdempotent":         testInitializeIsIdempotent,
		"GateSensorScenario":             testGateSensorScenario,
		"ConcurrentCreatesAreUnique":     testConcurrentCreatesAreUnique,
		"ReturnedDevicesAreNotShared":    testReturnedDevicesAreNotShared,
		"ConnectionInfoSurvivesRoundTrip": testConnectionInfoSurvivesRoundTrip,
		"ConnectionInfoIsCopiedOnWrite":   testConnectionInfoIsCopiedOnWrite,
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			test(t, newStore)
		})
	}
}

func setup(t *testing.T, newStore NewStoreFunc) (*is.I, context.Context, storage.DeviceStore) {
	is := is.New(t)
	s := newStore(t, NewFakeClock().Now)
	return is, context.Background(), s
}

func sensor(name string, tags ...string) types.Device {
	return types.Device{
		Name:     name,
		Type:     "sensor",
		Location: "north-gate",
		Tags:     tags,
	}
}

func ids(devices []types.Device) []int64 {
	return lo.Map(devices, func(d types.Device, _ int) int64 {
		return d.ID
	})
}

func testCreateAssignsFreshIDs(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		id, err := s.Create(ctx, sensor(fmt.Sprintf("sensor-%d", i)))
		is.NoErr(err)
		is.True(id > 0)
		is.True(!seen[id])
		seen[id] = true

		d, err := s.Get(ctx, id)
		is.NoErr(err)
		is.Equal(d.ID, id)
		is.True(d.CreatedAt.Equal(d.UpdatedAt))
		is.Equal(d.CreatedAt.Location(), time.UTC)
	}
}

func testCreateRequiresNameAndType(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	_, err := s.Create(ctx, types.Device{Type: "sensor"})
	is.True(errors.Is(err, storage.ErrValidation))

	_, err = s.Create(ctx, types.Device{Name: "nameless type"})
	is.True(errors.Is(err, storage.ErrValidation))

	all, err := s.Query(ctx)
	is.NoErr(err)
	is.Equal(len(all), 0) // a failed create has no effect
}

func testCreateRejectsOversizedFields(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	long := func(n int) string {
		b := make([]rune, n)
		for i := range b {
			b[i] = 'ä'
		}
		return string(b)
	}

	_, err := s.Create(ctx, types.Device{Name: long(256), Type: "sensor"})
	is.True(errors.Is(err, storage.ErrValidation))

	_, err = s.Create(ctx, types.Device{Name: "n", Type: long(101)})
	is.True(errors.Is(err, storage.ErrValidation))

	_, err = s.Create(ctx, types.Device{Name: "n", Type: "sensor", Location: long(256)})
	is.True(errors.Is(err, storage.ErrValidation))

	_, err = s.Create(ctx, types.Device{Name: long(255), Type: long(100), Location: long(255)})
	is.NoErr(err)
}

func testGetUnknownDevice(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	_, err := s.Get(ctx, 4711)
	is.True(errors.Is(err, storage.ErrNotFound))
}

func testUpdateAdvancesUpdatedAt(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, types.Device{
		Name:           "pump",
		Type:           "actuator",
		Description:    "basement pump",
		Location:       "basement",
		ConnectionInfo: types.ConnectionInfo{"host": "10.0.0.7"},
		Tags:           []string{"indoor"},
	})
	is.NoErr(err)

	before, err := s.Get(ctx, id)
	is.NoErr(err)

	name := "main pump"
	after, err := s.Update(ctx, id, types.DevicePatch{Name: &name})
	is.NoErr(err)

	is.Equal(after.Name, "main pump")
	is.True(after.UpdatedAt.After(before.UpdatedAt))
	is.True(after.CreatedAt.Equal(before.CreatedAt))
	is.Equal(after.Type, before.Type)
	is.Equal(after.Description, before.Description)
	is.Equal(after.Location, before.Location)
	is.Equal(after.Tags, before.Tags)
	is.True(after.ConnectionInfo.Matches("host", "10.0.0.7"))

	stored, err := s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(stored.Name, "main pump")
	is.True(stored.UpdatedAt.Equal(after.UpdatedAt))
}

func testUpdateWithFrozenClock(t *testing.T, newStore NewStoreFunc) {
	is := is.New(t)
	ctx := context.Background()
	s := newStore(t, FrozenClock)

	id, err := s.Create(ctx, sensor("frozen"))
	is.NoErr(err)

	description := "first"
	first, err := s.Update(ctx, id, types.DevicePatch{Description: &description})
	is.NoErr(err)

	description = "second"
	second, err := s.Update(ctx, id, types.DevicePatch{Description: &description})
	is.NoErr(err)

	is.True(first.UpdatedAt.After(first.CreatedAt))
	is.True(second.UpdatedAt.After(first.UpdatedAt))
}

func testUpdateCannotClearNameOrType(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, sensor("gate"))
	is.NoErr(err)

	empty := ""
	_, err = s.Update(ctx, id, types.DevicePatch{Name: &empty})
	is.True(errors.Is(err, storage.ErrValidation))

	location := "elsewhere"
	_, err = s.Update(ctx, id, types.DevicePatch{Type: &empty, Location: &location})
	is.True(errors.Is(err, storage.ErrValidation))

	d, err := s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(d.Name, "gate")
	is.Equal(d.Location, "north-gate") // rejected update left no trace
}

func testUpdateUnknownDevice(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	name := "ghost"
	_, err := s.Update(ctx, 99, types.DevicePatch{Name: &name})
	is.True(errors.Is(err, storage.ErrNotFound))
}

func testDeleteThenGet(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, sensor("short lived", "outdoor"))
	is.NoErr(err)

	is.NoErr(s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	is.True(errors.Is(err, storage.ErrNotFound))

	err = s.Delete(ctx, id)
	is.True(errors.Is(err, storage.ErrNotFound))

	byTag, err := s.ListByTag(ctx, "outdoor")
	is.NoErr(err)
	is.Equal(len(byTag), 0)
}

func testIDsAreNeverReused(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	first, err := s.Create(ctx, sensor("first"))
	is.NoErr(err)
	second, err := s.Create(ctx, sensor("second"))
	is.NoErr(err)

	is.NoErr(s.Delete(ctx, second))

	third, err := s.Create(ctx, sensor("third"))
	is.NoErr(err)

	is.True(second > first)
	is.True(third > second)
}

func testListByType(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	a, _ := s.Create(ctx, types.Device{Name: "a", Type: "sensor", Location: "roof", Tags: []string{"outdoor"}})
	_, _ = s.Create(ctx, types.Device{Name: "b", Type: "gateway", Location: "roof"})
	c, _ := s.Create(ctx, types.Device{Name: "c", Type: "sensor"})
	_, _ = s.Create(ctx, types.Device{Name: "d", Type: "sensors"})

	sensors, err := s.ListByType(ctx, "sensor")
	is.NoErr(err)
	is.Equal(ids(sensors), []int64{a, c})

	none, err := s.ListByType(ctx, "camera")
	is.NoErr(err)
	is.Equal(len(none), 0)
}

func testListByTag(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	both, _ := s.Create(ctx, sensor("both", "outdoor", "battery"))
	outdoor, _ := s.Create(ctx, sensor("outdoor only", "outdoor"))
	battery, _ := s.Create(ctx, sensor("battery only", "battery"))
	_, _ = s.Create(ctx, sensor("untagged"))

	byOutdoor, err := s.ListByTag(ctx, "outdoor")
	is.NoErr(err)
	is.Equal(ids(byOutdoor), []int64{both, outdoor})

	byBattery, err := s.ListByTag(ctx, "battery")
	is.NoErr(err)
	is.Equal(ids(byBattery), []int64{both, battery})

	byUnknown, err := s.ListByTag(ctx, "indoor")
	is.NoErr(err)
	is.Equal(len(byUnknown), 0)
}

func testTagsHaveSetSemantics(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, sensor("dupes", "outdoor", "battery", "outdoor"))
	is.NoErr(err)

	d, err := s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(d.Tags, []string{"battery", "outdoor"})

	byTag, err := s.ListByTag(ctx, "outdoor")
	is.NoErr(err)
	is.Equal(len(byTag), 1)
}

func testUpdateMaintainsIndexes(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, sensor("mover", "outdoor"))
	is.NoErr(err)

	deviceType := "gateway"
	_, err = s.Update(ctx, id, types.DevicePatch{Type: &deviceType, Tags: []string{"indoor", "mains"}})
	is.NoErr(err)

	sensors, _ := s.ListByType(ctx, "sensor")
	is.Equal(len(sensors), 0)
	gateways, _ := s.ListByType(ctx, "gateway")
	is.Equal(ids(gateways), []int64{id})

	outdoor, _ := s.ListByTag(ctx, "outdoor")
	is.Equal(len(outdoor), 0)
	indoor, _ := s.ListByTag(ctx, "indoor")
	is.Equal(ids(indoor), []int64{id})

	cleared := ""
	_, err = s.Update(ctx, id, types.DevicePatch{Location: &cleared, Tags: []string{}})
	is.NoErr(err)

	atGate, _ := s.ListByLocation(ctx, "north-gate")
	is.Equal(len(atGate), 0)
	mains, _ := s.ListByTag(ctx, "mains")
	is.Equal(len(mains), 0)

	d, err := s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(d.Location, "")
	is.Equal(len(d.Tags), 0)
}

func testQueryCombinesConditions(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	a, _ := s.Create(ctx, types.Device{Name: "a", Type: "sensor", Location: "roof", Tags: []string{"outdoor"}})
	b, _ := s.Create(ctx, types.Device{Name: "b", Type: "sensor", Location: "roof"})
	_, _ = s.Create(ctx, types.Device{Name: "c", Type: "gateway", Location: "roof", Tags: []string{"outdoor"}})
	d, _ := s.Create(ctx, types.Device{Name: "d", Type: "sensor", Location: "roof", Tags: []string{"outdoor"}})

	roofSensors, err := s.Query(ctx, storage.WithType("sensor"), storage.WithLocation("roof"))
	is.NoErr(err)
	is.Equal(ids(roofSensors), []int64{a, b, d})

	outdoorRoofSensors, err := s.Query(ctx, storage.WithType("sensor"), storage.WithLocation("roof"), storage.WithTag("outdoor"))
	is.NoErr(err)
	is.Equal(ids(outdoorRoofSensors), []int64{a, d})

	page, err := s.Query(ctx, storage.WithLocation("roof"), storage.WithOffset(1), storage.WithLimit(2))
	is.NoErr(err)
	is.Equal(len(page), 2)
	is.Equal(page[0].ID, b)

	all, err := s.Query(ctx)
	is.NoErr(err)
	is.Equal(len(all), 4)
}

func testQueryConnectionAttribute(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	mqtt, _ := s.Create(ctx, types.Device{
		Name: "mqtt sensor", Type: "sensor",
		ConnectionInfo: types.ConnectionInfo{
			"protocol": "mqtt",
			"mqtt":     map[string]any{"host": "broker.local", "port": 1883},
		},
	})
	_, _ = s.Create(ctx, types.Device{
		Name: "http sensor", Type: "sensor",
		ConnectionInfo: types.ConnectionInfo{"protocol": "http", "port": 8080},
	})
	_, _ = s.Create(ctx, types.Device{Name: "offline", Type: "sensor"})

	byProtocol, err := s.QueryConnectionAttribute(ctx, "protocol", "mqtt")
	is.NoErr(err)
	is.Equal(ids(byProtocol), []int64{mqtt})

	byNestedPort, err := s.QueryConnectionAttribute(ctx, "mqtt.port", 1883)
	is.NoErr(err)
	is.Equal(ids(byNestedPort), []int64{mqtt})

	noMatch, err := s.QueryConnectionAttribute(ctx, "mqtt.port", 8080)
	is.NoErr(err)
	is.Equal(len(noMatch), 0)

	_, err = s.QueryConnectionAttribute(ctx, "", "mqtt")
	is.True(errors.Is(err, storage.ErrValidation))
}

func testPutReplicatesAndAdvancesIDs(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.Put(ctx, types.Device{
		ID: 42, Name: "replica", Type: "sensor", Location: "roof",
		Tags: []string{"outdoor"}, CreatedAt: created, UpdatedAt: created,
	})
	is.NoErr(err)

	err = s.Put(ctx, types.Device{
		ID: 42, Name: "replica", Type: "sensor", Location: "cellar",
		Tags: []string{"indoor"}, CreatedAt: created, UpdatedAt: created.Add(time.Hour),
	})
	is.NoErr(err)

	d, err := s.Get(ctx, 42)
	is.NoErr(err)
	is.Equal(d.Location, "cellar")
	is.True(d.CreatedAt.Equal(created))

	roof, _ := s.ListByLocation(ctx, "roof")
	is.Equal(len(roof), 0)
	outdoor, _ := s.ListByTag(ctx, "outdoor")
	is.Equal(len(outdoor), 0)

	id, err := s.Create(ctx, sensor("local"))
	is.NoErr(err)
	is.True(id > 42)

	err = s.Put(ctx, types.Device{Name: "no id", Type: "sensor"})
	is.True(errors.Is(err, storage.ErrValidation))
}

func testInitializeIsIdempotent(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, sensor("survivor", "outdoor"))
	is.NoErr(err)

	is.NoErr(s.Initialize(ctx))
	is.NoErr(s.Initialize(ctx))

	d, err := s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(d.Name, "survivor")

	next, err := s.Create(ctx, sensor("next"))
	is.NoErr(err)
	is.True(next > id)
}

func testGateSensorScenario(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, types.Device{
		Name:     "Gate Sensor",
		Type:     "sensor",
		Location: "north-gate",
		Tags:     []string{"outdoor", "battery"},
	})
	is.NoErr(err)
	is.Equal(id, int64(1))

	north, err := s.ListByLocation(ctx, "north-gate")
	is.NoErr(err)
	is.Equal(ids(north), []int64{1})

	before, err := s.Get(ctx, 1)
	is.NoErr(err)

	south := "south-gate"
	_, err = s.Update(ctx, 1, types.DevicePatch{Location: &south})
	is.NoErr(err)

	after, err := s.Get(ctx, 1)
	is.NoErr(err)
	is.Equal(after.Location, "south-gate")
	is.True(after.UpdatedAt.After(before.UpdatedAt))

	north, err = s.ListByLocation(ctx, "north-gate")
	is.NoErr(err)
	is.Equal(len(north), 0)

	southDevices, err := s.ListByLocation(ctx, "south-gate")
	is.NoErr(err)
	is.Equal(ids(southDevices), []int64{1})
}

func testConcurrentCreatesAreUnique(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := []int64{}
	errs := []error{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := s.Create(ctx, sensor(fmt.Sprintf("w%d-%d", w, i), "outdoor"))
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					created = append(created, id)
				}
				mu.Unlock()
			}
		}(w)
	}

	wg.Wait()

	is.Equal(len(errs), 0)
	is.Equal(len(lo.Uniq(created)), workers*perWorker)

	outdoor, err := s.ListByTag(ctx, "outdoor")
	is.NoErr(err)
	is.Equal(len(outdoor), workers*perWorker)
}

func testReturnedDevicesAreNotShared(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	input := sensor("isolated", "outdoor")
	input.ConnectionInfo = types.ConnectionInfo{"host": "a"}

	id, err := s.Create(ctx, input)
	is.NoErr(err)

	input.Tags[0] = "changed"
	input.ConnectionInfo["host"] = "b"

	d, err := s.Get(ctx, id)
	is.NoErr(err)
	d.Tags[0] = "mutated"
	d.ConnectionInfo["host"] = "c"

	again, err := s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(again.Tags, []string{"outdoor"})
	is.True(again.ConnectionInfo.Matches("host", "a"))
}

func testConnectionInfoSurvivesRoundTrip(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	id, err := s.Create(ctx, types.Device{
		Name: "modbus meter", Type: "meter",
		ConnectionInfo: types.ConnectionInfo{
			"modbus": map[string]any{
				"address":   "192.168.1.20",
				"unit":      3,
				"registers": []any{40001, 40002},
				"secure":    false,
			},
		},
	})
	is.NoErr(err)

	d, err := s.Get(ctx, id)
	is.NoErr(err)

	is.True(d.ConnectionInfo.Matches("modbus.address", "192.168.1.20"))
	is.True(d.ConnectionInfo.Matches("modbus.unit", 3))
	is.True(d.ConnectionInfo.Matches("modbus.secure", false))
	is.True(d.ConnectionInfo.Matches("modbus.registers", []any{40001, 40002}))

	cleared, err := s.Update(ctx, id, types.DevicePatch{ConnectionInfo: types.ConnectionInfo{}})
	is.NoErr(err)
	is.Equal(len(cleared.ConnectionInfo), 0)

	d, err = s.Get(ctx, id)
	is.NoErr(err)
	is.Equal(len(d.ConnectionInfo), 0)
}

func testConnectionInfoIsCopiedOnWrite(t *testing.T, newStore NewStoreFunc) {
	is, ctx, s := setup(t, newStore)

	hosts := []string{"h1"}
	labels := map[string]string{"site": "north"}
	ports := []int{1883}

	id, err := s.Create(ctx, types.Device{
		Name: "gateway", Type: "gateway",
		ConnectionInfo: types.ConnectionInfo{"hosts": hosts, "labels": labels},
	})
	is.NoErr(err)

	hosts[0] = "mutated"
	labels["site"] = "mutated"

	d, err := s.Get(ctx, id)
	is.NoErr(err)
	is.True(d.ConnectionInfo.Matches("hosts", []any{"h1"}))
	is.True(d.ConnectionInfo.Matches("labels.site", "north"))

	_, err = s.Update(ctx, id, types.DevicePatch{ConnectionInfo: types.ConnectionInfo{"ports": ports}})
	is.NoErr(err)

	ports[0] = 0

	d, err = s.Get(ctx, id)
	is.NoErr(err)
	is.True(d.ConnectionInfo.Matches("ports", []any{1883}))

	replicated := []string{"r1"}
	err = s.Put(ctx, types.Device{
		ID: 100, Name: "replica", Type: "gateway",
		ConnectionInfo: types.ConnectionInfo{"hosts": replicated},
	})
	is.NoErr(err)

	replicated[0] = "mutated"

	d, err = s.Get(ctx, 100)
	is.NoErr(err)
	is.True(d.ConnectionInfo.Matches("hosts", []any{"r1"}))

	found, err := s.QueryConnectionAttribute(ctx, "labels.site", "north")
	is.NoErr(err)
	is.Equal(len(found), 0)
}
