package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/samber/lo"
)

type idSet map[int64]struct{}

// index maps an attribute value to the ids of the devices carrying it.
type index map[string]idSet

func (i index) add(value string, id int64) {
	if value == "" {
		return
	}
	ids, ok := i[value]
	if !ok {
		ids = idSet{}
		i[value] = ids
	}
	ids[id] = struct{}{}
}

func (i index) remove(value string, id int64) {
	ids, ok := i[value]
	if !ok {
		return
	}
	delete(ids, id)
	if len(ids) == 0 {
		delete(i, value)
	}
}

// Store keeps devices in memory. The records and every index are changed
// together while holding the write lock.
type Store struct {
	mu sync.RWMutex

	devices    map[int64]*types.Device
	byType     index
	byLocation index
	byTag      index

	seq   atomic.Int64
	clock storage.Clock
}

type Option func(*Store)

func WithClock(clock storage.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		clock: storage.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.devices = map[int64]*types.Device{}
	s.byType = index{}
	s.byLocation = index{}
	s.byTag = index{}
}

func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.devices == nil {
		s.reset()
	}

	logger := logging.GetFromContext(ctx)
	logger.Debug().Int("devices", len(s.devices)).Msg("in-memory device catalog ready")

	return nil
}

func (s *Store) Create(ctx context.Context, device types.Device) (int64, error) {
	d, err := storage.Prepare(device, s.clock)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.seq.Add(1)
	s.insertLocked(&d)

	return d.ID, nil
}

func (s *Store) Get(ctx context.Context, id int64) (types.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.devices[id]
	if !ok {
		return types.Device{}, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}

	return d.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id int64, patch types.DevicePatch) (types.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.devices[id]
	if !ok {
		return types.Device{}, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}

	updated, err := storage.ApplyPatch(*current, patch, s.clock)
	if err != nil {
		return types.Device{}, err
	}

	s.removeLocked(current)
	s.insertLocked(&updated)

	return updated.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.devices[id]
	if !ok {
		return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}

	s.removeLocked(current)

	return nil
}

func (s *Store) Put(ctx context.Context, device types.Device) error {
	d, err := storage.PrepareReplica(device, s.clock)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.devices[d.ID]; ok {
		s.removeLocked(current)
	}
	s.insertLocked(&d)

	for {
		seq := s.seq.Load()
		if seq >= d.ID || s.seq.CompareAndSwap(seq, d.ID) {
			break
		}
	}

	return nil
}

func (s *Store) ListByType(ctx context.Context, deviceType string) ([]types.Device, error) {
	return s.Query(ctx, storage.WithType(deviceType))
}

func (s *Store) ListByLocation(ctx context.Context, location string) ([]types.Device, error) {
	return s.Query(ctx, storage.WithLocation(location))
}

func (s *Store) ListByTag(ctx context.Context, tag string) ([]types.Device, error) {
	return s.Query(ctx, storage.WithTag(tag))
}

// QueryConnectionAttribute scans every device since connection info is not
// indexed.
func (s *Store) QueryConnectionAttribute(ctx context.Context, path string, value any) ([]types.Device, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", storage.ErrValidation)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []types.Device{}
	for _, d := range s.devices {
		if d.ConnectionInfo.Matches(path, value) {
			result = append(result, d.Clone())
		}
	}

	sortByID(result)

	return result, nil
}

func (s *Store) Query(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.Device, error) {
	condition := storage.NewCondition(conditions...)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []types.Device{}

	for _, id := range s.candidatesLocked(condition) {
		d := s.devices[id]
		if condition.Match(*d) {
			result = append(result, d.Clone())
		}
	}

	sortByID(result)

	return condition.Page(result), nil
}

func (s *Store) Close() error {
	return nil
}

// candidatesLocked picks the smallest id set among the indexed filters of c.
// Without an indexed filter every device is a candidate.
func (s *Store) candidatesLocked(c *storage.Condition) []int64 {
	var sets []idSet

	if c.Type != nil {
		sets = append(sets, s.byType[*c.Type])
	}
	if c.Location != nil {
		sets = append(sets, s.byLocation[*c.Location])
	}
	if c.Tag != nil {
		sets = append(sets, s.byTag[*c.Tag])
	}

	if len(sets) == 0 {
		return lo.Keys(s.devices)
	}

	smallest := lo.MinBy(sets, func(a, b idSet) bool {
		return len(a) < len(b)
	})

	return lo.Keys(smallest)
}

func (s *Store) insertLocked(d *types.Device) {
	stored := d.Clone()

	s.devices[stored.ID] = &stored
	s.byType.add(stored.Type, stored.ID)
	s.byLocation.add(stored.Location, stored.ID)
	for _, tag := range stored.Tags {
		s.byTag.add(tag, stored.ID)
	}
}

func (s *Store) removeLocked(d *types.Device) {
	s.byType.remove(d.Type, d.ID)
	s.byLocation.remove(d.Location, d.ID)
	for _, tag := range d.Tags {
		s.byTag.remove(tag, d.ID)
	}
	delete(s.devices, d.ID)
}

func sortByID(devices []types.Device) {
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].ID < devices[j].ID
	})
}
