package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const scanBatchSize = 500

type deviceRepository struct {
	db    *gorm.DB
	log   zerolog.Logger
	clock storage.Clock
}

type Option func(*deviceRepository)

func WithClock(clock storage.Clock) Option {
	return func(r *deviceRepository) {
		r.clock = clock
	}
}

// NewDeviceRepository connects to the database. The schema is not touched
// until Initialize is called.
func NewDeviceRepository(connect ConnectorFunc, opts ...Option) (storage.DeviceStore, error) {
	impl, log, err := connect()
	if err != nil {
		return nil, err
	}

	r := &deviceRepository{
		db:    impl,
		log:   log,
		clock: storage.SystemClock,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

func (r *deviceRepository) postgres() bool {
	return r.db.Dialector.Name() == "postgres"
}

func (r *deviceRepository) Initialize(ctx context.Context) error {
	db := r.db.WithContext(ctx)

	err := db.AutoMigrate(&Device{}, &DeviceTag{}, &Sequence{})
	if err != nil {
		return classify(err)
	}

	err = initSequence(db)
	if err != nil {
		return classify(err)
	}

	if r.postgres() {
		err = db.Exec(fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON devices USING GIN (connection_info jsonb_path_ops)",
			connectionInfoIndex,
		)).Error
		if err != nil {
			return classify(err)
		}
	}

	r.log.Debug().Str("dialect", r.db.Dialector.Name()).Msg("device catalog schema initialized")

	return nil
}

func (r *deviceRepository) Create(ctx context.Context, device types.Device) (int64, error) {
	d, err := storage.Prepare(device, r.clock)
	if err != nil {
		return 0, err
	}

	row := newDevice(d)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx)
		if err != nil {
			return err
		}

		row.ID = id
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}

		return replaceTags(tx, id, d.Tags)
	})
	if err != nil {
		return 0, classify(err)
	}

	return row.ID, nil
}

func (r *deviceRepository) Get(ctx context.Context, id int64) (types.Device, error) {
	row, err := getDevice(r.db.WithContext(ctx), id)
	if err != nil {
		return types.Device{}, err
	}

	return row.toTypes(), nil
}

func (r *deviceRepository) Update(ctx context.Context, id int64, patch types.DevicePatch) (types.Device, error) {
	var updated types.Device

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if r.postgres() {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		current, err := getDevice(query, id)
		if err != nil {
			return err
		}

		updated, err = storage.ApplyPatch(current.toTypes(), patch, r.clock)
		if err != nil {
			return err
		}

		row := newDevice(updated)

		err = tx.Omit(clause.Associations).Save(&row).Error
		if err != nil {
			return err
		}

		if patch.Tags != nil {
			return replaceTags(tx, id, updated.Tags)
		}

		return nil
	})
	if err != nil {
		return types.Device{}, classify(err)
	}

	return updated, nil
}

func (r *deviceRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", id).Delete(&DeviceTag{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Device{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
		}

		return nil
	})

	return classify(err)
}

func (r *deviceRepository) Put(ctx context.Context, device types.Device) error {
	d, err := storage.PrepareReplica(device, r.clock)
	if err != nil {
		return err
	}

	row := newDevice(d)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row).Error
		if err != nil {
			return err
		}

		if err := replaceTags(tx, d.ID, d.Tags); err != nil {
			return err
		}

		// keep the sequence ahead of ids assigned elsewhere
		return tx.Model(&Sequence{}).
			Where("name = ? AND value < ?", devicesSequence, d.ID).
			Update("value", d.ID).Error
	})

	return classify(err)
}

func (r *deviceRepository) ListByType(ctx context.Context, deviceType string) ([]types.Device, error) {
	return r.Query(ctx, storage.WithType(deviceType))
}

func (r *deviceRepository) ListByLocation(ctx context.Context, location string) ([]types.Device, error) {
	return r.Query(ctx, storage.WithLocation(location))
}

func (r *deviceRepository) ListByTag(ctx context.Context, tag string) ([]types.Device, error) {
	return r.Query(ctx, storage.WithTag(tag))
}

func (r *deviceRepository) Query(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.Device, error) {
	condition := storage.NewCondition(conditions...)

	query := withTags(r.db.WithContext(ctx).Model(&Device{}))

	if condition.Type != nil {
		query = query.Where("devices.type = ?", *condition.Type)
	}
	if condition.Location != nil {
		query = query.Where("devices.location = ?", *condition.Location)
	}
	if condition.Tag != nil {
		query = query.Where("devices.id IN (?)", r.devicesWithTag(ctx, *condition.Tag))
	}
	if offset := condition.Offset(); offset > 0 {
		query = query.Offset(offset)
	}
	if limit := condition.Limit(); limit > 0 {
		query = query.Limit(limit)
	}

	var rows []Device

	err := query.Order("devices.id").Find(&rows).Error
	if err != nil {
		return nil, classify(err)
	}

	return toTypes(rows), nil
}

func (r *deviceRepository) devicesWithTag(ctx context.Context, tag string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&DeviceTag{}).Select("device_id").Where("tag = ?", tag)
}

// QueryConnectionAttribute uses the GIN index on PostgreSQL to narrow the
// candidates with a containment query. On SQLite every row is scanned.
func (r *deviceRepository) QueryConnectionAttribute(ctx context.Context, path string, value any) ([]types.Device, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", storage.ErrValidation)
	}

	logger := logging.GetFromContext(ctx)

	query := withTags(r.db.WithContext(ctx).Model(&Device{})).Where("devices.connection_info IS NOT NULL")

	if r.postgres() {
		doc, err := json.Marshal(types.Nest(path, value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", storage.ErrValidation, err.Error())
		}
		query = query.Where("devices.connection_info @> ?", string(doc))
	}

	result := []types.Device{}
	scanned := 0

	var rows []Device

	err := query.FindInBatches(&rows, scanBatchSize, func(tx *gorm.DB, batch int) error {
		scanned += len(rows)
		for _, row := range rows {
			if types.ConnectionInfo(row.ConnectionInfo).Matches(path, value) {
				result = append(result, row.toTypes())
			}
		}
		return nil
	}).Error
	if err != nil {
		return nil, classify(err)
	}

	logger.Debug().Str("path", path).Int("scanned", scanned).Int("matched", len(result)).Msg("connection attribute query")

	return result, nil
}

func (r *deviceRepository) Close() error {
	sqldb, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqldb.Close()
}

func withTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("device_tags.tag")
	})
}

func getDevice(db *gorm.DB, id int64) (Device, error) {
	var row Device

	err := withTags(db).First(&row, id).Error
	if err != nil {
		return Device{}, classify(err)
	}

	return row, nil
}

// nextID draws the next device id from the sequence table. The row stays
// locked until tx ends so concurrent creates are serialized on it.
func nextID(tx *gorm.DB) (int64, error) {
	result := tx.Model(&Sequence{}).
		Where("name = ?", devicesSequence).
		Update("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("sequence %s is missing, store not initialized", devicesSequence)
	}

	var seq Sequence
	err := tx.Where("name = ?", devicesSequence).First(&seq).Error

	return seq.Value, err
}

func initSequence(db *gorm.DB) error {
	var maxID int64
	err := db.Model(&Device{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error
	if err != nil {
		return err
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Sequence{Name: devicesSequence, Value: maxID}).Error
}

func replaceTags(tx *gorm.DB, deviceID int64, tags []string) error {
	err := tx.Where("device_id = ?", deviceID).Delete(&DeviceTag{}).Error
	if err != nil {
		return err
	}

	if len(tags) == 0 {
		return nil
	}

	rows := make([]DeviceTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, DeviceTag{DeviceID: deviceID, Tag: tag})
	}

	return tx.Create(&rows).Error
}

func toTypes(rows []Device) []types.Device {
	devices := make([]types.Device, 0, len(rows))
	for _, row := range rows {
		devices = append(devices, row.toTypes())
	}
	return devices
}
