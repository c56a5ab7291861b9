package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	typeIndex           = "idx_devices_type"
	locationIndex       = "idx_devices_location"
	tagIndex            = "idx_device_tags_tag"
	connectionInfoIndex = "idx_devices_connection_info"

	devicesSequence = "devices"
)

type Device struct {
	ID             int64          `gorm:"primaryKey;autoIncrement:false"`
	Name           string         `gorm:"size:255;not null"`
	Type           string         `gorm:"size:100;not null;index:idx_devices_type"`
	Description    *string        `gorm:"type:text"`
	Location       *string        `gorm:"size:255;index:idx_devices_location"`
	ConnectionInfo connectionInfo
	Tags           []DeviceTag `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time   `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      time.Time   `gorm:"not null;autoUpdateTime:false"`
}

// DeviceTag is one entry of the inverted tag index, the pair (tag, device).
type DeviceTag struct {
	DeviceID int64  `gorm:"primaryKey;autoIncrement:false"`
	Tag      string `gorm:"primaryKey;size:255;index:idx_device_tags_tag"`
}

// Sequence hands out device ids. Values only ever grow so an id is never
// issued twice, even after the device holding it is deleted.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:100"`
	Value int64  `gorm:"not null"`
}

func newDevice(d types.Device) Device {
	return Device{
		ID:             d.ID,
		Name:           d.Name,
		Type:           d.Type,
		Description:    optional(d.Description),
		Location:       optional(d.Location),
		ConnectionInfo: connectionInfo(d.ConnectionInfo.Clone()),
		Tags: lo.Map(d.Tags, func(tag string, _ int) DeviceTag {
			return DeviceTag{DeviceID: d.ID, Tag: tag}
		}),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d Device) toTypes() types.Device {
	return types.Device{
		ID:             d.ID,
		Name:           d.Name,
		Type:           d.Type,
		Description:    lo.FromPtr(d.Description),
		Location:       lo.FromPtr(d.Location),
		ConnectionInfo: types.ConnectionInfo(d.ConnectionInfo),
		Tags: lo.Map(d.Tags, func(t DeviceTag, _ int) string {
			return t.Tag
		}),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// connectionInfo stores the connection document as JSON, or JSONB on
// PostgreSQL so that it can be indexed with GIN.
type connectionInfo map[string]any

func (c connectionInfo) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}

	b, err := json.Marshal(map[string]any(c))
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (c *connectionInfo) Scan(value any) error {
	var b []byte

	switch v := value.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for connection info", value)
	}

	if len(b) == 0 || string(b) == "null" {
		*c = nil
		return nil
	}

	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	*c = m

	return nil
}

func (connectionInfo) GormDataType() string {
	return "json"
}

func (connectionInfo) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}
