package storage

import (
	"github.com/diwise/iot-device-catalog/pkg/types"
)

type ConditionFunc func(*Condition) *Condition

// Condition holds the filters of a query. All filters must hold for a device
// to be part of the result.
type Condition struct {
	Type     *string
	Location *string
	Tag      *string

	offset *int
	limit  *int
}

func NewCondition(conditions ...ConditionFunc) *Condition {
	c := &Condition{}
	for _, f := range conditions {
		f(c)
	}
	return c
}

func (c Condition) Offset() int {
	if c.offset == nil {
		return 0
	}
	return *c.offset
}

// Limit returns the maximum number of devices to return, 0 means no limit.
func (c Condition) Limit() int {
	if c.limit == nil {
		return 0
	}
	return *c.limit
}

// Match reports whether device satisfies every filter in c.
func (c Condition) Match(device types.Device) bool {
	if c.Type != nil && device.Type != *c.Type {
		return false
	}
	if c.Location != nil && device.Location != *c.Location {
		return false
	}
	if c.Tag != nil && !device.HasTag(*c.Tag) {
		return false
	}
	return true
}

// Page applies offset and limit to an already ordered result.
func (c Condition) Page(devices []types.Device) []types.Device {
	offset := c.Offset()
	if offset >= len(devices) {
		return []types.Device{}
	}

	devices = devices[offset:]

	if limit := c.Limit(); limit > 0 && limit < len(devices) {
		devices = devices[:limit]
	}

	return devices
}

func WithType(deviceType string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Type = &deviceType
		return c
	}
}

func WithLocation(location string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Location = &location
		return c
	}
}

func WithTag(tag string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Tag = &tag
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		if offset >= 0 {
			c.offset = &offset
		}
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		if limit > 0 {
			c.limit = &limit
		}
		return c
	}
}
