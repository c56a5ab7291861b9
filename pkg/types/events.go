package types

import "time"

const (
	TopicDeviceCreated string = "devices.created"
	TopicDeviceUpdated string = "devices.updated"
	TopicDeviceDeleted string = "devices.deleted"
)

type DeviceCreated struct {
	Device
}

func (d *DeviceCreated) ContentType() string {
	return "application/json"
}
func (d *DeviceCreated) TopicName() string {
	return TopicDeviceCreated
}

type DeviceUpdated struct {
	Device
}

func (d *DeviceUpdated) ContentType() string {
	return "application/json"
}
func (d *DeviceUpdated) TopicName() string {
	return TopicDeviceUpdated
}

type DeviceDeleted struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (d *DeviceDeleted) ContentType() string {
	return "application/json"
}
func (d *DeviceDeleted) TopicName() string {
	return TopicDeviceDeleted
}
