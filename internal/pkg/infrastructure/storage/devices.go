package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/samber/lo"
)

const (
	MaxNameLength     = 255
	MaxTypeLength     = 100
	MaxLocationLength = 255
)

// TagSeparator separates tags in the seed file format and can not be part of a tag.
const TagSeparator = ","

// Validate checks the attributes the catalog requires of every device.
func Validate(device types.Device) error {
	if device.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if device.Type == "" {
		return fmt.Errorf("%w: type is required", ErrValidation)
	}
	if utf8.RuneCountInString(device.Name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxNameLength)
	}
	if utf8.RuneCountInString(device.Type) > MaxTypeLength {
		return fmt.Errorf("%w: type exceeds %d characters", ErrValidation, MaxTypeLength)
	}
	if utf8.RuneCountInString(device.Location) > MaxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrValidation, MaxLocationLength)
	}
	for _, tag := range device.Tags {
		if tag == "" {
			return fmt.Errorf("%w: tags must not be empty", ErrValidation)
		}
		if strings.Contains(tag, TagSeparator) {
			return fmt.Errorf("%w: tag %q must not contain %q", ErrValidation, tag, TagSeparator)
		}
	}
	return nil
}

// normalizeConnectionInfo returns the document as it reads back from JSON,
// sharing nothing with the caller's values. An empty document is nil.
func normalizeConnectionInfo(ci types.ConnectionInfo) (types.ConnectionInfo, error) {
	if len(ci) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(ci)
	if err != nil {
		return nil, fmt.Errorf("%w: connection info is not a json document: %s", ErrValidation, err.Error())
	}

	normalized := types.ConnectionInfo{}
	if err := json.Unmarshal(b, &normalized); err != nil {
		return nil, fmt.Errorf("%w: connection info is not a json document: %s", ErrValidation, err.Error())
	}

	return normalized, nil
}

// NormalizeTags returns the tags as a sorted set.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}

	set := lo.Uniq(tags)
	sort.Strings(set)

	return set
}

// Prepare validates a device about to be created and returns the copy to
// store, stamped with the creation time.
func Prepare(device types.Device, clock Clock) (types.Device, error) {
	if err := Validate(device); err != nil {
		return types.Device{}, err
	}

	ci, err := normalizeConnectionInfo(device.ConnectionInfo)
	if err != nil {
		return types.Device{}, err
	}

	d := device.Clone()
	d.ID = 0
	d.Tags = NormalizeTags(d.Tags)
	d.ConnectionInfo = ci

	now := Now(clock)
	d.CreatedAt = now
	d.UpdatedAt = now

	return d, nil
}

// PrepareReplica validates a device received from another catalog. Its id
// and timestamps are kept.
func PrepareReplica(device types.Device, clock Clock) (types.Device, error) {
	if device.ID <= 0 {
		return types.Device{}, fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := Validate(device); err != nil {
		return types.Device{}, err
	}

	ci, err := normalizeConnectionInfo(device.ConnectionInfo)
	if err != nil {
		return types.Device{}, err
	}

	d := device.Clone()
	d.Tags = NormalizeTags(d.Tags)
	d.ConnectionInfo = ci

	if d.CreatedAt.IsZero() {
		d.CreatedAt = Now(clock)
	}
	d.CreatedAt = d.CreatedAt.UTC().Truncate(time.Microsecond)
	if d.UpdatedAt.Before(d.CreatedAt) {
		d.UpdatedAt = d.CreatedAt
	}
	d.UpdatedAt = d.UpdatedAt.UTC().Truncate(time.Microsecond)

	return d, nil
}

// ApplyPatch returns current with patch applied and UpdatedAt advanced. The
// id and creation time are never changed.
func ApplyPatch(current types.Device, patch types.DevicePatch, clock Clock) (types.Device, error) {
	d := current.Clone()

	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Type != nil {
		d.Type = *patch.Type
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Location != nil {
		d.Location = *patch.Location
	}
	if patch.ConnectionInfo != nil {
		ci, err := normalizeConnectionInfo(patch.ConnectionInfo)
		if err != nil {
			return types.Device{}, err
		}
		d.ConnectionInfo = ci
	}
	if patch.Tags != nil {
		d.Tags = append([]string{}, patch.Tags...)
	}

	if err := Validate(d); err != nil {
		return types.Device{}, err
	}

	d.Tags = NormalizeTags(d.Tags)
	d.ID = current.ID
	d.CreatedAt = current.CreatedAt
	d.UpdatedAt = Touch(clock, current.UpdatedAt)

	return d, nil
}
