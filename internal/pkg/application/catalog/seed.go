package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/samber/lo"
)

var seedHeader = []string{"name", "type", "description", "location", "tags", "connection_info"}

// SeedDevices loads devices from a ; separated file into an empty store.
// A store that already holds devices is left untouched.
func SeedDevices(ctx context.Context, store storage.DeviceStore, devices io.Reader) error {
	logger := logging.GetFromContext(ctx)

	existing, err := store.Query(ctx, storage.WithLimit(1))
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info().Msg("device catalog is not empty, skipping seed")
		return nil
	}

	r := csv.NewReader(devices)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return err
	}

	records, err := getRecordsFromRows(rows)
	if err != nil {
		return err
	}

	logger.Info().Int("rows", len(rows)).Int("records", len(records)).Msg("loaded devices from file")

	var errs []error

	for _, device := range records {
		_, err := store.Create(ctx, device)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", device.Name, err))
		}
	}

	return errors.Join(errs...)
}

// getRecordsFromRows parses and validates every row so that a bad file
// leaves the store untouched.
func getRecordsFromRows(rows [][]string) ([]types.Device, error) {
	devices := []types.Device{}
	errs := []error{}

	for idx, row := range rows {
		if idx == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), seedHeader[0]) {
			continue
		}

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		d, err := newDeviceFromRow(row)
		if err == nil {
			err = storage.Validate(d)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", idx+1, err))
			continue
		}

		devices = append(devices, d)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return devices, nil
}

func newDeviceFromRow(row []string) (types.Device, error) {
	if len(row) < 2 {
		return types.Device{}, fmt.Errorf("%w: expected at least name and type", storage.ErrValidation)
	}

	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	d := types.Device{
		Name:        field(0),
		Type:        field(1),
		Description: field(2),
		Location:    field(3),
	}

	if tags := field(4); tags != "" {
		d.Tags = lo.Compact(lo.Map(strings.Split(tags, storage.TagSeparator), func(t string, _ int) string {
			return strings.TrimSpace(t)
		}))
	}

	if info := field(5); info != "" {
		ci := types.ConnectionInfo{}
		if err := json.Unmarshal([]byte(info), &ci); err != nil {
			return types.Device{}, fmt.Errorf("%w: invalid connection info: %s", storage.ErrValidation, err.Error())
		}
		d.ConnectionInfo = ci
	}

	return d, nil
}

// WriteDevices writes devices in the format read by SeedDevices.
func WriteDevices(w io.Writer, devices []types.Device) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(seedHeader); err != nil {
		return err
	}

	for _, d := range devices {
		info := ""
		if len(d.ConnectionInfo) > 0 {
			b, err := json.Marshal(d.ConnectionInfo)
			if err != nil {
				return err
			}
			info = string(b)
		}

		err := cw.Write([]string{d.Name, d.Type, d.Description, d.Location, strings.Join(d.Tags, storage.TagSeparator), info})
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
