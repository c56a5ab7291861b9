package storage

import (
	"testing"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/matryer/is"
)

func TestConditionMatch(t *testing.T) {
	is := is.New(t)

	d := types.Device{Name: "n", Type: "sensor", Location: "roof", Tags: []string{"battery", "outdoor"}}

	is.True(NewCondition().Match(d))
	is.True(NewCondition(WithType("sensor"), WithLocation("roof"), WithTag("outdoor")).Match(d))
	is.True(!NewCondition(WithType("gateway")).Match(d))
	is.True(!NewCondition(WithLocation("cellar")).Match(d))
	is.True(!NewCondition(WithTag("indoor")).Match(d))
}

func TestConditionPage(t *testing.T) {
	is := is.New(t)

	devices := []types.Device{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}

	is.Equal(len(NewCondition().Page(devices)), 4)

	page := NewCondition(WithOffset(1), WithLimit(2)).Page(devices)
	is.Equal(len(page), 2)
	is.Equal(page[0].ID, int64(2))

	is.Equal(len(NewCondition(WithOffset(10)).Page(devices)), 0)
}

func TestConditionIgnoresInvalidPaging(t *testing.T) {
	is := is.New(t)

	c := NewCondition(WithOffset(-1), WithLimit(0))
	is.Equal(c.Offset(), 0)
	is.Equal(c.Limit(), 0)
}
