package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/diwise/iot-device-catalog/pkg/types"
	test "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/matryer/is"
)

const gateSensorResponse string = `{"data":{"id":1,"name":"Gate Sensor","type":"sensor","location":"north-gate","tags":["outdoor"],"created_at":"2024-03-01T12:00:00Z","updated_at":"2024-03-01T12:00:00Z"}}`

func TestCreateSendsDeviceAsJSON(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices"),
			expects.RequestMethod(http.MethodPost),
			expects.RequestHeaderContains("Content-Type", "application/json"),
			expects.RequestBodyContaining(`"name":"Gate Sensor"`,
				`"type":"sensor"`,
				`"location":"north-gate"`,
				`"tags":["outdoor"]`),
		),
		test.Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusCreated),
			response.Body([]byte(gateSensorResponse)),
		),
	)
	defer mockedService.Close()

	c := New(mockedService.URL())

	created, err := c.Create(context.Background(), types.Device{
		Name: "Gate Sensor", Type: "sensor", Location: "north-gate", Tags: []string{"outdoor"},
	})
	is.NoErr(err)
	is.Equal(created.ID, int64(1))
	is.Equal(created.Tags, []string{"outdoor"})
}

func TestUpdateSendsPatch(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices/1"),
			expects.RequestMethod(http.MethodPatch),
			expects.RequestHeaderContains("Content-Type", "application/json"),
			expects.RequestBodyContaining(`"location":"south-gate"`),
		),
		test.Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(gateSensorResponse)),
		),
	)
	defer mockedService.Close()

	location := "south-gate"

	_, err := New(mockedService.URL()).Update(context.Background(), 1, types.DevicePatch{Location: &location})
	is.NoErr(err)
}

func TestGetRequestsDeviceByID(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices/1"),
			expects.RequestMethod(http.MethodGet),
		),
		test.Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(gateSensorResponse)),
		),
	)
	defer mockedService.Close()

	d, err := New(mockedService.URL()).Get(context.Background(), 1)
	is.NoErr(err)
	is.Equal(d.Name, "Gate Sensor")
	is.Equal(d.Location, "north-gate")
}

func TestDeleteRequestsDeviceByID(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices/7"),
			expects.RequestMethod(http.MethodDelete),
		),
		test.Returns(
			response.Code(http.StatusNoContent),
		),
	)
	defer mockedService.Close()

	is.NoErr(New(mockedService.URL()).Delete(context.Background(), 7))
}

func TestListAndSearchUseCollectionRoutes(t *testing.T) {
	is := is.New(t)

	listService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices"),
			expects.RequestMethod(http.MethodGet),
		),
		test.Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`{"meta":{"count":0},"data":[]}`)),
		),
	)
	defer listService.Close()

	devices, err := New(listService.URL()).List(context.Background(), WithType("sensor"))
	is.NoErr(err)
	is.Equal(len(devices), 0)

	searchService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices/search"),
			expects.RequestMethod(http.MethodGet),
		),
		test.Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`{"data":[]}`)),
		),
	)
	defer searchService.Close()

	devices, err = New(searchService.URL()).Search(context.Background(), "mqtt.port", 1883)
	is.NoErr(err)
	is.Equal(len(devices), 0)
}

func TestReadOnlyCatalogIsReported(t *testing.T) {
	is := is.New(t)

	mockedService := test.NewMockServiceThat(
		test.Expects(is,
			expects.RequestPath("/api/v0/devices/1"),
			expects.RequestMethod(http.MethodDelete),
		),
		test.Returns(
			response.Code(http.StatusMethodNotAllowed),
		),
	)
	defer mockedService.Close()

	err := New(mockedService.URL()).Delete(context.Background(), 1)
	is.True(errors.Is(err, ErrReadOnly))
}
