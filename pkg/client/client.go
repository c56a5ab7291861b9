package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var (
	ErrNotFound    = errors.New("device not found")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("conflict")
	ErrReadOnly    = errors.New("device catalog is read only")
	ErrUnavailable = errors.New("device catalog unavailable")
)

type DeviceCatalogClient interface {
	Create(ctx context.Context, device types.Device) (types.Device, error)
	Get(ctx context.Context, id int64) (types.Device, error)
	Update(ctx context.Context, id int64, patch types.DevicePatch) (types.Device, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params ...QueryParam) ([]types.Device, error)
	Search(ctx context.Context, path string, value any) ([]types.Device, error)
}

type QueryParam func(url.Values)

func WithType(deviceType string) QueryParam {
	return func(v url.Values) { v.Set("type", deviceType) }
}

func WithLocation(location string) QueryParam {
	return func(v url.Values) { v.Set("location", location) }
}

func WithTag(tag string) QueryParam {
	return func(v url.Values) { v.Set("tag", tag) }
}

func WithPage(offset, limit int) QueryParam {
	return func(v url.Values) {
		v.Set("offset", strconv.Itoa(offset))
		v.Set("limit", strconv.Itoa(limit))
	}
}

type deviceCatalogClient struct {
	url        string
	httpClient http.Client
}

var tracer = otel.Tracer("device-catalog-client")

func New(catalogUrl string) DeviceCatalogClient {
	return &deviceCatalogClient{
		url: strings.TrimSuffix(catalogUrl, "/"),
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *deviceCatalogClient) Create(ctx context.Context, device types.Device) (created types.Device, err error) {
	ctx, span := tracer.Start(ctx, "create-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	b, err := json.Marshal(device)
	if err != nil {
		return types.Device{}, err
	}

	err = c.do(ctx, http.MethodPost, "/api/v0/devices", bytes.NewReader(b), http.StatusCreated, &created)

	return created, err
}

func (c *deviceCatalogClient) Get(ctx context.Context, id int64) (device types.Device, err error) {
	ctx, span := tracer.Start(ctx, "get-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	err = c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v0/devices/%d", id), nil, http.StatusOK, &device)

	return device, err
}

func (c *deviceCatalogClient) Update(ctx context.Context, id int64, patch types.DevicePatch) (updated types.Device, err error) {
	ctx, span := tracer.Start(ctx, "update-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	b, err := json.Marshal(patch)
	if err != nil {
		return types.Device{}, err
	}

	err = c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v0/devices/%d", id), bytes.NewReader(b), http.StatusOK, &updated)

	return updated, err
}

func (c *deviceCatalogClient) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "delete-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v0/devices/%d", id), nil, http.StatusNoContent, nil)
}

func (c *deviceCatalogClient) List(ctx context.Context, params ...QueryParam) (devices []types.Device, err error) {
	ctx, span := tracer.Start(ctx, "list-devices")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	q := url.Values{}
	for _, p := range params {
		p(q)
	}

	path := "/api/v0/devices"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	devices = []types.Device{}
	err = c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &devices)

	return devices, err
}

func (c *deviceCatalogClient) Search(ctx context.Context, path string, value any) (devices []types.Device, err error) {
	ctx, span := tracer.Start(ctx, "search-devices")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("path", path)
	q.Set("value", string(b))

	devices = []types.Device{}
	err = c.do(ctx, http.MethodGet, "/api/v0/devices/search?"+q.Encode(), nil, http.StatusOK, &devices)

	return devices, err
}

func (c *deviceCatalogClient) do(ctx context.Context, method, path string, body io.Reader, expected int, data any) error {
	log := logging.GetFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expected {
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request failed")
		return statusError(resp.StatusCode, respBody)
	}

	if data == nil {
		return nil
	}

	response := struct {
		Data any `json:"data"`
	}{Data: data}

	err = json.Unmarshal(respBody, &response)
	if err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

func statusError(status int, body []byte) error {
	var sentinel error

	switch status {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusMethodNotAllowed:
		sentinel = ErrReadOnly
	case http.StatusServiceUnavailable:
		sentinel = ErrUnavailable
	default:
		return fmt.Errorf("request failed with status code %d", status)
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}

	return sentinel
}
