package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/diwise/iot-device-catalog/internal/pkg/application/catalog"
	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("iot-device-catalog/api")

const devicesPath string = "/api/v0/devices"

type Option func(r chi.Router)

// WithEventStream serves device changes as server-sent events on /api/v0/events.
func WithEventStream(stream http.Handler) Option {
	return func(r chi.Router) {
		r.Get("/events", stream.ServeHTTP)
	}
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, svc catalog.DeviceCatalog, opts ...Option) *chi.Mux {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	log := logging.GetFromContext(ctx)

	router.Route("/api/v0", func(r chi.Router) {
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", queryDevicesHandler(log, svc))
			r.Get("/search", searchDevicesHandler(log, svc))
			r.Get("/{deviceID}", getDeviceHandler(log, svc))

			r.Post("/", createDeviceHandler(log, svc))
			r.Patch("/{deviceID}", patchDeviceHandler(log, svc))
			r.Delete("/{deviceID}", deleteDeviceHandler(log, svc))
		})

		for _, opt := range opts {
			opt(r)
		}
	})

	return router
}

func createDeviceHandler(log zerolog.Logger, svc catalog.DeviceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "create-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to read body")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var d types.Device
		err = json.Unmarshal(body, &d)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to unmarshal body")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		created, err := svc.Create(ctx, d)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to create device")
			writeError(w, err)
			return
		}

		w.Header().Add("Location", fmt.Sprintf("%s/%d", devicesPath, created.ID))
		writeJSON(w, http.StatusCreated, ApiResponse{Data: created})
	}
}

func queryDevicesHandler(log zerolog.Logger, svc catalog.DeviceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-devices")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		q := r.URL.Query()
		conditions := []storage.ConditionFunc{}

		if deviceType := q.Get("type"); deviceType != "" {
			conditions = append(conditions, storage.WithType(deviceType))
		}
		if location := q.Get("location"); location != "" {
			conditions = append(conditions, storage.WithLocation(location))
		}
		if tag := q.Get("tag"); tag != "" {
			conditions = append(conditions, storage.WithTag(tag))
		}

		offset, err := intParam(q.Get("offset"))
		if err != nil {
			requestLogger.Debug().Err(err).Msg("invalid offset")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		limit, err := intParam(q.Get("limit"))
		if err != nil {
			requestLogger.Debug().Err(err).Msg("invalid limit")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		conditions = append(conditions, storage.WithOffset(offset), storage.WithLimit(limit))

		devices, err := svc.Query(ctx, conditions...)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to query devices")
			writeError(w, err)
			return
		}

		if wantsCsv(r) {
			w.Header().Add("Content-Type", "text/csv")
			w.WriteHeader(http.StatusOK)
			err = catalog.WriteDevices(w, devices)
			if err != nil {
				requestLogger.Error().Err(err).Msg("failed to write csv")
			}
			return
		}

		writeJSON(w, http.StatusOK, newCollectionResponse(r, devices, offset, limit))
	}
}

func searchDevicesHandler(log zerolog.Logger, svc catalog.DeviceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "search-devices")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		path := r.URL.Query().Get("path")
		if path == "" {
			requestLogger.Debug().Msg("search without path")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		value := parseValue(r.URL.Query().Get("value"))

		devices, err := svc.QueryConnectionAttribute(ctx, path, value)
		if err != nil {
			requestLogger.Error().Err(err).Str("path", path).Msg("unable to search devices")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newCollectionResponse(r, devices, 0, 0))
	}
}

func getDeviceHandler(log zerolog.Logger, svc catalog.DeviceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "get-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		id, err := deviceID(r)
		if err != nil {
			requestLogger.Debug().Err(err).Msg("invalid device id")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		requestLogger = requestLogger.With().Int64("device_id", id).Logger()

		device, err := svc.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			requestLogger.Debug().Msg("device not found")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			requestLogger.Error().Err(err).Msg("could not fetch device")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Data: device})
	}
}

func patchDeviceHandler(log zerolog.Logger, svc catalog.DeviceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "patch-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		id, err := deviceID(r)
		if err != nil {
			requestLogger.Debug().Err(err).Msg("invalid device id")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		requestLogger = requestLogger.With().Int64("device_id", id).Logger()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to read body")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var patch types.DevicePatch
		err = json.Unmarshal(body, &patch)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to unmarshal body")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if patch.IsEmpty() {
			requestLogger.Debug().Msg("patch contains no fields")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(ctx, id, patch)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to update device")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Data: updated})
	}
}

func deleteDeviceHandler(log zerolog.Logger, svc catalog.DeviceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "delete-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, requestLogger := o11y.AddTraceIDToLoggerAndStoreInContext(span, log, ctx)

		id, err := deviceID(r)
		if err != nil {
			requestLogger.Debug().Err(err).Msg("invalid device id")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = svc.Delete(ctx, id)
		if err != nil {
			requestLogger.Error().Err(err).Int64("device_id", id).Msg("unable to delete device")
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func deviceID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "deviceID"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("device id must be positive")
	}
	return id, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("negative value %d", i)
	}
	return i, nil
}

// parseValue reads a search value as JSON so that numbers and booleans match
// their stored counterparts. Anything else is taken as a plain string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func wantsCsv(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, storage.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, catalog.ErrReadOnly):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	if status == http.StatusBadRequest || status == http.StatusConflict {
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, response ApiResponse) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response.Byte())
}
