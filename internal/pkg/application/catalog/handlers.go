package catalog

import (
	"context"
	"encoding/json"

	"github.com/diwise/iot-device-catalog/pkg/types"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// NewDeviceChangedHandler applies devices.created and devices.updated
// messages from the primary catalog.
func NewDeviceChangedHandler(svc DeviceCatalog) messaging.TopicMessageHandler {
	return func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
		device := types.Device{}

		err := json.Unmarshal(msg.Body, &device)
		if err != nil {
			logger.Error().Err(err).Msgf("failed to unmarshal message from %s", msg.RoutingKey)
			return
		}

		logger = logger.With().Int64("device_id", device.ID).Logger()
		ctx = logging.NewContextWithLogger(ctx, logger)

		err = svc.Replicate(ctx, device)
		if err != nil {
			logger.Error().Err(err).Msg("could not replicate device")
			return
		}

		logger.Debug().Msgf("%s handled", msg.RoutingKey)
	}
}

func NewDeviceDeletedHandler(svc DeviceCatalog) messaging.TopicMessageHandler {
	return func(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
		deleted := types.DeviceDeleted{}

		err := json.Unmarshal(msg.Body, &deleted)
		if err != nil {
			logger.Error().Err(err).Msgf("failed to unmarshal message from %s", msg.RoutingKey)
			return
		}

		logger = logger.With().Int64("device_id", deleted.ID).Logger()
		ctx = logging.NewContextWithLogger(ctx, logger)

		err = svc.Forget(ctx, deleted.ID)
		if err != nil {
			logger.Error().Err(err).Msg("could not remove replicated device")
			return
		}

		logger.Debug().Msgf("%s handled", msg.RoutingKey)
	}
}
