package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CarMaintenanceService is the slice of the car application service the
// maintenance consumer drives.
type CarMaintenanceService interface {
	// StartRepair places the under-repair override on a car.
	StartRepair(ctx context.Context, carID uint) error

	// CompleteRepair clears the override and reconciles the car's status
	// from its bookings.
	CompleteRepair(ctx context.Context, carID uint) error
}

// MaintenanceEventConsumer listens to workshop events and keeps the
// under-repair override in sync with the fleet's maintenance state.
type MaintenanceEventConsumer struct {
	consumer *Consumer
	service  CarMaintenanceService
	logger   *zap.Logger
}

// NewMaintenanceEventConsumer creates a new MaintenanceEventConsumer.
func NewMaintenanceEventConsumer(
	brokers []string,
	groupID string,
	service CarMaintenanceService,
	logger *zap.Logger,
) *MaintenanceEventConsumer {
	consumer := NewConsumer(brokers, groupID, TopicMaintenanceEvents, logger)
	return &MaintenanceEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming maintenance events. Blocks until the context is
// cancelled.
func (c *MaintenanceEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *MaintenanceEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *MaintenanceEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from maintenance topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case MaintenanceRepairStarted:
		return c.handleRepair(ctx, cloudEvent, c.service.StartRepair)
	case MaintenanceRepairCompleted:
		return c.handleRepair(ctx, cloudEvent, c.service.CompleteRepair)
	default:
		c.logger.Debug("ignoring unhandled maintenance event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *MaintenanceEventConsumer) handleRepair(
	ctx context.Context,
	cloudEvent CloudEvent,
	apply func(context.Context, uint) error,
) error {
	var evt RepairEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse repair event data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing maintenance event",
		zap.String("type", cloudEvent.Type),
		zap.Uint("car_id", evt.CarID),
		zap.String("work_order", evt.WorkOrder),
	)

	if err := apply(ctx, evt.CarID); err != nil {
		c.logger.Error("failed to apply maintenance event",
			zap.String("type", cloudEvent.Type),
			zap.Uint("car_id", evt.CarID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
