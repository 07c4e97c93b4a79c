package events

import "time"

// Topics the rental service produces to and consumes from.
const (
	TopicBookingEvents     = "rental.booking.events"
	TopicCarEvents         = "rental.car.events"
	TopicMaintenanceEvents = "fleet.maintenance.events"
)

// Event types.
const (
	BookingCreated   = "rental.booking.created"
	BookingUpdated   = "rental.booking.updated"
	BookingDeleted   = "rental.booking.deleted"
	CarStatusChanged = "rental.car.status_changed"

	MaintenanceRepairStarted   = "fleet.maintenance.repair_started"
	MaintenanceRepairCompleted = "fleet.maintenance.repair_completed"
)

// BookingEvent is the payload for booking lifecycle events.
type BookingEvent struct {
	BookingID  uint      `json:"booking_id"`
	CarID      uint      `json:"car_id"`
	UserName   string    `json:"user_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// CarStatusChangedEvent is published whenever the reconciler or a
// maintenance override moves a car to a new status.
type CarStatusChangedEvent struct {
	CarID      uint      `json:"car_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RepairEvent is the payload of maintenance events from the workshop system.
type RepairEvent struct {
	CarID      uint      `json:"car_id"`
	WorkOrder  string    `json:"work_order"`
	OccurredAt time.Time `json:"occurred_at"`
}
