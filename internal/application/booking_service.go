package application

import (
	"context"
	"errors"
	"time"

	"github.com/jinzhu/now"
	"github.com/openfleet/service-rental/internal/domain"
	bookingDomain "github.com/openfleet/service-rental/internal/domain/booking"
	carDomain "github.com/openfleet/service-rental/internal/domain/car"
	"github.com/openfleet/service-rental/internal/domain/status"
	"github.com/openfleet/service-rental/internal/events"
	"go.uber.org/zap"
)

// EventPublisher publishes CloudEvents to the event topics.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// BookingService coordinates the booking lifecycle: each operation runs
// validation against a snapshot, mutates the booking, reconciles the affected
// cars' statuses, and commits everything in one transaction.
type BookingService struct {
	bookings  bookingDomain.Repository
	cars      carDomain.Repository
	catalog   *status.Catalog
	validator *bookingDomain.Validator
	tx        domain.Transactor
	producer  EventPublisher
	logger    *zap.Logger

	// defaultStatusByDate switches on the create-time heuristic: an unset
	// status becomes active when the booking starts today or earlier, else
	// planned.
	defaultStatusByDate bool
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	cars carDomain.Repository,
	catalog *status.Catalog,
	tx domain.Transactor,
	producer EventPublisher,
	logger *zap.Logger,
	defaultStatusByDate bool,
) *BookingService {
	return &BookingService{
		bookings:            bookings,
		cars:                cars,
		catalog:             catalog,
		validator:           bookingDomain.NewValidator(catalog),
		tx:                  tx,
		producer:            producer,
		logger:              logger,
		defaultStatusByDate: defaultStatusByDate,
	}
}

// statusChange records a reconciler decision applied to a car, for event
// publication after commit.
type statusChange struct {
	carID     uint
	oldStatus status.CarStatus
	newStatus status.CarStatus
}

// CreateBooking validates and creates a booking, reconciling the car's
// status in the same transaction.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*BookingDTO, error) {
	statusCode := s.defaultStatusCode(req)

	carSnap, err := s.loadCarSnapshot(ctx, req.CarID)
	if err != nil {
		return nil, err
	}
	existing, err := s.bookings.FindByCarID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	decision := s.validator.Validate(bookingDomain.Candidate{
		CarID:      req.CarID,
		UserName:   req.UserName,
		StartDate:  req.StartDate.Time,
		EndDate:    req.EndDate.Time,
		StatusCode: statusCode,
	}, carSnap, existing)
	if !decision.OK {
		s.logValidationRejected(req, decision)
		return nil, decision.Err()
	}

	bk, err := bookingDomain.NewBooking(req.CarID, req.UserName, req.StartDate.Time, req.EndDate.Time, decision.Status)
	if err != nil {
		return nil, err
	}

	var change *statusChange
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.bookings.Save(txCtx, bk); err != nil {
			return err
		}
		change, err = s.reconcileCar(txCtx, bk.CarID())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCreated, bk)
	s.publishStatusChange(ctx, change)

	result := toBookingDTO(bk, s.catalog)
	return &result, nil
}

// UpdateBooking validates and applies changes to a booking, reconciling both
// the previous and the new car when the car reference changed.
func (s *BookingService) UpdateBooking(ctx context.Context, id uint, req BookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldCarID := bk.CarID()
	newCarID := req.CarID
	if newCarID == 0 {
		newCarID = oldCarID
	}

	statusCode := req.StatusID
	if statusCode == 0 {
		statusCode = s.catalog.BookingCode(bk.Status())
	}

	carSnap, err := s.loadCarSnapshot(ctx, newCarID)
	if err != nil {
		return nil, err
	}
	existing, err := s.bookings.FindByCarID(ctx, newCarID)
	if err != nil {
		return nil, err
	}

	decision := s.validator.Validate(bookingDomain.Candidate{
		CarID:            newCarID,
		UserName:         req.UserName,
		StartDate:        req.StartDate.Time,
		EndDate:          req.EndDate.Time,
		StatusCode:       statusCode,
		ExcludeBookingID: id,
	}, carSnap, existing)
	if !decision.OK {
		s.logValidationRejected(req, decision)
		return nil, decision.Err()
	}

	if err := bk.ApplyUpdate(newCarID, req.UserName, req.StartDate.Time, req.EndDate.Time, decision.Status); err != nil {
		return nil, err
	}
	bk.IncrementVersion()

	var changes []*statusChange
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.bookings.Update(txCtx, bk); err != nil {
			return err
		}
		if oldCarID != newCarID {
			change, err := s.reconcileCar(txCtx, oldCarID)
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		change, err := s.reconcileCar(txCtx, newCarID)
		if err != nil {
			return err
		}
		changes = append(changes, change)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingUpdated, bk)
	for _, change := range changes {
		s.publishStatusChange(ctx, change)
	}

	result := toBookingDTO(bk, s.catalog)
	return &result, nil
}

// DeleteBooking removes a booking and reconciles its car.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint) error {
	bk, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}

	var change *statusChange
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.bookings.Delete(txCtx, id); err != nil {
			return err
		}
		change, err = s.reconcileCar(txCtx, bk.CarID())
		return err
	})
	if err != nil {
		return err
	}

	s.publishBookingEvent(ctx, events.BookingDeleted, bk)
	s.publishStatusChange(ctx, change)
	return nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id uint) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk, s.catalog)
	return &result, nil
}

// ListBookings retrieves paginated bookings.
func (s *BookingService) ListBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, s.catalog)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// defaultStatusCode resolves an unset status from the start date: bookings
// starting today or earlier default to active, future ones to planned.
func (s *BookingService) defaultStatusCode(req BookingRequest) int {
	if req.StatusID != 0 || !s.defaultStatusByDate {
		return req.StatusID
	}

	today := now.New(time.Now().UTC()).BeginningOfDay()
	if !req.StartDate.After(today) {
		return s.catalog.BookingCode(status.BookingActive)
	}
	return s.catalog.BookingCode(status.BookingPlanned)
}

// loadCarSnapshot fetches the car for validation, mapping not-found to a nil
// snapshot so the Validator reports it as a rejection rather than a fault.
func (s *BookingService) loadCarSnapshot(ctx context.Context, carID uint) (*carDomain.Car, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// reconcileCar recomputes the car's status from its full booking set and
// persists it when it changed. Must run inside the caller's transaction so
// it observes the booking mutation.
func (s *BookingService) reconcileCar(ctx context.Context, carID uint) (*statusChange, error) {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	bks, err := s.bookings.FindByCarID(ctx, carID)
	if err != nil {
		return nil, err
	}

	target, changed := bookingDomain.ReconcileCarStatus(c.Status(), bookingDomain.StatusesOf(bks))
	if !changed {
		return nil, nil
	}

	old := c.Status()
	c.SetStatus(target)
	c.IncrementVersion()
	if err := s.cars.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("car status changed",
		zap.Uint("car_id", carID),
		zap.String("old_status", old.String()),
		zap.String("new_status", target.String()),
	)
	return &statusChange{carID: carID, oldStatus: old, newStatus: target}, nil
}

func (s *BookingService) logValidationRejected(req BookingRequest, decision bookingDomain.Decision) {
	s.logger.Warn("booking validation rejected",
		zap.Uint("car_id", req.CarID),
		zap.String("start_date", req.StartDate.Format(time.DateOnly)),
		zap.String("end_date", req.EndDate.Format(time.DateOnly)),
		zap.String("reason", string(decision.Reason)),
		zap.String("detail", decision.Detail),
	)
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := events.BookingEvent{
		BookingID:  bk.ID(),
		CarID:      bk.CarID(),
		UserName:   bk.UserName(),
		StartDate:  bk.StartDate(),
		EndDate:    bk.EndDate(),
		Status:     bk.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, bookingKey(bk.ID()), evt)
}

func (s *BookingService) publishStatusChange(ctx context.Context, change *statusChange) {
	if change == nil {
		return
	}
	evt := events.CarStatusChangedEvent{
		CarID:      change.carID,
		OldStatus:  change.oldStatus.String(),
		NewStatus:  change.newStatus.String(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicCarEvents, events.CarStatusChanged, carKey(change.carID), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	cloudEvent, err := events.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
