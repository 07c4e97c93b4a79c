package application

import (
	"context"
	"strconv"
	"time"

	"github.com/openfleet/service-rental/internal/domain"
	bookingDomain "github.com/openfleet/service-rental/internal/domain/booking"
	carDomain "github.com/openfleet/service-rental/internal/domain/car"
	"github.com/openfleet/service-rental/internal/domain/status"
	"github.com/openfleet/service-rental/internal/events"
	"go.uber.org/zap"
)

// CarDeletePolicy controls when a car may be deleted.
type CarDeletePolicy string

const (
	// DeleteBlockAny blocks deletion while any booking references the car.
	DeleteBlockAny CarDeletePolicy = "any"

	// DeleteBlockUnresolved blocks deletion only while active or planned
	// bookings exist.
	DeleteBlockUnresolved CarDeletePolicy = "unresolved"
)

// CarService implements fleet management use cases.
type CarService struct {
	cars     carDomain.Repository
	bookings bookingDomain.Repository
	catalog  *status.Catalog
	tx       domain.Transactor
	producer EventPublisher
	logger   *zap.Logger

	deletePolicy CarDeletePolicy
}

// NewCarService creates a new CarService.
func NewCarService(
	cars carDomain.Repository,
	bookings bookingDomain.Repository,
	catalog *status.Catalog,
	tx domain.Transactor,
	producer EventPublisher,
	logger *zap.Logger,
	deletePolicy CarDeletePolicy,
) *CarService {
	if deletePolicy != DeleteBlockUnresolved {
		deletePolicy = DeleteBlockAny
	}
	return &CarService{
		cars:         cars,
		bookings:     bookings,
		catalog:      catalog,
		tx:           tx,
		producer:     producer,
		logger:       logger,
		deletePolicy: deletePolicy,
	}
}

// CreateCar adds a car to the fleet.
func (s *CarService) CreateCar(ctx context.Context, req CarRequest) (*CarDTO, error) {
	st, ok := s.catalog.CarStatusByCode(req.StatusID)
	if !ok {
		return nil, domain.NewValidationError(domain.ReasonInvalidStatus, "unknown car status code %d", req.StatusID)
	}

	c, err := carDomain.NewCar(req.Brand, req.Model, req.Year, req.PricePerDayCents, st)
	if err != nil {
		return nil, err
	}

	if err := s.cars.Save(ctx, c); err != nil {
		s.logger.Error("failed to create car", zap.Error(err))
		return nil, err
	}

	s.logger.Info("car created",
		zap.Uint("car_id", c.ID()),
		zap.String("label", c.Label()),
	)
	result := toCarDTO(c, s.catalog)
	return &result, nil
}

// UpdateCar applies an administrative edit. Edits are blocked while the car
// has active or planned bookings, since they could invalidate commitments
// already made to renters.
func (s *CarService) UpdateCar(ctx context.Context, id uint, req CarRequest) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	bks, err := s.bookings.FindByCarID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, b := range bks {
		if b.Status().Unresolved() {
			return nil, domain.NewValidationError(domain.ReasonCarHasBookings,
				"car %s cannot be edited while it has active or planned bookings", c.Label())
		}
	}

	st, ok := s.catalog.CarStatusByCode(req.StatusID)
	if !ok {
		return nil, domain.NewValidationError(domain.ReasonInvalidStatus, "unknown car status code %d", req.StatusID)
	}

	oldStatus := c.Status()
	if err := c.ApplyAdminUpdate(req.Brand, req.Model, req.Year, req.PricePerDayCents, st); err != nil {
		return nil, err
	}
	c.IncrementVersion()

	if err := s.cars.Update(ctx, c); err != nil {
		return nil, err
	}

	if oldStatus != c.Status() {
		s.publishStatusChange(ctx, id, oldStatus, c.Status())
	}
	result := toCarDTO(c, s.catalog)
	return &result, nil
}

// DeleteCar removes a car, subject to the configured deletion policy.
func (s *CarService) DeleteCar(ctx context.Context, id uint) error {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return err
	}

	bks, err := s.bookings.FindByCarID(ctx, id)
	if err != nil {
		return err
	}
	for _, b := range bks {
		if s.deletePolicy == DeleteBlockAny || b.Status().Unresolved() {
			return domain.NewValidationError(domain.ReasonCarHasBookings,
				"car %s cannot be deleted while bookings reference it", c.Label())
		}
	}

	if err := s.cars.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("car deleted", zap.Uint("car_id", id), zap.String("label", c.Label()))
	return nil
}

// GetCar retrieves a single car by ID.
func (s *CarService) GetCar(ctx context.Context, id uint) (*CarDTO, error) {
	c, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toCarDTO(c, s.catalog)
	return &result, nil
}

// ListCars retrieves paginated cars.
func (s *CarService) ListCars(ctx context.Context, page, limit int) (*domain.PaginatedResult[CarDTO], error) {
	cars, total, err := s.cars.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]CarDTO, len(cars))
	for i, c := range cars {
		dtos[i] = toCarDTO(c, s.catalog)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// StartRepair places the under-repair override on a car. The override wins
// over the reconciler until CompleteRepair clears it.
func (s *CarService) StartRepair(ctx context.Context, carID uint) error {
	c, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return err
	}
	if c.Status() == status.CarUnderRepair {
		return nil
	}

	old := c.Status()
	c.SetStatus(status.CarUnderRepair)
	c.IncrementVersion()
	if err := s.cars.Update(ctx, c); err != nil {
		return err
	}

	s.publishStatusChange(ctx, carID, old, status.CarUnderRepair)
	return nil
}

// CompleteRepair clears the under-repair override and reconciles the car's
// status from its bookings.
func (s *CarService) CompleteRepair(ctx context.Context, carID uint) error {
	var change *statusChange
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		c, err := s.cars.FindByID(txCtx, carID)
		if err != nil {
			return err
		}
		if c.Status() != status.CarUnderRepair {
			return nil
		}

		bks, err := s.bookings.FindByCarID(txCtx, carID)
		if err != nil {
			return err
		}

		// The override is cleared before reconciling, otherwise the
		// reconciler would keep it in place.
		target, _ := bookingDomain.ReconcileCarStatus(status.CarAvailable, bookingDomain.StatusesOf(bks))
		c.SetStatus(target)
		c.IncrementVersion()
		if err := s.cars.Update(txCtx, c); err != nil {
			return err
		}

		change = &statusChange{carID: carID, oldStatus: status.CarUnderRepair, newStatus: target}
		return nil
	})
	if err != nil {
		return err
	}

	if change != nil {
		s.publishStatusChange(ctx, change.carID, change.oldStatus, change.newStatus)
	}
	return nil
}

func (s *CarService) publishStatusChange(ctx context.Context, carID uint, old, new status.CarStatus) {
	evt := events.CarStatusChangedEvent{
		CarID:      carID,
		OldStatus:  old.String(),
		NewStatus:  new.String(),
		OccurredAt: time.Now().UTC(),
	}
	cloudEvent, err := events.NewCloudEvent("service-rental", events.CarStatusChanged, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicCarEvents, carKey(carID), cloudEvent); err != nil {
		s.logger.Error("failed to publish car status change",
			zap.Uint("car_id", carID),
			zap.Error(err),
		)
	}

	s.logger.Info("car status changed",
		zap.Uint("car_id", carID),
		zap.String("old_status", old.String()),
		zap.String("new_status", new.String()),
	)
}

func carKey(id uint) string     { return "car-" + strconv.FormatUint(uint64(id), 10) }
func bookingKey(id uint) string { return "booking-" + strconv.FormatUint(uint64(id), 10) }
