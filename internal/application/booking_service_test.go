package application_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openfleet/service-rental/internal/application"
	"github.com/openfleet/service-rental/internal/domain"
	bookingDomain "github.com/openfleet/service-rental/internal/domain/booking"
	carDomain "github.com/openfleet/service-rental/internal/domain/car"
	"github.com/openfleet/service-rental/internal/domain/status"
	"github.com/openfleet/service-rental/internal/events"
)

// --- Fakes ---

type fakeCarRepo struct {
	cars map[uint]*carDomain.Car
}

func newFakeCarRepo(cars ...*carDomain.Car) *fakeCarRepo {
	r := &fakeCarRepo{cars: make(map[uint]*carDomain.Car)}
	for _, c := range cars {
		r.cars[c.ID()] = c
	}
	return r
}

func (r *fakeCarRepo) FindByID(_ context.Context, id uint) (*carDomain.Car, error) {
	c, ok := r.cars[id]
	if !ok {
		return nil, domain.NewNotFoundError("Car", fmt.Sprint(id))
	}
	return c, nil
}

func (r *fakeCarRepo) ListAll(_ context.Context, _, _ int) ([]*carDomain.Car, int64, error) {
	out := make([]*carDomain.Car, 0, len(r.cars))
	for _, c := range r.cars {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCarRepo) Save(_ context.Context, c *carDomain.Car) error {
	r.cars[c.ID()] = c
	return nil
}

func (r *fakeCarRepo) Update(_ context.Context, c *carDomain.Car) error {
	r.cars[c.ID()] = c
	return nil
}

func (r *fakeCarRepo) Delete(_ context.Context, id uint) error {
	delete(r.cars, id)
	return nil
}

type fakeBookingRepo struct {
	bookings map[uint]*bookingDomain.Booking
	nextID   uint
	saveErr  error
}

func newFakeBookingRepo(bookings ...*bookingDomain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[uint]*bookingDomain.Booking), nextID: 1}
	for _, b := range bookings {
		r.bookings[b.ID()] = b
		if b.ID() >= r.nextID {
			r.nextID = b.ID() + 1
		}
	}
	return r
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uint) (*bookingDomain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", fmt.Sprint(id))
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByCarID(_ context.Context, carID uint) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.CarID() == carID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, b := range r.bookings {
		counts[b.Status().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	id := r.nextID
	r.nextID++
	r.bookings[id] = bookingDomain.Reconstruct(
		id, b.CarID(), b.UserName(), b.StartDate(), b.EndDate(),
		b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.bookings[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uint) error {
	delete(r.bookings, id)
	return nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type publishedEvent struct {
	topic string
	key   string
	event events.CloudEvent
}

type fakePublisher struct {
	published []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event events.CloudEvent) error {
	p.published = append(p.published, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *fakePublisher) eventTypes(topic string) []string {
	var out []string
	for _, e := range p.published {
		if e.topic == topic {
			out = append(out, e.event.Type)
		}
	}
	return out
}

// --- Fixtures ---

type bookingFixture struct {
	service   *application.BookingService
	cars      *fakeCarRepo
	bookings  *fakeBookingRepo
	publisher *fakePublisher
	catalog   *status.Catalog
}

func newBookingFixture(t *testing.T, cars *fakeCarRepo, bookings *fakeBookingRepo) *bookingFixture {
	t.Helper()
	catalog, err := status.NewCatalog(status.CarStatusSeed, status.BookingStatusSeed)
	require.NoError(t, err)

	publisher := &fakePublisher{}
	service := application.NewBookingService(
		bookings, cars, catalog, fakeTransactor{}, publisher, zap.NewNop(), true,
	)
	return &bookingFixture{
		service:   service,
		cars:      cars,
		bookings:  bookings,
		publisher: publisher,
		catalog:   catalog,
	}
}

func fixtureCar(id uint, st status.CarStatus) *carDomain.Car {
	anchor := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	return carDomain.Reconstruct(id, "Toyota", "Corolla", 2022, 4500_00, st, 1, anchor, anchor)
}

func bookingReq(carID uint, start, end application.Date, statusID int) application.BookingRequest {
	return application.BookingRequest{
		CarID:     carID,
		UserName:  "alice",
		StartDate: start,
		EndDate:   end,
		StatusID:  statusID,
	}
}

// --- Tests ---

func TestCreateBookingRentsTheCar(t *testing.T) {
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarAvailable)), newFakeBookingRepo())

	dto, err := f.service.CreateBooking(context.Background(),
		bookingReq(1, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 1))
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)

	reconciled, err := f.cars.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status.CarRented, reconciled.Status())

	assert.Equal(t, []string{events.BookingCreated}, f.publisher.eventTypes(events.TopicBookingEvents))
	assert.Equal(t, []string{events.CarStatusChanged}, f.publisher.eventTypes(events.TopicCarEvents))
}

func TestCreateBookingPlannedKeepsCarAvailable(t *testing.T) {
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarAvailable)), newFakeBookingRepo())

	dto, err := f.service.CreateBooking(context.Background(),
		bookingReq(1, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 4))
	require.NoError(t, err)
	assert.Equal(t, "planned", dto.Status)

	c, err := f.cars.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status.CarAvailable, c.Status())
	assert.Empty(t, f.publisher.eventTypes(events.TopicCarEvents))
}

func TestCreateBookingDefaultsStatusFromStartDate(t *testing.T) {
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarAvailable)), newFakeBookingRepo())

	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 1, 0)

	dto, err := f.service.CreateBooking(context.Background(), bookingReq(1,
		application.NewDate(past.Year(), past.Month(), past.Day()),
		application.NewDate(future.Year(), future.Month(), future.Day()), 0))
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status, "a booking already underway defaults to active")

	farFuture := future.AddDate(0, 1, 0)
	dto, err = f.service.CreateBooking(context.Background(), bookingReq(1,
		application.NewDate(future.Year(), future.Month(), future.Day()),
		application.NewDate(farFuture.Year(), farFuture.Month(), farFuture.Day()), 0))
	require.NoError(t, err)
	assert.Equal(t, "planned", dto.Status, "a future booking defaults to planned")
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	existing := bookingDomain.Reconstruct(5, 1, "bob",
		time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		status.BookingActive, 1, time.Now(), time.Now())
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarRented)), newFakeBookingRepo(existing))

	_, err := f.service.CreateBooking(context.Background(),
		bookingReq(1, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 1))
	require.Error(t, err)

	reason, ok := domain.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonOverlappingBooking, reason)
	assert.Empty(t, f.publisher.published, "rejected bookings publish nothing")
}

func TestCreateBookingRejectsUnknownCar(t *testing.T) {
	f := newBookingFixture(t, newFakeCarRepo(), newFakeBookingRepo())

	_, err := f.service.CreateBooking(context.Background(),
		bookingReq(42, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 1))
	require.Error(t, err)

	reason, ok := domain.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonCarNotFound, reason)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCreateBookingPropagatesPersistenceFailure(t *testing.T) {
	bookings := newFakeBookingRepo()
	bookings.saveErr = domain.NewConflictError("bookings row was modified concurrently")
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarAvailable)), bookings)

	_, err := f.service.CreateBooking(context.Background(),
		bookingReq(1, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 1))
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, f.publisher.published)
}

func TestUpdateBookingMovesCarReconcilesBoth(t *testing.T) {
	existing := bookingDomain.Reconstruct(5, 1, "alice",
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		status.BookingActive, 1, time.Now(), time.Now())
	cars := newFakeCarRepo(fixtureCar(1, status.CarRented), fixtureCar(2, status.CarAvailable))
	f := newBookingFixture(t, cars, newFakeBookingRepo(existing))

	dto, err := f.service.UpdateBooking(context.Background(), 5,
		bookingReq(2, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 1))
	require.NoError(t, err)
	assert.Equal(t, uint(2), dto.CarID)

	oldCar, err := f.cars.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status.CarAvailable, oldCar.Status(), "vacated car returns to available")

	newCar, err := f.cars.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, status.CarRented, newCar.Status())
}

func TestUpdateBookingCompletionFreesCar(t *testing.T) {
	existing := bookingDomain.Reconstruct(5, 1, "alice",
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		status.BookingActive, 1, time.Now(), time.Now())
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarRented)), newFakeBookingRepo(existing))

	dto, err := f.service.UpdateBooking(context.Background(), 5,
		bookingReq(1, application.NewDate(2026, time.March, 10), application.NewDate(2026, time.March, 15), 2))
	require.NoError(t, err)
	assert.Equal(t, "completed", dto.Status)

	c, err := f.cars.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status.CarAvailable, c.Status())
}

func TestDeleteLastActiveBookingFreesCar(t *testing.T) {
	existing := bookingDomain.Reconstruct(5, 1, "alice",
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		status.BookingActive, 1, time.Now(), time.Now())
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarRented)), newFakeBookingRepo(existing))

	err := f.service.DeleteBooking(context.Background(), 5)
	require.NoError(t, err)

	_, err = f.service.GetBooking(context.Background(), 5)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	c, err := f.cars.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status.CarAvailable, c.Status())

	assert.Equal(t, []string{events.BookingDeleted}, f.publisher.eventTypes(events.TopicBookingEvents))
	assert.Equal(t, []string{events.CarStatusChanged}, f.publisher.eventTypes(events.TopicCarEvents))
}

func TestDeleteBookingNeverTouchesRepairedCar(t *testing.T) {
	existing := bookingDomain.Reconstruct(5, 1, "alice",
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		status.BookingActive, 1, time.Now(), time.Now())
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarUnderRepair)), newFakeBookingRepo(existing))

	require.NoError(t, f.service.DeleteBooking(context.Background(), 5))

	c, err := f.cars.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, status.CarUnderRepair, c.Status(), "the repair override survives booking churn")
}

func TestGetBookingStats(t *testing.T) {
	b1 := bookingDomain.Reconstruct(1, 1, "alice",
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		status.BookingActive, 1, time.Now(), time.Now())
	b2 := bookingDomain.Reconstruct(2, 1, "bob",
		time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
		status.BookingCompleted, 1, time.Now(), time.Now())
	f := newBookingFixture(t, newFakeCarRepo(fixtureCar(1, status.CarRented)), newFakeBookingRepo(b1, b2))

	stats, err := f.service.GetBookingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["active"])
	assert.Equal(t, int64(1), stats.ByStatus["completed"])
}
