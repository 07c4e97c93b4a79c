package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/service-rental/internal/domain"
	"github.com/openfleet/service-rental/internal/domain/booking"
	"github.com/openfleet/service-rental/internal/domain/status"
)

func TestNewBooking(t *testing.T) {
	b, err := booking.NewBooking(1, "alice", day(10), day(15), status.BookingActive)
	require.NoError(t, err)

	assert.Equal(t, uint(1), b.CarID())
	assert.Equal(t, "alice", b.UserName())
	assert.Equal(t, status.BookingActive, b.Status())
	assert.Equal(t, int64(1), b.Version())
}

func TestNewBookingValidation(t *testing.T) {
	tests := []struct {
		name       string
		carID      uint
		userName   string
		start, end int
		status     status.BookingStatus
		wantReason domain.Reason
	}{
		{"missing car", 0, "alice", 10, 15, status.BookingActive, domain.ReasonCarNotFound},
		{"missing user name", 1, "", 10, 15, status.BookingActive, domain.ReasonValidation},
		{"inverted dates", 1, "alice", 15, 10, status.BookingActive, domain.ReasonInvalidDateRange},
		{"equal dates", 1, "alice", 10, 10, status.BookingActive, domain.ReasonInvalidDateRange},
		{"bogus status", 1, "alice", 10, 15, status.BookingStatus("paused"), domain.ReasonInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := booking.NewBooking(tt.carID, tt.userName, day(tt.start), day(tt.end), tt.status)
			require.Error(t, err)
			reason, ok := domain.ReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestApplyUpdateKeepsCarWhenZero(t *testing.T) {
	b := activeBooking(7, day(10), day(15))

	err := b.ApplyUpdate(0, "alice", day(11), day(16), status.BookingCompleted)
	require.NoError(t, err)

	assert.Equal(t, uint(1), b.CarID())
	assert.Equal(t, day(11), b.StartDate())
	assert.Equal(t, status.BookingCompleted, b.Status())
}

func TestApplyUpdateSwitchesCar(t *testing.T) {
	b := activeBooking(7, day(10), day(15))

	err := b.ApplyUpdate(3, "alice", day(10), day(15), status.BookingActive)
	require.NoError(t, err)
	assert.Equal(t, uint(3), b.CarID())
}

func TestIncrementVersion(t *testing.T) {
	b := activeBooking(7, day(10), day(15))
	b.IncrementVersion()
	assert.Equal(t, int64(2), b.Version())
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"partial overlap", 10, 15, 12, 20, true},
		{"contained", 10, 20, 12, 14, true},
		{"identical", 10, 15, 10, 15, true},
		{"disjoint", 1, 5, 10, 15, false},
		{"adjacent half-open", 1, 10, 10, 15, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := booking.Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}
