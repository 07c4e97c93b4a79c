package status

// CarStatus is the machine name of a car status type. Numeric codes live in
// the car_status_types lookup table and are resolved through the Catalog at
// startup, never hardcoded.
type CarStatus string

const (
	CarAvailable   CarStatus = "available"
	CarRented      CarStatus = "rented"
	CarUnderRepair CarStatus = "under_repair"
)

// BookingStatus is the machine name of a booking status type.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingPlanned   BookingStatus = "planned"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// IsValid reports whether the car status is one of the known machine names.
func (s CarStatus) IsValid() bool {
	switch s {
	case CarAvailable, CarRented, CarUnderRepair:
		return true
	}
	return false
}

// IsValid reports whether the booking status is one of the known machine names.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingActive, BookingPlanned, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status makes its car's date
// range exclusive. Only active bookings occupy the car.
func (s BookingStatus) Occupies() bool {
	return s == BookingActive
}

// Unresolved reports whether a booking in this status still binds the car for
// administrative purposes (editing, deletion policy).
func (s BookingStatus) Unresolved() bool {
	return s == BookingActive || s == BookingPlanned
}

func (s CarStatus) String() string     { return string(s) }
func (s BookingStatus) String() string { return string(s) }

// Type holds one row of a status lookup table.
type Type struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Seed data for the lookup tables. The codes here are only used by
// migrations and the dev seeder; runtime code always goes through the Catalog.
var (
	CarStatusSeed = []Type{
		{Code: 1, Name: string(CarAvailable), DisplayName: "Available"},
		{Code: 2, Name: string(CarRented), DisplayName: "Rented"},
		{Code: 3, Name: string(CarUnderRepair), DisplayName: "Under repair"},
	}
	BookingStatusSeed = []Type{
		{Code: 1, Name: string(BookingActive), DisplayName: "Active"},
		{Code: 2, Name: string(BookingCompleted), DisplayName: "Completed"},
		{Code: 3, Name: string(BookingCancelled), DisplayName: "Cancelled"},
		{Code: 4, Name: string(BookingPlanned), DisplayName: "Planned"},
	}
)
