package status

import "context"

// Repository loads the status lookup tables the Catalog is built from.
type Repository interface {
	// CarStatusTypes returns every row of the car status lookup table.
	CarStatusTypes(ctx context.Context) ([]Type, error)

	// BookingStatusTypes returns every row of the booking status lookup table.
	BookingStatusTypes(ctx context.Context) ([]Type, error)
}
