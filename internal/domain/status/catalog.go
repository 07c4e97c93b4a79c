package status

import "fmt"

// Catalog maps between the integer codes persisted in the status lookup
// tables and the machine names the domain works with. It is loaded once at
// startup from the entity store, so status semantics stay data-driven.
type Catalog struct {
	carByCode     map[int]Type
	carByName     map[CarStatus]Type
	bookingByCode map[int]Type
	bookingByName map[BookingStatus]Type
}

// NewCatalog builds a catalog from the lookup table rows. Rows whose machine
// name is not a recognized status are rejected, so a misconfigured table
// fails at startup instead of at request time.
func NewCatalog(carTypes, bookingTypes []Type) (*Catalog, error) {
	c := &Catalog{
		carByCode:     make(map[int]Type, len(carTypes)),
		carByName:     make(map[CarStatus]Type, len(carTypes)),
		bookingByCode: make(map[int]Type, len(bookingTypes)),
		bookingByName: make(map[BookingStatus]Type, len(bookingTypes)),
	}

	for _, t := range carTypes {
		name := CarStatus(t.Name)
		if !name.IsValid() {
			return nil, fmt.Errorf("unknown car status type %q (code %d)", t.Name, t.Code)
		}
		c.carByCode[t.Code] = t
		c.carByName[name] = t
	}
	for _, t := range bookingTypes {
		name := BookingStatus(t.Name)
		if !name.IsValid() {
			return nil, fmt.Errorf("unknown booking status type %q (code %d)", t.Name, t.Code)
		}
		c.bookingByCode[t.Code] = t
		c.bookingByName[name] = t
	}

	for _, required := range []CarStatus{CarAvailable, CarRented, CarUnderRepair} {
		if _, ok := c.carByName[required]; !ok {
			return nil, fmt.Errorf("car status type %q missing from lookup table", required)
		}
	}
	for _, required := range []BookingStatus{BookingActive, BookingPlanned, BookingCompleted, BookingCancelled} {
		if _, ok := c.bookingByName[required]; !ok {
			return nil, fmt.Errorf("booking status type %q missing from lookup table", required)
		}
	}

	return c, nil
}

// CarStatusByCode resolves a car status code to its machine name.
func (c *Catalog) CarStatusByCode(code int) (CarStatus, bool) {
	t, ok := c.carByCode[code]
	return CarStatus(t.Name), ok
}

// CarCode resolves a car status machine name to its lookup-table code.
func (c *Catalog) CarCode(s CarStatus) int {
	return c.carByName[s].Code
}

// BookingStatusByCode resolves a booking status code to its machine name.
func (c *Catalog) BookingStatusByCode(code int) (BookingStatus, bool) {
	t, ok := c.bookingByCode[code]
	return BookingStatus(t.Name), ok
}

// BookingCode resolves a booking status machine name to its lookup-table code.
func (c *Catalog) BookingCode(s BookingStatus) int {
	return c.bookingByName[s].Code
}

// CarStatusTypes returns all car status rows ordered as loaded.
func (c *Catalog) CarStatusTypes() []Type {
	out := make([]Type, 0, len(c.carByCode))
	for _, seed := range CarStatusSeed {
		if t, ok := c.carByName[CarStatus(seed.Name)]; ok {
			out = append(out, t)
		}
	}
	return out
}

// BookingStatusTypes returns all booking status rows ordered as loaded.
func (c *Catalog) BookingStatusTypes() []Type {
	out := make([]Type, 0, len(c.bookingByCode))
	for _, seed := range BookingStatusSeed {
		if t, ok := c.bookingByName[BookingStatus(seed.Name)]; ok {
			out = append(out, t)
		}
	}
	return out
}

// CarDisplayName returns the display name for a car status.
func (c *Catalog) CarDisplayName(s CarStatus) string {
	return c.carByName[s].DisplayName
}

// BookingDisplayName returns the display name for a booking status.
func (c *Catalog) BookingDisplayName(s BookingStatus) string {
	return c.bookingByName[s].DisplayName
}
