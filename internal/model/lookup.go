package model

// Brand represents a row in the `brands` table. Brands are static reference
// data seeded at startup and only mutated through admin operations.
type Brand struct {
	ID   uint64 // brands.id
	Name string // brands.name
}

// Location represents a rental store in the `locations` table.
type Location struct {
	ID        uint64 // locations.id
	StoreName string // locations.store_name
	Address   string // locations.address
	City      string // locations.city
	State     string // locations.state
}

// PriceType distinguishes how an extra is charged: once per booking or per
// rental day.
type PriceType string

const (
	PricePerDay  PriceType = "PerDay"
	PriceFlatFee PriceType = "FlatFee"
)

// Extra is an optional paid add-on attached to bookings through the
// booking_extras join table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name (e.g. "GPS Navigation System").
//  Price     – price with 2-decimal precision.
//  PriceType – PerDay multiplies by rental days, FlatFee is charged once.
type Extra struct {
	ID        uint64    // extras.id
	Name      string    // extras.name
	Price     float64   // extras.price DECIMAL(18,2)
	PriceType PriceType // extras.price_type
}
