package model

// Vehicle is a catalog item in the `vehicles` table. It belongs to one brand
// and one location. AverageRating is a denormalized aggregate recomputed in
// the same transaction as each review insert, so it never lags its source
// rows.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name (e.g. "Corolla Altis").
//  Model           – model designation.
//  Year            – model year.
//  PricePerDay     – rental price per day with 2-decimal precision.
//  IsAvailable     – whether the vehicle can be booked at all (maintenance flag).
//  ImageURL        – optional catalog image.
//  BrandID         – owning brand.
//  LocationID      – store the vehicle is rented from.
//  FuelType        – e.g. Petrol, Diesel, Electric.
//  Transmission    – e.g. Manual, Automatic.
//  SeatingCapacity – number of seats.
//  AverageRating   – arithmetic mean of all review ratings, 0 when unreviewed.
type Vehicle struct {
	ID              uint64  // vehicles.id
	Name            string  // vehicles.name
	Model           string  // vehicles.model
	Year            int     // vehicles.year
	PricePerDay     float64 // vehicles.price_per_day DECIMAL(18,2)
	IsAvailable     bool    // vehicles.is_available
	ImageURL        *string // vehicles.image_url (nullable)
	BrandID         uint64  // vehicles.brand_id
	LocationID      uint64  // vehicles.location_id
	FuelType        string  // vehicles.fuel_type
	Transmission    string  // vehicles.transmission
	SeatingCapacity int     // vehicles.seating_capacity
	AverageRating   float64 // vehicles.average_rating
}
