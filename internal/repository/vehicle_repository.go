package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roadready/roadready-api/internal/model"
)

// ErrVehicleNotFound is returned when a vehicle id has no row.
var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleRepo provides persistence for the vehicle catalog.
type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *VehicleRepo) DB() *sql.DB { return r.db }

// Create inserts a vehicle and returns its id. Brand and location existence
// is validated by the caller.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (name, model, year, price_per_day, is_available, image_url,
		 brand_id, location_id, fuel_type, transmission, seating_capacity)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		v.Name, v.Model, v.Year, v.PricePerDay, v.IsAvailable, v.ImageURL,
		v.BrandID, v.LocationID, v.FuelType, v.Transmission, v.SeatingCapacity)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const vehicleColumns = `id, name, model, year, price_per_day, is_available, image_url,
	brand_id, location_id, fuel_type, transmission, seating_capacity, average_rating`

func scanVehicle(row interface{ Scan(...interface{}) error }) (model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.Name, &v.Model, &v.Year, &v.PricePerDay, &v.IsAvailable,
		&v.ImageURL, &v.BrandID, &v.LocationID, &v.FuelType, &v.Transmission,
		&v.SeatingCapacity, &v.AverageRating)
	return v, err
}

// GetByID fetches the raw vehicle row.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Vehicle{}, ErrVehicleNotFound
	}
	return v, err
}

// LockByIDTx reads the vehicle row FOR UPDATE inside an existing transaction.
// Booking initiation uses this to serialize creation per vehicle so that two
// concurrent requests cannot both pass the overlap check.
func (r *VehicleRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Vehicle, error) {
	v, err := scanVehicle(tx.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE id=? LIMIT 1 FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return model.Vehicle{}, ErrVehicleNotFound
	}
	return v, err
}

// VehicleDetail is a vehicle joined with its brand and location names, as
// returned by listing, search and detail endpoints.
type VehicleDetail struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	PricePerDay     float64 `json:"pricePerDay"`
	IsAvailable     bool    `json:"isAvailable"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	BrandID         uint64  `json:"brandId"`
	BrandName       string  `json:"brandName"`
	LocationID      uint64  `json:"locationId"`
	LocationName    string  `json:"locationName"`
	FuelType        string  `json:"fuelType"`
	Transmission    string  `json:"transmission"`
	SeatingCapacity int     `json:"seatingCapacity"`
	AverageRating   float64 `json:"averageRating"`
}

const vehicleDetailSelect = `SELECT v.id, v.name, v.model, v.year, v.price_per_day,
		v.is_available, v.image_url, v.brand_id, b.name, v.location_id, l.store_name,
		v.fuel_type, v.transmission, v.seating_capacity, v.average_rating
	FROM vehicles v
	JOIN brands b ON b.id = v.brand_id
	JOIN locations l ON l.id = v.location_id`

func scanVehicleDetail(row interface{ Scan(...interface{}) error }) (VehicleDetail, error) {
	var d VehicleDetail
	err := row.Scan(&d.ID, &d.Name, &d.Model, &d.Year, &d.PricePerDay, &d.IsAvailable,
		&d.ImageURL, &d.BrandID, &d.BrandName, &d.LocationID, &d.LocationName,
		&d.FuelType, &d.Transmission, &d.SeatingCapacity, &d.AverageRating)
	return d, err
}

// GetDetailsByID fetches a vehicle with brand and location names.
func (r *VehicleRepo) GetDetailsByID(ctx context.Context, id uint64) (VehicleDetail, error) {
	d, err := scanVehicleDetail(r.db.QueryRowContext(ctx,
		vehicleDetailSelect+" WHERE v.id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return VehicleDetail{}, ErrVehicleNotFound
	}
	return d, err
}

// SearchCriteria defines the filters and pagination for the vehicle search.
// Nil pointer fields are not applied.
type SearchCriteria struct {
	LocationID      *uint64
	BrandID         *uint64
	BrandName       string
	Name            string
	Model           string
	MinPrice        *float64
	MaxPrice        *float64
	FuelType        string
	Transmission    string
	SeatingCapacity *int
	IsAvailable     *bool
	Page            int
	PageSize        int
}

func (c SearchCriteria) where() (string, []interface{}) {
	where := []string{}
	args := []interface{}{}
	if c.LocationID != nil {
		where = append(where, "v.location_id = ?")
		args = append(args, *c.LocationID)
	}
	if c.BrandID != nil {
		where = append(where, "v.brand_id = ?")
		args = append(args, *c.BrandID)
	}
	if c.BrandName != "" {
		where = append(where, "LOWER(b.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(c.BrandName)+"%")
	}
	if c.Name != "" {
		where = append(where, "LOWER(v.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(c.Name)+"%")
	}
	if c.Model != "" {
		where = append(where, "LOWER(v.model) LIKE ?")
		args = append(args, "%"+strings.ToLower(c.Model)+"%")
	}
	if c.MinPrice != nil {
		where = append(where, "v.price_per_day >= ?")
		args = append(args, *c.MinPrice)
	}
	if c.MaxPrice != nil {
		where = append(where, "v.price_per_day <= ?")
		args = append(args, *c.MaxPrice)
	}
	if c.FuelType != "" {
		where = append(where, "LOWER(v.fuel_type) = ?")
		args = append(args, strings.ToLower(c.FuelType))
	}
	if c.Transmission != "" {
		where = append(where, "LOWER(v.transmission) = ?")
		args = append(args, strings.ToLower(c.Transmission))
	}
	if c.SeatingCapacity != nil {
		where = append(where, "v.seating_capacity = ?")
		args = append(args, *c.SeatingCapacity)
	}
	if c.IsAvailable != nil {
		where = append(where, "v.is_available = ?")
		args = append(args, *c.IsAvailable)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	return cond, args
}

// Search returns the matching page of vehicles and the total match count.
func (r *VehicleRepo) Search(ctx context.Context, c SearchCriteria) ([]VehicleDetail, int, error) {
	cond, args := c.where()

	var total int
	countSQL := `SELECT COUNT(*)
		FROM vehicles v
		JOIN brands b ON b.id = v.brand_id
		JOIN locations l ON l.id = v.location_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := vehicleDetailSelect + `
	WHERE ` + cond + `
	ORDER BY v.id
	LIMIT ? OFFSET ?`
	argsData := append(append([]interface{}{}, args...), c.PageSize, (c.Page-1)*c.PageSize)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]VehicleDetail, 0, c.PageSize)
	for rows.Next() {
		d, err := scanVehicleDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update overwrites the mutable catalog fields of a vehicle.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET name=?, model=?, year=?, price_per_day=?, is_available=?,
		 image_url=?, brand_id=?, location_id=?, fuel_type=?, transmission=?,
		 seating_capacity=? WHERE id=?`,
		v.Name, v.Model, v.Year, v.PricePerDay, v.IsAvailable, v.ImageURL,
		v.BrandID, v.LocationID, v.FuelType, v.Transmission, v.SeatingCapacity, v.ID)
	return err
}

// SetAvailability flips the maintenance flag on a vehicle.
func (r *VehicleRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE vehicles SET is_available=? WHERE id=?", available, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a vehicle. Vehicles referenced by bookings cannot be
// deleted; the foreign-key violation maps to ErrConflict.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id=?", id)
	if err != nil {
		// 1451 = MySQL row is referenced by a foreign key
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	return nil
}

// RecomputeAverageRatingTx rewrites the denormalized rating aggregate from
// the review rows, inside the same transaction as the review insert.
func (r *VehicleRepo) RecomputeAverageRatingTx(ctx context.Context, tx *sql.Tx, vehicleID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE vehicles
		 SET average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE vehicle_id=?), 0)
		 WHERE id=?`, vehicleID, vehicleID)
	return err
}
