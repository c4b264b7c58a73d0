package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roadready/roadready-api/internal/model"
)

// Sentinel errors for missing lookup rows.
var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrLocationNotFound = errors.New("location not found")
)

// BrandRepo provides read access to the brands lookup table.
type BrandRepo struct {
	db *sql.DB
}

func NewBrandRepo(db *sql.DB) *BrandRepo { return &BrandRepo{db: db} }

// GetAll returns every brand ordered by name.
func (r *BrandRepo) GetAll(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM brands ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	brands := make([]model.Brand, 0)
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// GetByID fetches one brand.
func (r *BrandRepo) GetByID(ctx context.Context, id uint64) (model.Brand, error) {
	var b model.Brand
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM brands WHERE id=? LIMIT 1", id).Scan(&b.ID, &b.Name)
	if err == sql.ErrNoRows {
		return model.Brand{}, ErrBrandNotFound
	}
	return b, err
}

// LocationRepo provides read access to the locations lookup table.
type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// GetAll returns every rental location ordered by store name.
func (r *LocationRepo) GetAll(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, store_name, address, city, state FROM locations ORDER BY store_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := make([]model.Location, 0)
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.StoreName, &l.Address, &l.City, &l.State); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// GetByID fetches one location.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (model.Location, error) {
	var l model.Location
	err := r.db.QueryRowContext(ctx,
		"SELECT id, store_name, address, city, state FROM locations WHERE id=? LIMIT 1",
		id).Scan(&l.ID, &l.StoreName, &l.Address, &l.City, &l.State)
	if err == sql.ErrNoRows {
		return model.Location{}, ErrLocationNotFound
	}
	return l, err
}

// ExtraRepo provides read access to the extras lookup table.
type ExtraRepo struct {
	db *sql.DB
}

func NewExtraRepo(db *sql.DB) *ExtraRepo { return &ExtraRepo{db: db} }

// GetAll returns every extra ordered by name.
func (r *ExtraRepo) GetAll(ctx context.Context) ([]model.Extra, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, price, price_type FROM extras ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	extras := make([]model.Extra, 0)
	for rows.Next() {
		var e model.Extra
		if err := rows.Scan(&e.ID, &e.Name, &e.Price, &e.PriceType); err != nil {
			return nil, err
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}

// GetByIDs fetches the extras matching the given ids. Unknown ids are simply
// absent from the result; callers compare lengths when that matters.
func (r *ExtraRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Extra, error) {
	if len(ids) == 0 {
		return []model.Extra{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, price, price_type FROM extras WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	extras := make([]model.Extra, 0, len(ids))
	for rows.Next() {
		var e model.Extra
		if err := rows.Scan(&e.ID, &e.Name, &e.Price, &e.PriceType); err != nil {
			return nil, err
		}
		extras = append(extras, e)
	}
	return extras, rows.Err()
}
