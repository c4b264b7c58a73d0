package database

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/roadready/roadready-api/internal/model"
	"github.com/roadready/roadready-api/internal/utils"
)

// defaultAdminEmail identifies the bootstrap admin account.
const defaultAdminEmail = "admin@roadready.com"

// defaultAdminPassword is only used on the very first startup; operators are
// expected to change it immediately.
const defaultAdminPassword = "Admin@123"

// Seed populates the reference tables and, when enabled, the default admin
// account. Every step is idempotent: names are unique keys and inserted with
// INSERT IGNORE, so a restart never duplicates rows. Statuses and roles are
// inserted in a fixed order to pin their ids on fresh databases.
func Seed(ctx context.Context, db *sql.DB, bcryptCost int, seedAdmin bool) error {
	if err := seedNames(ctx, db, "roles", []string{model.RoleAdmin, model.RoleCustomer, model.RoleRentalAgent}); err != nil {
		return err
	}
	statuses := make([]string, 0, len(model.AllBookingStatuses))
	for _, s := range model.AllBookingStatuses {
		statuses = append(statuses, string(s))
	}
	if err := seedNames(ctx, db, "booking_statuses", statuses); err != nil {
		return err
	}
	if err := seedNames(ctx, db, "brands", []string{
		"Toyota", "Ford", "BMW", "Honda", "Nissan", "Mercedes-Benz", "Audi",
	}); err != nil {
		return err
	}
	if err := seedLocations(ctx, db); err != nil {
		return err
	}
	if err := seedExtras(ctx, db); err != nil {
		return err
	}
	if seedAdmin {
		if err := seedAdminUser(ctx, db, bcryptCost); err != nil {
			return err
		}
	}
	return nil
}

// seedNames inserts single-name lookup rows one at a time so auto-increment
// ids follow the declared order.
func seedNames(ctx context.Context, db *sql.DB, table string, names []string) error {
	for _, name := range names {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO "+table+" (name) VALUES (?)", name); err != nil {
			return err
		}
	}
	return nil
}

func seedLocations(ctx context.Context, db *sql.DB) error {
	locations := []model.Location{
		{StoreName: "Chennai Airport (MAA)", Address: "GST Road, Meenambakkam", City: "Chennai", State: "Tamil Nadu"},
		{StoreName: "Bangalore Downtown", Address: "MG Road, Shanthala Nagar", City: "Bengaluru", State: "Karnataka"},
		{StoreName: "Mumbai Central Station", Address: "Dr Anandarao Nair Marg", City: "Mumbai", State: "Maharashtra"},
	}
	for _, l := range locations {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO locations (store_name, address, city, state) VALUES (?,?,?,?)",
			l.StoreName, l.Address, l.City, l.State); err != nil {
			return err
		}
	}
	return nil
}

func seedExtras(ctx context.Context, db *sql.DB) error {
	extras := []model.Extra{
		{Name: "GPS Navigation System", Price: 500, PriceType: model.PriceFlatFee},
		{Name: "Child Safety Seat", Price: 250, PriceType: model.PricePerDay},
		{Name: "Booster Seat", Price: 200, PriceType: model.PricePerDay},
		{Name: "Additional Driver", Price: 1000, PriceType: model.PriceFlatFee},
		{Name: "Collision Damage Waiver", Price: 800, PriceType: model.PricePerDay},
		{Name: "Prepaid Fuel Option", Price: 3000, PriceType: model.PriceFlatFee},
	}
	for _, e := range extras {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO extras (name, price, price_type) VALUES (?,?,?)",
			e.Name, e.Price, string(e.PriceType)); err != nil {
			return err
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, db *sql.DB, bcryptCost int) error {
	var exists bool
	if err := db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email=?)", defaultAdminEmail).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	log.Printf("seed: creating default admin user %s", defaultAdminEmail)

	hash, err := utils.HashPassword(defaultAdminPassword, bcryptCost)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash) VALUES (?,?,?,?)",
		"Admin", "User", strings.ToLower(defaultAdminEmail), hash)
	if err != nil {
		return err
	}
	uid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT IGNORE INTO user_roles (user_id, role_id)
		 SELECT ?, id FROM roles WHERE name = ?`, uid, model.RoleAdmin)
	return err
}
