package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every table, in dependency order. All statements
// are idempotent so EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		phone_number VARCHAR(30) NULL,
		address VARCHAR(255) NULL,
		city VARCHAR(100) NULL,
		state VARCHAR(100) NULL,
		postal_code VARCHAR(20) NULL,
		reset_token_hash CHAR(64) NULL,
		reset_token_expires DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS roles (
		id TINYINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_roles_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id BIGINT UNSIGNED NOT NULL,
		role_id TINYINT UNSIGNED NOT NULL,
		PRIMARY KEY (user_id, role_id),
		CONSTRAINT fk_user_roles_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_user_roles_role FOREIGN KEY (role_id) REFERENCES roles(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS brands (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_brands_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS locations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		store_name VARCHAR(150) NOT NULL,
		address VARCHAR(255) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(100) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_locations_store (store_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS extras (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(150) NOT NULL,
		price DECIMAL(18,2) NOT NULL,
		price_type ENUM('PerDay','FlatFee') NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_extras_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS booking_statuses (
		id TINYINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(50) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_booking_statuses_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS vehicles (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(150) NOT NULL,
		model VARCHAR(150) NOT NULL,
		year INT NOT NULL,
		price_per_day DECIMAL(18,2) NOT NULL,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		image_url VARCHAR(500) NULL,
		brand_id BIGINT UNSIGNED NOT NULL,
		location_id BIGINT UNSIGNED NOT NULL,
		fuel_type VARCHAR(50) NOT NULL,
		transmission VARCHAR(50) NOT NULL,
		seating_capacity INT NOT NULL,
		average_rating DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		KEY idx_vehicles_brand (brand_id),
		KEY idx_vehicles_location (location_id),
		CONSTRAINT fk_vehicles_brand FOREIGN KEY (brand_id) REFERENCES brands(id),
		CONSTRAINT fk_vehicles_location FOREIGN KEY (location_id) REFERENCES locations(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		vehicle_id BIGINT UNSIGNED NOT NULL,
		status_id TINYINT UNSIGNED NOT NULL,
		booking_date DATETIME NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		total_cost DECIMAL(18,2) NOT NULL,
		PRIMARY KEY (id),
		KEY idx_bookings_user (user_id),
		KEY idx_bookings_vehicle_dates (vehicle_id, start_date, end_date),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id),
		CONSTRAINT fk_bookings_status FOREIGN KEY (status_id) REFERENCES booking_statuses(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS booking_extras (
		booking_id BIGINT UNSIGNED NOT NULL,
		extra_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (booking_id, extra_id),
		CONSTRAINT fk_booking_extras_booking FOREIGN KEY (booking_id) REFERENCES bookings(id),
		CONSTRAINT fk_booking_extras_extra FOREIGN KEY (extra_id) REFERENCES extras(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id BIGINT UNSIGNED NOT NULL,
		amount DECIMAL(18,2) NOT NULL,
		payment_date DATETIME NOT NULL,
		payment_method VARCHAR(100) NOT NULL,
		transaction_status VARCHAR(50) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_payments_booking (booking_id),
		CONSTRAINT fk_payments_booking FOREIGN KEY (booking_id) REFERENCES bookings(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS issues (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id BIGINT UNSIGNED NOT NULL,
		description TEXT NOT NULL,
		status VARCHAR(50) NOT NULL,
		admin_notes TEXT NULL,
		reported_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_issues_booking (booking_id),
		CONSTRAINT fk_issues_booking FOREIGN KEY (booking_id) REFERENCES bookings(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refunds (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		booking_id BIGINT UNSIGNED NOT NULL,
		issue_id BIGINT UNSIGNED NULL,
		amount DECIMAL(18,2) NOT NULL,
		reason TEXT NOT NULL,
		admin_user_id BIGINT UNSIGNED NOT NULL,
		refund_date DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_refunds_booking (booking_id),
		CONSTRAINT fk_refunds_booking FOREIGN KEY (booking_id) REFERENCES bookings(id),
		CONSTRAINT fk_refunds_issue FOREIGN KEY (issue_id) REFERENCES issues(id),
		CONSTRAINT fk_refunds_admin FOREIGN KEY (admin_user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		vehicle_id BIGINT UNSIGNED NOT NULL,
		booking_id BIGINT UNSIGNED NOT NULL,
		rating INT NOT NULL,
		comment TEXT NULL,
		review_date DATETIME NOT NULL,
		PRIMARY KEY (id),
		KEY idx_reviews_vehicle (vehicle_id),
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_reviews_vehicle FOREIGN KEY (vehicle_id) REFERENCES vehicles(id),
		CONSTRAINT fk_reviews_booking FOREIGN KEY (booking_id) REFERENCES bookings(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates every table that does not yet exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
