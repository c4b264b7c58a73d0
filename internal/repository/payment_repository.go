package repository

import (
	"context"
	"database/sql"

	"github.com/roadready/roadready-api/internal/model"
)

// PaymentRepo provides persistence for the one-to-one simulated payments.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row inside the confirm-payment transaction and
// populates the generated id.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, amount, payment_date, payment_method, transaction_status)
		 VALUES (?,?,?,?,?)`,
		p.BookingID, p.Amount, p.PaymentDate, p.PaymentMethod, p.TransactionStatus)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}
