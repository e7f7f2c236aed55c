package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/payment"
)

const paymentColumns = "id, order_id, amount, currency, status, intent_id, failure_message, refund_amount, created_at, updated_at"

// PaymentStore is the SQLite implementation of payment.Store.
type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(d *DB) *PaymentStore {
	return &PaymentStore{db: d.db}
}

var _ payment.Store = (*PaymentStore)(nil)

func (s *PaymentStore) CreatePayment(ctx context.Context, p *payment.Payment) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (order_id, amount, currency, status, intent_id, failure_message, refund_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.OrderID, p.Amount.String(), p.Currency, string(p.Status), p.IntentID,
		p.FailureMessage, p.RefundAmount.String(), formatTime(now), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create payment: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: create payment id: %w", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (s *PaymentStore) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE payments
		SET    status = ?, failure_message = ?, refund_amount = ?, updated_at = ?
		WHERE  id = ?`,
		string(p.Status), p.FailureMessage, p.RefundAmount.String(), formatTime(now), p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update payment %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update payment %d: %w", p.ID, err)
	}
	if n == 0 {
		return payment.ErrNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (s *PaymentStore) GetPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	return scanPayment(row)
}

func (s *PaymentStore) ListByOrder(ctx context.Context, orderID int64) ([]*payment.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE order_id = ? ORDER BY created_at DESC, id DESC",
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentStore) CreateRefund(ctx context.Context, r *payment.Refund) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO refunds (payment_id, amount, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.PaymentID, r.Amount.String(), r.Reason, string(r.Status), formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create refund: %w", err)
	}
	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("sqlite: create refund id: %w", err)
	}
	r.CreatedAt = now
	return nil
}

func (s *PaymentStore) ListRefunds(ctx context.Context, paymentID int64) ([]*payment.Refund, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, payment_id, amount, reason, status, created_at FROM refunds WHERE payment_id = ? ORDER BY id",
		paymentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*payment.Refund
	for rows.Next() {
		var r payment.Refund
		var amount, status, createdAt string
		if err := rows.Scan(&r.ID, &r.PaymentID, &amount, &r.Reason, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan refund: %w", err)
		}
		r.Status = payment.Status(status)
		if r.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		refunds = append(refunds, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate refunds: %w", err)
	}
	return refunds, nil
}

func scanPayment(row rowScanner) (*payment.Payment, error) {
	var p payment.Payment
	var amount, status, refundAmount, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.OrderID, &amount, &p.Currency, &status, &p.IntentID,
		&p.FailureMessage, &refundAmount, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, payment.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan payment: %w", err)
	}

	p.Status = payment.Status(status)
	if p.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if p.RefundAmount, err = parseDecimal(refundAmount); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
