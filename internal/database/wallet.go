package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fondeo/entity"
)

const topupColumns = `id, ref, account_id, amount, cashback, promo_id, promo_code,
	promo_bonus, receipt, status, activated_at, created_at`

func scanTopUp(row *sql.Row) (*entity.TopUpRequest, error) {
	var t entity.TopUpRequest
	var activated sql.NullTime
	err := row.Scan(&t.ID, &t.Ref, &t.AccountID, &t.Amount, &t.Cashback, &t.PromoID, &t.PromoCode,
		&t.PromoBonus, &t.Receipt, &t.Status, &activated, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan topup: %w", err)
	}
	if activated.Valid {
		t.ActivatedAt = &activated.Time
	}
	return &t, nil
}

func (s *MySql) CreateTopUp(ctx context.Context, t *entity.TopUpRequest) error {
	res, err := s.ex.ExecContext(ctx,
		`INSERT INTO topups (ref, account_id, amount, cashback, promo_id, promo_code, promo_bonus, receipt, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Ref, t.AccountID, t.Amount.StringFixed(2), t.Cashback.StringFixed(2),
		t.PromoID, t.PromoCode, t.PromoBonus.StringFixed(2), t.Receipt, t.Status)
	if err != nil {
		return fmt.Errorf("insert topup: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

func (s *MySql) TopUpByID(ctx context.Context, id int64) (*entity.TopUpRequest, error) {
	return scanTopUp(s.ex.QueryRowContext(ctx,
		`SELECT `+topupColumns+` FROM topups WHERE id = ?`, id))
}

func (s *MySql) TopUpByRef(ctx context.Context, ref string) (*entity.TopUpRequest, error) {
	return scanTopUp(s.ex.QueryRowContext(ctx,
		`SELECT `+topupColumns+` FROM topups WHERE ref = ?`, ref))
}

func (s *MySql) TopUpForUpdate(ctx context.Context, id int64) (*entity.TopUpRequest, error) {
	return scanTopUp(s.ex.QueryRowContext(ctx,
		`SELECT `+topupColumns+` FROM topups WHERE id = ? FOR UPDATE`, id))
}

func (s *MySql) MarkTopUpApproved(ctx context.Context, id int64, at time.Time) error {
	res, err := s.ex.ExecContext(ctx,
		`UPDATE topups SET status = ?, activated_at = ? WHERE id = ? AND status = ?`,
		entity.TopUpApproved, at, id, entity.TopUpPending)
	if err != nil {
		return fmt.Errorf("mark approved: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("topup %d not pending", id)
	}
	return nil
}

func (s *MySql) ListPendingTopUps(ctx context.Context) ([]*entity.TopUpRequest, error) {
	rows, err := s.ex.QueryContext(ctx,
		`SELECT `+topupColumns+` FROM topups WHERE status = ? ORDER BY created_at`, entity.TopUpPending)
	if err != nil {
		return nil, fmt.Errorf("list pending topups: %w", err)
	}
	defer rows.Close()

	var topups []*entity.TopUpRequest
	for rows.Next() {
		var t entity.TopUpRequest
		var activated sql.NullTime
		if err = rows.Scan(&t.ID, &t.Ref, &t.AccountID, &t.Amount, &t.Cashback, &t.PromoID, &t.PromoCode,
			&t.PromoBonus, &t.Receipt, &t.Status, &activated, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topup: %w", err)
		}
		if activated.Valid {
			t.ActivatedAt = &activated.Time
		}
		topups = append(topups, &t)
	}
	return topups, rows.Err()
}

func (s *MySql) PromoByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	var p entity.PromoCode
	err := s.ex.QueryRowContext(ctx,
		`SELECT id, code, percent, is_active, created_at FROM promo_codes WHERE LOWER(code) = LOWER(?)`,
		code).Scan(&p.ID, &p.Code, &p.Percent, &p.IsActive, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan promo: %w", err)
	}
	return &p, nil
}

func (s *MySql) PromoUsed(ctx context.Context, accountID, promoID int64) (bool, error) {
	var dummy int
	err := s.ex.QueryRowContext(ctx,
		`SELECT 1 FROM promo_usages WHERE account_id = ? AND promo_id = ?`,
		accountID, promoID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check promo usage: %w", err)
	}
	return true, nil
}

func (s *MySql) CreatePromoUsage(ctx context.Context, accountID, promoID int64) error {
	_, err := s.ex.ExecContext(ctx,
		`INSERT INTO promo_usages (account_id, promo_id) VALUES (?, ?)`, accountID, promoID)
	if err != nil {
		return fmt.Errorf("insert promo usage: %w", err)
	}
	return nil
}

func (s *MySql) CreateNotification(ctx context.Context, n *entity.Notification) error {
	res, err := s.ex.ExecContext(ctx,
		`INSERT INTO notifications (account_id, kind, title, message) VALUES (?, ?, ?, ?)`,
		n.AccountID, n.Kind, n.Title, n.Message)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

func (s *MySql) ListNotifications(ctx context.Context, accountID int64) ([]*entity.Notification, error) {
	rows, err := s.ex.QueryContext(ctx,
		`SELECT id, account_id, kind, title, message, is_read, created_at
		 FROM notifications WHERE account_id = ? ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err = rows.Scan(&n.ID, &n.AccountID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (s *MySql) MarkNotificationsRead(ctx context.Context, accountID int64) error {
	_, err := s.ex.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE account_id = ? AND is_read = 0`, accountID)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
