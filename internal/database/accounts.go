package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fondeo/entity"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, phone_number, full_name, password_hash, token, balance,
	COALESCE(referral_code, ''), referred_by, is_investor, is_subscribed, is_staff, is_active,
	telegram_id, created_at`

func scanAccount(row *sql.Row) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(&a.ID, &a.Phone, &a.FullName, &a.PasswordHash, &a.Token, &a.Balance,
		&a.ReferralCode, &a.ReferredBy, &a.IsInvestor, &a.IsSubscribed, &a.IsStaff, &a.IsActive,
		&a.TelegramId, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func (s *MySql) CreateAccount(ctx context.Context, a *entity.Account) error {
	res, err := s.ex.ExecContext(ctx,
		`INSERT INTO accounts (phone_number, full_name, password_hash, token, balance)
		 VALUES (?, ?, ?, ?, 0.00)`,
		a.Phone, a.FullName, a.PasswordHash, a.Token)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return entity.ErrPhoneTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	a.Balance = decimal.Zero
	return nil
}

func (s *MySql) AccountByID(ctx context.Context, id int64) (*entity.Account, error) {
	return scanAccount(s.ex.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (s *MySql) AccountByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	return scanAccount(s.ex.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE phone_number = ?`, phone))
}

func (s *MySql) AccountByToken(ctx context.Context, token string) (*entity.Account, error) {
	if token == "" {
		return nil, entity.ErrNotFound
	}
	return scanAccount(s.ex.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE token = ?`, token))
}

func (s *MySql) AccountByReferral(ctx context.Context, code string) (*entity.Account, error) {
	return scanAccount(s.ex.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE referral_code = ?`, strings.ToUpper(code)))
}

func (s *MySql) AccountForUpdate(ctx context.Context, id int64) (*entity.Account, error) {
	return scanAccount(s.ex.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? FOR UPDATE`, id))
}

func (s *MySql) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	_, err := s.ex.ExecContext(ctx,
		`UPDATE accounts SET balance = ? WHERE id = ?`, balance.StringFixed(2), id)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

func (s *MySql) SetReferralCode(ctx context.Context, id int64, code string) error {
	_, err := s.ex.ExecContext(ctx,
		`UPDATE accounts SET referral_code = ? WHERE id = ?`, strings.ToUpper(code), id)
	if err != nil {
		return fmt.Errorf("set referral code: %w", err)
	}
	return nil
}

// SetReferredBy is set-once: an account that already has a referrer
// keeps it.
func (s *MySql) SetReferredBy(ctx context.Context, id, referrerID int64) error {
	res, err := s.ex.ExecContext(ctx,
		`UPDATE accounts SET referred_by = ? WHERE id = ? AND referred_by = 0`, referrerID, id)
	if err != nil {
		return fmt.Errorf("set referred_by: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("referrer already set for account %d", id)
	}
	return nil
}

func (s *MySql) CountReferrals(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := s.ex.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE referred_by = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count referrals: %w", err)
	}
	return count, nil
}
