package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fondeo/entity"
	"fondeo/lib/sl"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Register creates an account, generates its referral code and, if a
// valid code of another account was supplied, credits that account the
// fixed referral bonus exactly once. An invalid or self referral code
// is ignored: registration still succeeds.
func (l *Ledger) Register(ctx context.Context, p *entity.RegisterParams) (*entity.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &entity.Account{
		Phone:        strings.TrimSpace(p.Phone),
		FullName:     strings.TrimSpace(p.FullName),
		PasswordHash: string(hash),
		Token:        uuid.NewString(),
		IsActive:     true,
	}
	if err = l.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	if err = l.assignReferralCode(ctx, account); err != nil {
		l.log.Warn("assign referral code", slog.Int64("account_id", account.ID), sl.Err(err))
	}

	if code := strings.TrimSpace(p.ReferralCode); code != "" {
		l.applyReferral(ctx, account, code)
	}
	return account, nil
}

// assignReferralCode retries against the uniqueness constraint until a
// free 8-hex value is found.
func (l *Ledger) assignReferralCode(ctx context.Context, account *entity.Account) error {
	for attempt := 0; attempt < 10; attempt++ {
		code := NewReferralCode()
		_, err := l.store.AccountByReferral(ctx, code)
		if err == nil {
			continue // taken
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return err
		}
		if err = l.store.SetReferralCode(ctx, account.ID, code); err != nil {
			continue // lost the race, retry with a fresh value
		}
		account.ReferralCode = code
		return nil
	}
	return fmt.Errorf("no free referral code after retries")
}

// applyReferral credits the referrer and permanently marks who referred
// the new account. Failures only lose the bonus, never the
// registration.
func (l *Ledger) applyReferral(ctx context.Context, account *entity.Account, code string) {
	referrer, err := l.store.AccountByReferral(ctx, code)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			l.log.Warn("lookup referrer", sl.Err(err))
		}
		return
	}
	if referrer.ID == account.ID {
		return
	}

	err = l.store.InTx(ctx, func(s Store) error {
		if err := s.SetReferredBy(ctx, account.ID, referrer.ID); err != nil {
			return fmt.Errorf("set referred_by: %w", err)
		}
		locked, err := s.AccountForUpdate(ctx, referrer.ID)
		if err != nil {
			return fmt.Errorf("lock referrer: %w", err)
		}
		newBalance := round2(locked.Balance.Add(l.conf.ReferralBonus))
		if err = s.UpdateBalance(ctx, referrer.ID, newBalance); err != nil {
			return fmt.Errorf("credit referrer: %w", err)
		}
		return s.CreateNotification(ctx, &entity.Notification{
			AccountID: referrer.ID,
			Kind:      entity.NotifySuccess,
			Title:     "Referral bonus",
			Message:   fmt.Sprintf("A friend signed up with your code. +%s credited.", l.conf.ReferralBonus.StringFixed(2)),
		})
	})
	if err != nil {
		l.log.Warn("apply referral",
			slog.Int64("account_id", account.ID),
			slog.Int64("referrer_id", referrer.ID),
			sl.Err(err),
		)
		return
	}
	account.ReferredBy = referrer.ID
	l.log.Info("referral bonus credited",
		slog.Int64("referrer_id", referrer.ID),
		slog.String("bonus", l.conf.ReferralBonus.StringFixed(2)),
	)
}

// Profile returns the /auth/me view.
func (l *Ledger) Profile(ctx context.Context, accountID int64) (*entity.Profile, error) {
	account, err := l.store.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	count, err := l.store.CountReferrals(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	return &entity.Profile{Account: *account, ReferralsCount: count}, nil
}
