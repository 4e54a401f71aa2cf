package ledger_test

import (
	"context"
	"errors"
	"testing"

	"fondeo/entity"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesAccount(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(store)

	acc, err := l.Register(context.Background(), &entity.RegisterParams{
		Phone:    "+10000000001",
		Password: "correct horse",
		FullName: "Ada",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acc.ID == 0 {
		t.Error("account id not assigned")
	}
	if acc.Token == "" {
		t.Error("api token not issued")
	}
	if len(acc.ReferralCode) != 8 {
		t.Errorf("referral code %q, want 8 hex chars", acc.ReferralCode)
	}
	if !acc.IsActive {
		t.Error("account not active")
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("correct horse")) != nil {
		t.Error("stored hash does not match password")
	}
	if !acc.Balance.IsZero() {
		t.Errorf("initial balance = %s, want 0", acc.Balance)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(store)

	params := &entity.RegisterParams{Phone: "+10000000001", Password: "correct horse"}
	if _, err := l.Register(context.Background(), params); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := l.Register(context.Background(), params)
	if !errors.Is(err, entity.ErrPhoneTaken) {
		t.Errorf("err = %v, want ErrPhoneTaken", err)
	}
}

func TestRegisterReferralBonus(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(store)

	referrer, err := l.Register(context.Background(), &entity.RegisterParams{
		Phone:    "+10000000001",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register referrer: %v", err)
	}

	friend, err := l.Register(context.Background(), &entity.RegisterParams{
		Phone:        "+10000000002",
		Password:     "correct horse",
		ReferralCode: referrer.ReferralCode,
	})
	if err != nil {
		t.Fatalf("register friend: %v", err)
	}
	if friend.ReferredBy != referrer.ID {
		t.Errorf("referred_by = %d, want %d", friend.ReferredBy, referrer.ID)
	}
	if got := balanceOf(t, store, referrer.ID); !got.Equal(dec("1000.00")) {
		t.Errorf("referrer balance = %s, want 1000.00", got)
	}

	// Friend got nothing.
	if !balanceOf(t, store, friend.ID).IsZero() {
		t.Error("referred account was credited")
	}

	count, err := l.Profile(context.Background(), referrer.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if count.ReferralsCount != 1 {
		t.Errorf("referrals count = %d, want 1", count.ReferralsCount)
	}
}

func TestRegisterInvalidReferralCodeIgnored(t *testing.T) {
	store := newMemStore()
	l := newTestLedger(store)

	acc, err := l.Register(context.Background(), &entity.RegisterParams{
		Phone:        "+10000000001",
		Password:     "correct horse",
		ReferralCode: "NOPE1234",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acc.ReferredBy != 0 {
		t.Errorf("referred_by = %d, want 0", acc.ReferredBy)
	}
}
