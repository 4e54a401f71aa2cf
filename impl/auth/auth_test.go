package auth

import (
	"context"
	"errors"
	"testing"

	"fondeo/entity"

	"golang.org/x/crypto/bcrypt"
)

type fakeDB struct {
	accounts []*entity.Account
}

func (f *fakeDB) AccountByToken(_ context.Context, token string) (*entity.Account, error) {
	for _, a := range f.accounts {
		if a.Token == token {
			return a, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (f *fakeDB) AccountByPhone(_ context.Context, phone string) (*entity.Account, error) {
	for _, a := range f.accounts {
		if a.Phone == phone {
			return a, nil
		}
	}
	return nil, entity.ErrNotFound
}

func testAccount(t *testing.T, active bool) *entity.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &entity.Account{
		ID:           1,
		Phone:        "+10000000001",
		PasswordHash: string(hash),
		Token:        "tok-1",
		IsActive:     active,
	}
}

func TestLogin(t *testing.T) {
	a := New(&fakeDB{accounts: []*entity.Account{testAccount(t, true)}})

	acc, err := a.Login(context.Background(), "+10000000001", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if acc.Token != "tok-1" {
		t.Errorf("token = %q", acc.Token)
	}

	// Wrong password and unknown phone are indistinguishable.
	_, err = a.Login(context.Background(), "+10000000001", "wrong")
	if !errors.Is(err, entity.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	_, err = a.Login(context.Background(), "+19999999999", "correct horse")
	if !errors.Is(err, entity.ErrInvalidCredentials) {
		t.Errorf("unknown phone: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	a := New(&fakeDB{accounts: []*entity.Account{testAccount(t, false)}})

	_, err := a.Login(context.Background(), "+10000000001", "correct horse")
	if !errors.Is(err, entity.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAccountByToken(t *testing.T) {
	active := testAccount(t, true)
	inactive := testAccount(t, false)
	inactive.ID = 2
	inactive.Phone = "+10000000002"
	inactive.Token = "tok-2"

	a := New(&fakeDB{accounts: []*entity.Account{active, inactive}})

	acc, err := a.AccountByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if acc.ID != 1 {
		t.Errorf("account id = %d, want 1", acc.ID)
	}

	if _, err = a.AccountByToken(context.Background(), "tok-2"); !errors.Is(err, entity.ErrInvalidCredentials) {
		t.Errorf("inactive: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err = a.AccountByToken(context.Background(), "nope"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("unknown: err = %v, want ErrNotFound", err)
	}
}
