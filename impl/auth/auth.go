package auth

import (
	"context"
	"errors"
	"fmt"

	"fondeo/entity"

	"golang.org/x/crypto/bcrypt"
)

type Database interface {
	AccountByToken(ctx context.Context, token string) (*entity.Account, error)
	AccountByPhone(ctx context.Context, phone string) (*entity.Account, error)
}

type Auth struct {
	db Database
}

func New(db Database) *Auth {
	return &Auth{db: db}
}

func (a *Auth) AccountByToken(ctx context.Context, token string) (*entity.Account, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	account, err := a.db.AccountByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, entity.ErrInvalidCredentials
	}
	return account, nil
}

// Login checks phone + password and returns the account with its API
// token. A wrong phone and a wrong password are indistinguishable to
// the caller.
func (a *Auth) Login(ctx context.Context, phone, password string) (*entity.Account, error) {
	account, err := a.db.AccountByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, entity.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, entity.ErrInvalidCredentials
	}
	return account, nil
}
