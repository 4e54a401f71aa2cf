package cont

import (
	"context"
	"testing"

	"fondeo/entity"
)

func TestPutGetAccount(t *testing.T) {
	ctx := PutAccount(context.Background(), &entity.Account{ID: 42, FullName: "Dana"})

	got := GetAccount(ctx)
	if got.ID != 42 || got.FullName != "Dana" {
		t.Errorf("got account %+v", got)
	}
}

func TestGetAccountMissing(t *testing.T) {
	got := GetAccount(context.Background())
	if got == nil {
		t.Fatal("expected zero account, got nil")
	}
	if got.ID != 0 {
		t.Errorf("expected zero account, got id %d", got.ID)
	}
}
