package wallet

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fondeo/entity"
	"fondeo/lib/api/cont"
	"fondeo/lib/api/response"
)

type fakeCore struct {
	err    error
	ticket *entity.TopUpTicket
	gotID  int64
	got    *entity.TopUpParams
}

func (f *fakeCore) RequestTopUp(_ context.Context, accountID int64, p *entity.TopUpParams) (*entity.TopUpTicket, error) {
	f.gotID = accountID
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return f.ticket, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(core *fakeCore, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/v1/wallet/topup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(cont.PutAccount(req.Context(), &entity.Account{ID: 3, Phone: "+10000000001"}))
	rec := httptest.NewRecorder()
	TopUp(testLogger(), core)(rec, req)
	return rec
}

func TestTopUpCreated(t *testing.T) {
	core := &fakeCore{ticket: &entity.TopUpTicket{TransactionID: 8, Status: entity.TopUpPending, Token: "tok"}}

	rec := post(core, `{"amount": "250.00", "promo_code": "SPRING"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if core.gotID != 3 {
		t.Errorf("account id = %d, want 3", core.gotID)
	}
	if core.got.PromoCode != "SPRING" {
		t.Errorf("promo code = %q", core.got.PromoCode)
	}

	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Errorf("success = false: %s", resp.StatusMessage)
	}
}

func TestTopUpErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{entity.ErrInvalidAmount, http.StatusBadRequest},
		{entity.ErrUnknownPromo, http.StatusBadRequest},
		{entity.ErrPromoAlreadyUsed, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := post(&fakeCore{err: tt.err}, `{"amount": "250.00"}`)
		if rec.Code != tt.code {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.code)
		}
	}
}

func TestTopUpRejectsMissingAmount(t *testing.T) {
	core := &fakeCore{}
	rec := post(core, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if core.got != nil {
		t.Error("core called for invalid body")
	}
}
