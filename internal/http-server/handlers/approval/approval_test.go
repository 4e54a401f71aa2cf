package approval

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
	"fondeo/lib/api/response"
)

type fakeCore struct {
	token    string
	topupID  int64
	applied  bool
	approves []int64
	rejects  []int64
	refs     []*entity.MessageRef
}

func (f *fakeCore) VerifyLinkToken(_ context.Context, requestID int64, token string) error {
	if requestID != f.topupID {
		return entity.ErrNotFound
	}
	if token != f.token {
		return entity.ErrInvalidToken
	}
	return nil
}

func (f *fakeCore) ApproveTopUp(_ context.Context, requestID int64, _ entity.ApprovalVia) (bool, error) {
	f.approves = append(f.approves, requestID)
	return f.applied, nil
}

func (f *fakeCore) RejectTopUp(_ context.Context, requestID int64) error {
	f.rejects = append(f.rejects, requestID)
	return nil
}

func (f *fakeCore) RegisterControlRef(_ context.Context, ref *entity.MessageRef) error {
	if ref.TopUpID != f.topupID {
		return entity.ErrNotFound
	}
	f.refs = append(f.refs, ref)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestApproveSignedLink(t *testing.T) {
	core := &fakeCore{token: "good", topupID: 12, applied: true}
	h := Approve(testLogger(), core)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/approve?tx=12&token=good", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode(t, rec)
	if !resp.Success {
		t.Errorf("success = false: %s", resp.StatusMessage)
	}
	if len(core.approves) != 1 || core.approves[0] != 12 {
		t.Errorf("approves = %v, want [12]", core.approves)
	}
}

func TestApproveRejectsBadToken(t *testing.T) {
	core := &fakeCore{token: "good", topupID: 12}
	h := Approve(testLogger(), core)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/approve?tx=12&token=forged", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if len(core.approves) != 0 {
		t.Errorf("approve called despite bad token")
	}
}

func TestApproveUnknownRequest(t *testing.T) {
	core := &fakeCore{token: "good", topupID: 12}
	h := Approve(testLogger(), core)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/approve?tx=99&token=good", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestApproveMalformedTx(t *testing.T) {
	core := &fakeCore{token: "good", topupID: 12}
	h := Approve(testLogger(), core)

	for _, tx := range []string{"", "abc", "-1", "0"} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest("GET", "/approve?tx="+tx+"&token=good", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("tx=%q: status = %d, want 400", tx, rec.Code)
		}
	}
}

func TestRejectSignedLink(t *testing.T) {
	core := &fakeCore{token: "good", topupID: 12}
	h := Reject(testLogger(), core)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/reject?tx=12&token=good", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(core.rejects) != 1 || core.rejects[0] != 12 {
		t.Errorf("rejects = %v, want [12]", core.rejects)
	}
}

func TestRegisterMessage(t *testing.T) {
	core := &fakeCore{topupID: 12}
	h := RegisterMessage(testLogger(), core)

	body := `{"tx": 12, "chat_id": -100123, "message_id": 55}`
	req := httptest.NewRequest("POST", "/register-topup-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if len(core.refs) != 1 || core.refs[0].MessageId != 55 {
		t.Errorf("refs = %+v", core.refs)
	}
}

func TestRegisterMessageUnknownTopUp(t *testing.T) {
	core := &fakeCore{topupID: 12}
	h := RegisterMessage(testLogger(), core)

	body := `{"tx": 99, "chat_id": -100123, "message_id": 55}`
	req := httptest.NewRequest("POST", "/register-topup-message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRegisterMessageMissingFields(t *testing.T) {
	core := &fakeCore{topupID: 12}
	h := RegisterMessage(testLogger(), core)

	req := httptest.NewRequest("POST", "/register-topup-message", strings.NewReader(`{"tx": 12}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
