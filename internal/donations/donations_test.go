package donations

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/payments"
	"github.com/gracecity/church-backend/internal/store"
)

const secret = "sk_test_secret"

type fakeProvider struct {
	calls     []string
	initErr   error
	verify    payments.Verification
	cancelErr error
}

func (f *fakeProvider) InitializeTransaction(_ context.Context, req payments.InitRequest) (payments.Checkout, error) {
	f.calls = append(f.calls, "initialize")
	if f.initErr != nil {
		return payments.Checkout{}, f.initErr
	}
	return payments.Checkout{AuthorizationURL: "https://checkout.test/" + req.Reference, Reference: req.Reference}, nil
}

func (f *fakeProvider) VerifyTransaction(_ context.Context, ref string) (payments.Verification, error) {
	f.calls = append(f.calls, "verify")
	v := f.verify
	v.Reference = ref
	return v, nil
}

func (f *fakeProvider) Cancel(context.Context, string) error {
	f.calls = append(f.calls, "cancel")
	return f.cancelErr
}

func (f *fakeProvider) Refund(_ context.Context, ref string, amount int64) (payments.Refund, error) {
	f.calls = append(f.calls, "refund")
	return payments.Refund{Reference: ref, Status: "pending", Amount: amount}, nil
}

// newModule runs against an in-memory store standing in for the database.
func newModule(p payments.Provider) (*Module, *store.MemoryStore[Donation]) {
	mem := store.NewMemoryStore[Donation]()
	return &Module{
		open:          func(context.Context) (store.Store[Donation], error) { return mem, nil },
		provider:      p,
		webhookSecret: secret,
		clock:         func() time.Time { return time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC) },
	}, mem
}

func do(h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

// TestCreate_BankTransfer never contacts the payment provider.
func TestCreate_BankTransfer(t *testing.T) {
	p := &fakeProvider{}
	m, mem := newModule(p)

	rec := do(m.PublicRoutes(), http.MethodPost, "/",
		`{"donorName":"Ada","email":"ada@example.com","amount":500000,"purpose":"Tithe","paymentChannel":"bank_transfer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["paymentChannel"] != "manual" {
		t.Errorf("paymentChannel = %v", body["paymentChannel"])
	}
	if ref, _ := body["reference"].(string); !strings.HasPrefix(ref, "GC-") {
		t.Errorf("reference = %v", body["reference"])
	}
	if _, ok := body["authorizationUrl"]; ok {
		t.Error("manual donation must not carry an authorizationUrl")
	}
	if d := body["donation"].(map[string]any); d["authorizationUrl"] != nil || d["status"] != StatusPending {
		t.Errorf("donation = %v", d)
	}
	if len(p.calls) != 0 {
		t.Fatalf("provider called: %v", p.calls)
	}
	if mem.Len() != 1 {
		t.Fatalf("stored %d donations", mem.Len())
	}
}

func TestCreate_Card(t *testing.T) {
	p := &fakeProvider{}
	m, _ := newModule(p)

	rec := do(m.PublicRoutes(), http.MethodPost, "/", `{"donorName":"Ada","email":"Ada@Example.com","amount":20000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	ref := body["reference"].(string)
	if body["authorizationUrl"] != "https://checkout.test/"+ref || body["paymentChannel"] != ChannelPaystack {
		t.Errorf("body = %v", body)
	}
	d := body["donation"].(map[string]any)
	if d["email"] != "ada@example.com" || d["currency"] != DefaultCurrency {
		t.Errorf("donation = %v", d)
	}
}

func TestCreate_ProviderDown(t *testing.T) {
	m, mem := newModule(&fakeProvider{initErr: errors.New("dial tcp: timeout")})

	rec := do(m.PublicRoutes(), http.MethodPost, "/", `{"donorName":"Ada","email":"ada@example.com","amount":20000}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	items, _, _ := mem.List(context.Background(), store.Query[Donation]{})
	if len(items) != 1 || items[0].Status != StatusFailed {
		t.Fatalf("stored = %+v", items)
	}
}

func TestCreate_Validation(t *testing.T) {
	m, _ := newModule(&fakeProvider{})
	for _, body := range []string{
		`{"email":"ada@example.com","amount":100}`,
		`{"donorName":"Ada","email":"not-an-email","amount":100}`,
		`{"donorName":"Ada","email":"ada@example.com","amount":0}`,
		`{"donorName":"Ada","email":"ada@example.com","amount":100,"paymentChannel":"crypto"}`,
	} {
		if rec := do(m.PublicRoutes(), http.MethodPost, "/", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
}

// TestDatabaseUnreachable answers 503 instead of falling back.
func TestDatabaseUnreachable(t *testing.T) {
	h, _ := db.Open("", time.Second)
	p := &fakeProvider{}
	m := Init(h, p, secret)

	rec := do(m.PublicRoutes(), http.MethodPost, "/",
		`{"donorName":"Ada","email":"ada@example.com","amount":100,"paymentChannel":"bank_transfer"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("create status = %d, want 503", rec.Code)
	}
	if rec := do(m.AdminRoutes(), http.MethodGet, "/", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("list status = %d, want 503", rec.Code)
	}
	if len(p.calls) != 0 {
		t.Fatalf("provider called: %v", p.calls)
	}
}

func seedPending(t *testing.T, mem *store.MemoryStore[Donation], channel string) Donation {
	t.Helper()
	d := Donation{DonorName: "Ada", Email: "ada@example.com", Phone: "+2348030000000", Message: "Building fund", Amount: 20000, Currency: "NGN",
		PaymentChannel: channel, Reference: payments.NewReference(), Status: StatusPending}
	if err := mem.Create(context.Background(), &d); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestWebhook(t *testing.T) {
	m, mem := newModule(&fakeProvider{})
	d := seedPending(t, mem, ChannelPaystack)
	body := `{"event":"charge.success","data":{"id":991,"reference":"` + d.Reference + `","status":"success","authorization":{"last4":"4081"}}}`
	sig := hex.EncodeToString(payments.Sign([]byte(body), secret))

	rec := do(m.PublicRoutes(), http.MethodPost, "/webhook", body, payments.SignatureHeader, "deadbeef")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature status = %d, want 401", rec.Code)
	}
	if got, _ := mem.Get(context.Background(), d.ID); got.Status != StatusPending {
		t.Fatalf("bad signature changed status to %s", got.Status)
	}

	rec = do(m.PublicRoutes(), http.MethodPost, "/webhook", body, payments.SignatureHeader, sig)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got, _ := mem.Get(context.Background(), d.ID)
	if got.Status != StatusSuccess || got.TransactionID != "991" || got.CardLast4 != "4081" || got.PaidAt == nil {
		t.Fatalf("donation = %+v", got)
	}

	failed := `{"event":"charge.failed","data":{"reference":"` + d.Reference + `"}}`
	do(m.PublicRoutes(), http.MethodPost, "/webhook", failed, payments.SignatureHeader, hex.EncodeToString(payments.Sign([]byte(failed), secret)))
	if got, _ := mem.Get(context.Background(), d.ID); got.Status != StatusSuccess {
		t.Fatalf("late charge.failed overrode success: %s", got.Status)
	}

	unknown := `{"event":"charge.success","data":{"reference":"GC-UNKNOWN"}}`
	rec = do(m.PublicRoutes(), http.MethodPost, "/webhook", unknown, payments.SignatureHeader, hex.EncodeToString(payments.Sign([]byte(unknown), secret)))
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown reference status = %d, want 200", rec.Code)
	}
}

func TestVerify(t *testing.T) {
	p := &fakeProvider{verify: payments.Verification{Status: payments.StatusSuccess, TransactionID: "77", CardLast4: "1111"}}
	m, mem := newModule(p)
	d := seedPending(t, mem, ChannelPaystack)

	rec := do(m.PublicRoutes(), http.MethodGet, "/verify/"+d.Reference, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["status"] != StatusSuccess {
		t.Fatalf("body = %v", body)
	}
	receipt := body["donation"].(map[string]any)
	for _, key := range []string{"email", "phone", "donorName", "message", "transactionId", "cardLast4"} {
		if _, ok := receipt[key]; ok {
			t.Fatalf("public verify exposes %q: %v", key, receipt)
		}
	}
	if receipt["reference"] != d.Reference || receipt["paidAt"] == nil {
		t.Fatalf("receipt = %v", receipt)
	}
	stored, _ := mem.Get(context.Background(), d.ID)
	if stored.Email == "" || stored.CardLast4 != "1111" {
		t.Fatalf("stored donation lost donor fields: %+v", stored)
	}

	manual := seedPending(t, mem, ChannelManual)
	p.calls = nil
	do(m.PublicRoutes(), http.MethodGet, "/verify/"+manual.Reference, "")
	if len(p.calls) != 0 {
		t.Fatalf("manual donation verified with provider: %v", p.calls)
	}

	if rec := do(m.PublicRoutes(), http.MethodGet, "/verify/GC-NOPE", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown reference status = %d, want 404", rec.Code)
	}
}

func TestAdminLifecycle(t *testing.T) {
	p := &fakeProvider{}
	m, mem := newModule(p)
	admin := m.AdminRoutes()

	manual := seedPending(t, mem, ChannelManual)
	rec := do(admin, http.MethodPatch, "/"+manual.ID+"/status", `{"status":"success"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(admin, http.MethodPost, "/"+manual.ID+"/refund", "")
	if rec.Code != http.StatusOK || len(p.calls) != 0 {
		t.Fatalf("manual refund: %d calls=%v", rec.Code, p.calls)
	}

	card := seedPending(t, mem, ChannelPaystack)
	if rec := do(admin, http.MethodPost, "/"+card.ID+"/refund", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("refund of pending donation = %d, want 400", rec.Code)
	}
	p.cancelErr = payments.ErrNotCancellable
	if rec := do(admin, http.MethodPost, "/"+card.ID+"/cancel", ""); rec.Code != http.StatusConflict {
		t.Fatalf("cancel of paid checkout = %d, want 409", rec.Code)
	}
	p.cancelErr = nil
	if rec := do(admin, http.MethodPost, "/"+card.ID+"/cancel", ""); rec.Code != http.StatusOK {
		t.Fatalf("cancel = %d", rec.Code)
	}
	if rec := do(admin, http.MethodPatch, "/"+card.ID+"/status", `{"status":"lost"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d, want 400", rec.Code)
	}

	rec = do(admin, http.MethodGet, "/?channel=bank_transfer", "")
	var list struct {
		Donations []Donation `json:"donations"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Donations) != 1 || list.Donations[0].Status != StatusRefunded {
		t.Fatalf("manual listing = %+v", list.Donations)
	}
}

func TestSummarize(t *testing.T) {
	sum := summarize([]Donation{
		{Amount: 1000, Currency: "NGN", Status: StatusSuccess, Purpose: "tithe", PaymentChannel: ChannelPaystack},
		{Amount: 2500, Currency: "NGN", Status: StatusSuccess, PaymentChannel: ChannelManual},
		{Amount: 9999, Currency: "NGN", Status: StatusFailed, PaymentChannel: ChannelPaystack},
	})
	if sum.Count != 3 || sum.SuccessCount != 2 || sum.Raised["NGN"] != 3500 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.ByPurpose["general"] != 2500 || sum.ByChannel[ChannelPaystack] != 1000 || sum.TotalsByStatus[StatusFailed] != 1 {
		t.Fatalf("summary breakdown = %+v", sum)
	}
}
