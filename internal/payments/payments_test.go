package payments

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("sk_test_123", srv.URL, "https://church.example/give/thanks")
}

// TestInitializeTransaction sends the amount in minor units with the bearer key.
func TestInitializeTransaction(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("Authorization = %q", got)
		}
		var body initializeBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Amount != 500000 || body.Email != "ada@example.com" || body.CallbackURL == "" {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"` + body.Reference + `"}}`))
	})

	out, err := c.InitializeTransaction(context.Background(), InitRequest{
		Donor:     Donor{Name: "Ada", Email: "ada@example.com"},
		Amount:    500000,
		Currency:  "NGN",
		Reference: "GC-TEST",
	})
	if err != nil {
		t.Fatalf("InitializeTransaction() error: %v", err)
	}
	if out.AuthorizationURL != "https://checkout.paystack.com/abc" || out.Reference != "GC-TEST" {
		t.Errorf("checkout = %+v", out)
	}
}

func TestVerifyTransaction(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/GC-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"id":4099260516,"status":"success","reference":"GC-1","amount":20000,"currency":"NGN","channel":"card","paid_at":"2025-03-01T10:00:00.000Z","authorization":{"last4":"4081"}}}`))
	})

	v, err := c.VerifyTransaction(context.Background(), "GC-1")
	if err != nil {
		t.Fatalf("VerifyTransaction() error: %v", err)
	}
	if v.Status != StatusSuccess || v.TransactionID != "4099260516" || v.CardLast4 != "4081" || v.PaidAt == nil {
		t.Errorf("verification = %+v", v)
	}
}

func TestCancelRefusesPaidTransaction(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"id":1,"status":"success","reference":"GC-1"}}`))
	})
	if err := c.Cancel(context.Background(), "GC-1"); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("Cancel() error = %v, want ErrNotCancellable", err)
	}
}

func TestProviderErrorSurfacesMessage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	})
	_, err := c.VerifyTransaction(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "Transaction reference not found") {
		t.Fatalf("error = %v", err)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "", "")
	if _, err := c.Refund(context.Background(), "GC-1", 0); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("error = %v, want ErrNotConfigured", err)
	}
}

// TestConstructEvent accepts only bodies signed with the shared secret.
func TestConstructEvent(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"id":12,"reference":"GC-9","status":"success","authorization":{"last4":"1234"}}}`)
	good := hex.EncodeToString(Sign(body, "sk_test_123"))

	ev, err := ConstructEvent(body, good, "sk_test_123")
	if err != nil {
		t.Fatalf("ConstructEvent() error: %v", err)
	}
	data, err := ev.Decode()
	if err != nil || ev.Type != EventChargeSuccess || data.Ref() != "GC-9" || data.Authorization.Last4 != "1234" {
		t.Fatalf("event = %+v data = %+v err = %v", ev, data, err)
	}

	for _, tc := range []struct{ name, sig, secret string }{
		{"wrong secret", good, "other"},
		{"tampered", hex.EncodeToString(Sign([]byte(`{}`), "sk_test_123")), "sk_test_123"},
		{"not hex", "zz", "sk_test_123"},
		{"empty", "", "sk_test_123"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ConstructEvent(body, tc.sig, tc.secret); !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestNewReference(t *testing.T) {
	a, b := NewReference(), NewReference()
	if !strings.HasPrefix(a, "GC-") || len(a) != 3+26 {
		t.Fatalf("reference = %q", a)
	}
	if a >= b {
		t.Errorf("references not increasing: %q then %q", a, b)
	}
}
