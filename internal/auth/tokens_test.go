package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	c := NewCodec("test-secret")
	token, err := c.IssueAccess(Identity{ID: "acct-1", Email: "pastor@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("IssueAccess() error: %v", err)
	}

	claims := c.VerifyAccess(token)
	if claims == nil {
		t.Fatal("expected token to verify")
	}
	if claims.Subject != "acct-1" || claims.Role != "admin" || claims.Email != "pastor@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != AccessTTL {
		t.Errorf("lifetime = %v, want %v", got, AccessTTL)
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	secret := []byte("s3cret")
	token, err := Sign(Claims{Role: "admin", RegisteredClaims: registered("acct-1")}, secret, time.Hour, now)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret []byte
		at     time.Time
	}{
		{"empty", "", secret, now},
		{"garbage", "not.a.jwt", secret, now},
		{"wrong secret", token, []byte("other"), now},
		{"tampered", token[:len(token)-2] + "xx", secret, now},
		{"expired", token, secret, now.Add(2 * time.Hour)},
	}
	for _, tt := range tests {
		if claims, ok := Verify(tt.token, tt.secret, tt.at); ok || claims != nil {
			t.Errorf("%s: expected verification to fail", tt.name)
		}
	}
	if _, ok := Verify(token, secret, now.Add(30*time.Minute)); !ok {
		t.Error("expected valid token to verify before expiry")
	}
}

func TestSignRejectsMalformedPayload(t *testing.T) {
	if _, err := Sign(Claims{}, []byte("s"), time.Hour, time.Now()); !errors.Is(err, ErrEncoding) {
		t.Errorf("empty subject: error = %v, want ErrEncoding", err)
	}
	if _, err := Sign(Claims{RegisteredClaims: registered("x")}, []byte("s"), 0, time.Now()); !errors.Is(err, ErrEncoding) {
		t.Errorf("zero ttl: error = %v, want ErrEncoding", err)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	c := NewCodec("test-secret")
	access, _ := c.IssueAccess(Identity{ID: "acct-1", Role: "admin"})
	refresh, _ := c.IssueRefresh("acct-1")

	if c.VerifyRefresh(access) != nil {
		t.Error("access credential accepted as refresh credential")
	}
	if c.VerifyAccess(refresh) != nil {
		t.Error("refresh credential accepted as access credential")
	}
	claims := c.VerifyRefresh(refresh)
	if claims == nil || claims.Subject != "acct-1" || claims.Role != "" || claims.Email != "" {
		t.Fatalf("refresh claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != RefreshTTL {
		t.Errorf("refresh lifetime = %v, want %v", got, RefreshTTL)
	}
}

func TestCookieJarAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	CookieJar{Secure: true}.SetAccess(rec, "tok")
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != AccessCookie || c.Value != "tok" || !c.HttpOnly || !c.Secure ||
		c.SameSite != http.SameSiteLaxMode || c.Path != "/" || c.MaxAge != int(AccessTTL.Seconds()) {
		t.Errorf("unexpected cookie: %+v", c)
	}

	rec = httptest.NewRecorder()
	CookieJar{}.Clear(rec)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 || c.Secure {
			t.Errorf("cleared cookie %s: %+v", c.Name, c)
		}
	}
}

func TestReadCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", `theme=dark; auth-token="abc.def"; refresh-token=`)
	if got := ReadCookie(req, AccessCookie); got != "abc.def" {
		t.Errorf("ReadCookie(auth-token) = %q", got)
	}
	if got := ReadCookie(req, RefreshCookie); got != "" {
		t.Errorf("ReadCookie(refresh-token) = %q, want empty", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "xyz"})
	if got := ReadCookie(req, AccessCookie); got != "xyz" {
		t.Errorf("ReadCookie() = %q", got)
	}
}

func TestSessionReaderIgnoresBadCredentials(t *testing.T) {
	c := NewCodec("test-secret")
	reader := SessionReader{Codec: c}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "forged"})
	if reader.Decode(req) != nil {
		t.Error("forged credential produced a session")
	}

	token, _ := c.IssueAccess(Identity{ID: "acct-9", Role: "editor"})
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	s := reader.Decode(req)
	if s == nil || s.SubjectID != "acct-9" || !strings.EqualFold(s.Role, "editor") {
		t.Errorf("session = %+v", s)
	}
}
