package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gracecity/church-backend/internal/utils"
)

const (
	AccessTTL  = 7 * 24 * time.Hour
	RefreshTTL = 30 * 24 * time.Hour

	// Refresh credentials are signed with the base secret plus this suffix. Both keys derive
	// from the same root secret, so this separates token kinds rather than trust domains.
	refreshSecretSuffix = "_refresh"
	kindRefresh         = "refresh"
)

// ErrEncoding is returned by Sign when the payload cannot be turned into a credential.
var ErrEncoding = errors.New("auth: malformed credential payload")

// Claims is the signed payload of both credential kinds. Refresh credentials carry only
// the subject and TokenKind.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenKind string `json:"tokenKind,omitempty"`
	jwt.RegisteredClaims
}

// Session converts verified access claims into the request session.
func (c *Claims) Session() *utils.Session {
	s := &utils.Session{SubjectID: c.Subject, Email: c.Email, Role: c.Role}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

// Sign issues an HS256 credential for claims that expires ttl after now.
func Sign(claims Claims, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if claims.Subject == "" || ttl <= 0 || len(secret) == 0 {
		return "", ErrEncoding
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Join(ErrEncoding, err)
	}
	return token, nil
}

// Verify returns the claims of a well-formed, correctly signed, unexpired credential and
// false for anything else. Callers treat false as "no session".
func Verify(token string, secret []byte, now time.Time) (*Claims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}

// Codec binds Sign/Verify to the process secret and the two credential lifetimes.
type Codec struct {
	secret        []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{
		secret:        []byte(secret),
		refreshSecret: []byte(secret + refreshSecretSuffix),
		now:           time.Now,
	}
}

func (c *Codec) IssueAccess(id Identity) (string, error) {
	return Sign(Claims{
		Email:            id.Email,
		Role:             id.Role,
		RegisteredClaims: registered(id.ID),
	}, c.secret, AccessTTL, c.now())
}

func (c *Codec) IssueRefresh(subject string) (string, error) {
	return Sign(Claims{
		TokenKind:        kindRefresh,
		RegisteredClaims: registered(subject),
	}, c.refreshSecret, RefreshTTL, c.now())
}

// VerifyAccess returns nil for anything but a valid access credential.
func (c *Codec) VerifyAccess(token string) *Claims {
	claims, ok := Verify(token, c.secret, c.now())
	if !ok || claims.TokenKind == kindRefresh {
		return nil
	}
	return claims
}

// VerifyRefresh returns nil for anything but a valid refresh credential.
func (c *Codec) VerifyRefresh(token string) *Claims {
	claims, ok := Verify(token, c.refreshSecret, c.now())
	if !ok || claims.TokenKind != kindRefresh {
		return nil
	}
	return claims
}

func registered(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: subject}
}
