package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenTTL is the validity window applied when the caller does not
// override it: 7 days, matching the tokens already in circulation.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService mints and verifies HS256 bearer tokens. Verification is a
// pure function of the token string and the signing key; it performs no I/O.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenService creates a TokenService. A zero ttl falls back to
// DefaultTokenTTL. A missing signing key is a deployment misconfiguration,
// not a runtime error.
func NewTokenService(signingKey []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
	}
}

// TTL returns the configured validity window
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Generate mints a token for the identity using the default TTL
func (ts *TokenService) Generate(identity Identity) (string, error) {
	return ts.GenerateExpiring(identity, ts.ttl)
}

// GenerateExpiring mints a token with an explicit validity window
func (ts *TokenService) GenerateExpiring(identity Identity, ttl time.Duration) (string, error) {
	if identity == nil {
		return "", errors.New("identity is required", errors.CategoryBadInput)
	}
	if ttl <= 0 {
		ttl = ts.ttl
	}

	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    identity.Email(),
		UserRole: identity.Role(),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs an arbitrary claim set using the configured signing key.
func (ts *TokenService) SignClaims(claims *Claims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies a token string. It fails with an Unauthorized
// error when the signature is invalid, the envelope is malformed, the expiry
// has passed, or the subject is absent.
func (ts *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.UserID() == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
