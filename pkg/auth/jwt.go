package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. A token minted with one scope is rejected by operations
// expecting the other.
const (
	ScopeAccess  = "access"
	ScopeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrScopeMismatch = errors.New("token scope mismatch")
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService signs and validates scoped access/refresh tokens with a
// process-wide secret. The secret is injected so tests can use distinct keys.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// Issue signs a token for the given subject (account email) and scope.
func (s *TokenService) Issue(subject, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueAccess and IssueRefresh use the configured lifetimes.
func (s *TokenService) IssueAccess(subject string) (string, error) {
	return s.Issue(subject, ScopeAccess, s.accessTTL)
}

func (s *TokenService) IssueRefresh(subject string) (string, error) {
	return s.Issue(subject, ScopeRefresh, s.refreshTTL)
}

// Validate verifies signature and expiry, then checks the scope. The returned
// errors stay distinct for logging and tests; callers translate all of them
// to a single unauthorized response.
func (s *TokenService) Validate(tokenString, expectedScope string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Scope != expectedScope {
		return "", ErrScopeMismatch
	}
	return claims.Subject, nil
}
