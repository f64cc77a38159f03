package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Type  string `json:"type"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for the principal.
func (m *TokenManager) Issue(p Principal) (string, error) {
	now := m.now()
	claims := Claims{
		Type: p.Audience(),
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{p.Audience()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	switch v := p.(type) {
	case StaffPrincipal:
		claims.ID = v.StaffID
		claims.Email = v.Email
		claims.Role = v.Role
		claims.Name = v.Name
	case CustomerPrincipal:
		claims.ID = v.CustomerID
		claims.Email = v.Email
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Authenticate parses an Authorization header value.
func (m *TokenManager) Authenticate(header string) (Principal, error) {
	if strings.TrimSpace(header) == "" {
		return nil, fail(Missing, nil)
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, fail(Malformed, errors.New("bearer token not found"))
	}
	return m.Parse(strings.TrimSpace(token))
}

func (m *TokenManager) Parse(tokenString string) (Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, classify(err)
	}
	// The audience must name the same principal type as the type claim.
	if !slices.Contains(claims.Audience, claims.Type) {
		return nil, fail(WrongAudience, errors.New("audience does not match principal type "+claims.Type))
	}

	switch claims.Type {
	case AudienceStaff:
		return StaffPrincipal{StaffID: claims.ID, Role: claims.Role, Email: claims.Email, Name: claims.Name}, nil
	case AudienceCustomer:
		return CustomerPrincipal{CustomerID: claims.ID, Email: claims.Email}, nil
	default:
		return nil, fail(WrongAudience, errors.New("unknown principal type "+claims.Type))
	}
}

func classify(err error) *Failure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fail(Expired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fail(InvalidSignature, err)
	default:
		return fail(Malformed, err)
	}
}
