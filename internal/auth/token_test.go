package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(now time.Time) *TokenManager {
	m := NewTokenManager("test-secret", 24*time.Hour)
	m.now = func() time.Time { return now }
	return m
}

func TestIssueAndParseRoundTripsPrincipal(t *testing.T) {
	m := newTestManager(time.Now())

	staffToken, err := m.Issue(StaffPrincipal{StaffID: 7, Role: "Manager", Email: "boss@example.com", Name: "Boss"})
	require.NoError(t, err)
	p, err := m.Authenticate("Bearer " + staffToken)
	require.NoError(t, err)
	staff, ok := p.(StaffPrincipal)
	require.True(t, ok)
	assert.Equal(t, uint(7), staff.StaffID)
	assert.True(t, staff.IsManager())

	customerToken, err := m.Issue(CustomerPrincipal{CustomerID: 3, Email: "c@example.com"})
	require.NoError(t, err)
	p, err = m.Authenticate("Bearer " + customerToken)
	require.NoError(t, err)
	customer, ok := p.(CustomerPrincipal)
	require.True(t, ok)
	assert.Equal(t, uint(3), customer.CustomerID)
}

func TestAuthenticateClassifiesFailures(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(now)

	valid, err := m.Issue(CustomerPrincipal{CustomerID: 1})
	require.NoError(t, err)

	expired, err := newTestManager(now.Add(-48 * time.Hour)).Issue(CustomerPrincipal{CustomerID: 1})
	require.NoError(t, err)

	otherSecret := NewTokenManager("another-secret", time.Hour)
	forged, err := otherSecret.Issue(CustomerPrincipal{CustomerID: 1})
	require.NoError(t, err)

	unknownType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:   1,
		Type: "partner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	sign := func(typ string, aud ...string) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			ID:   1,
			Type: typ,
			RegisteredClaims: jwt.RegisteredClaims{
				Audience:  aud,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}
	customerForStaff := sign(AudienceCustomer, AudienceStaff)
	staffWithoutAudience := sign(AudienceStaff)

	tests := []struct {
		name   string
		header string
		reason Reason
		status int
	}{
		{"empty header", "", Missing, http.StatusUnauthorized},
		{"no bearer prefix", valid, Malformed, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", Malformed, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, Expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, InvalidSignature, http.StatusForbidden},
		{"unknown principal type", "Bearer " + unknownType, WrongAudience, http.StatusForbidden},
		{"audience names another principal type", "Bearer " + customerForStaff, WrongAudience, http.StatusForbidden},
		{"missing audience", "Bearer " + staffWithoutAudience, WrongAudience, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Authenticate(tt.header)
			require.Error(t, err)
			var failure *Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tt.reason, failure.Reason)
			assert.Equal(t, tt.status, failure.Status())
		})
	}
}

func TestPasswordHelpers(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, IsHashed(hashed))
	assert.False(t, IsHashed("plain"))
	assert.NoError(t, CheckPassword("s3cret", hashed))
	assert.Error(t, CheckPassword("wrong", hashed))
}
