package services

import (
	"context"
	"testing"
	"time"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:     "Minh Tran",
		Email:    "minh@example.com",
		Phone:    "0912345678",
		Password: "hunter22",
		Address: models.Address{
			Ward:        "Ben Nghe",
			District:    "1",
			Street:      "Dong Khoi",
			HouseNumber: "45",
		},
	}
}

func newCustomerFixture() (CustomerService, *memStore, *auth.TokenManager) {
	store := newMemStore()
	tokens := auth.NewTokenManager("test-secret", 24*time.Hour)
	return NewCustomerService(memCustomers{store}, tokens), store, tokens
}

func TestRegisterValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		want   string
	}{
		{"empty phone", func(in *RegisterInput) { in.Phone = ""; in.Email = "" }, "Phone must not be empty."},
		{"short phone", func(in *RegisterInput) { in.Phone = "12345" }, "Phone must be a number with exactly 10 digits."},
		{"letters in phone", func(in *RegisterInput) { in.Phone = "09123abc78" }, "Phone must be a number with exactly 10 digits."},
		{"empty email", func(in *RegisterInput) { in.Email = ""; in.Address.Ward = "" }, "Email cannot be empty."},
		{"empty ward", func(in *RegisterInput) { in.Address.Ward = "" }, "Ward cannot be empty."},
		{"empty district", func(in *RegisterInput) { in.Address.District = "" }, "District cannot be empty."},
		{"empty street", func(in *RegisterInput) { in.Address.Street = "" }, "Street cannot be empty."},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, "All fields are required."},
		{"bad email", func(in *RegisterInput) { in.Email = "minh@example" }, "Invalid email format."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newCustomerFixture()
			in := validRegistration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			var svcErr *Error
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.want, svcErr.Message)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newCustomerFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	in := validRegistration()
	_, err = svc.Register(ctx, in)
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Email already registered", svcErr.Message)

	in.Email = "other@example.com"
	_, err = svc.Register(ctx, in)
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "Phone already registered", svcErr.Message)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterHashesPasswordAndStoresAddress(t *testing.T) {
	svc, store, _ := newCustomerFixture()
	customer, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	stored := store.customers[customer.ID]
	assert.True(t, auth.IsHashed(stored.Password))
	assert.JSONEq(t, `{"ward":"Ben Nghe","district":"1","street":"Dong Khoi","house_number":"45"}`, string(stored.Address))

	profile, err := svc.Profile(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Minh", profile.FirstName)
	assert.Equal(t, "Tran", profile.LastName)
	require.NotNil(t, profile.Address)
	assert.Equal(t, "Dong Khoi", profile.Address.Street)
}

func TestSignIn(t *testing.T) {
	svc, store, tokens := newCustomerFixture()
	ctx := context.Background()
	customer, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	token, _, err := svc.SignIn(ctx, "minh@example.com", "hunter22")
	require.NoError(t, err)
	principal, err := tokens.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, auth.CustomerPrincipal{CustomerID: customer.ID, Email: "minh@example.com"}, principal)

	_, _, err = svc.SignIn(ctx, "minh@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.SignIn(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Legacy rows stored the password in plain text.
	legacy := &models.Customer{Name: "Old Account", Email: "old@example.com", Password: "plain-pass"}
	require.NoError(t, memCustomers{store}.Create(ctx, legacy))
	_, _, err = svc.SignIn(ctx, "old@example.com", "plain-pass")
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(store.customers[legacy.ID].Password))
	_, _, err = svc.SignIn(ctx, "old@example.com", "plain-pass")
	assert.NoError(t, err)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	svc, _, _ := newCustomerFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, svc.ForgotPassword(ctx, "minh@example.com"), svc.ForgotPassword(ctx, "ghost@example.com"))
}

func TestUpdateAddressRequiresCoreFields(t *testing.T) {
	svc, _, _ := newCustomerFixture()
	ctx := context.Background()
	customer, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.UpdateAddress(ctx, customer.ID, models.Address{Ward: "A", District: "B", Street: "C"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateAddress(ctx, customer.ID, models.Address{Ward: "A", District: "B", Street: "C", HouseNumber: "9"})
	assert.NoError(t, err)
}
