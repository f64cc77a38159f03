package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

const forgotPasswordMessage = "If an account with that email exists, password reset instructions have been sent."

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Address  models.Address
}

type UpdateInformationInput struct {
	Name  *string
	Email *string
	Phone *string
}

// CustomerProfile is the account view returned to the signed-in customer.
type CustomerProfile struct {
	ID            uint            `json:"id"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	ContactMobile string          `json:"contactMobile"`
	LoyaltyPoints int             `json:"loyaltyPoints"`
	Address       *models.Address `json:"address"`
}

type CustomerService interface {
	Register(ctx context.Context, in RegisterInput) (*models.Customer, error)
	SignIn(ctx context.Context, email, password string) (string, *models.Customer, error)
	Profile(ctx context.Context, id uint) (*CustomerProfile, error)
	UpdateInformation(ctx context.Context, id uint, in UpdateInformationInput) (*models.Customer, error)
	UpdateAddress(ctx context.Context, id uint, address models.Address) (*models.Customer, error)
	ForgotPassword(ctx context.Context, email string) string
}

type customerService struct {
	customers repository.CustomerRepository
	tokens    *auth.TokenManager
}

func NewCustomerService(customers repository.CustomerRepository, tokens *auth.TokenManager) CustomerService {
	return &customerService{customers: customers, tokens: tokens}
}

func validateRegistration(in RegisterInput) error {
	switch {
	case in.Phone == "":
		return invalid("Phone must not be empty.")
	case !phonePattern.MatchString(in.Phone):
		return invalid("Phone must be a number with exactly 10 digits.")
	case in.Email == "":
		return invalid("Email cannot be empty.")
	case in.Address.Ward == "":
		return invalid("Ward cannot be empty.")
	case in.Address.District == "":
		return invalid("District cannot be empty.")
	case in.Address.Street == "":
		return invalid("Street cannot be empty.")
	case in.Name == "" || in.Password == "" || in.Address.HouseNumber == "":
		return invalid("All fields are required.")
	case !emailPattern.MatchString(in.Email):
		return invalid("Invalid email format.")
	}
	return nil
}

func (s *customerService) Register(ctx context.Context, in RegisterInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	existing, err := s.customers.FindByEmailOrPhone(ctx, in.Email, in.Phone)
	if err != nil {
		return nil, fromRepo(err, "check existing customer", "")
	}
	if msg := duplicateMessage(existing, in.Email, 0); msg != "" {
		return nil, invalid(msg)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	address, err := json.Marshal(in.Address)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hashed,
		Address:  datatypes.JSON(address),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("Email already registered")
		}
		return nil, fromRepo(err, "create customer", "")
	}

	logging.FromContext(ctx).Info("customer registered", zap.Uint("customer_id", customer.ID))
	return customer, nil
}

// duplicateMessage prefers the email collision when both collide. Rows
// belonging to self are ignored.
func duplicateMessage(existing []models.Customer, email string, self uint) string {
	phoneTaken := false
	for _, c := range existing {
		if c.ID == self {
			continue
		}
		if strings.EqualFold(c.Email, email) {
			return "Email already registered"
		}
		phoneTaken = true
	}
	if phoneTaken {
		return "Phone already registered"
	}
	return ""
}

func (s *customerService) SignIn(ctx context.Context, email, password string) (string, *models.Customer, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, invalid("Email and password are required.")
	}

	customer, err := s.customers.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, unauthorized("Invalid email or password.")
	}
	if err != nil {
		return "", nil, fromRepo(err, "find customer", "")
	}

	if auth.IsHashed(customer.Password) {
		if auth.CheckPassword(password, customer.Password) != nil {
			return "", nil, unauthorized("Invalid email or password.")
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(password), []byte(customer.Password)) != 1 {
			return "", nil, unauthorized("Invalid email or password.")
		}
		s.upgradeLegacyPassword(ctx, customer, password)
	}

	token, err := s.tokens.Issue(auth.CustomerPrincipal{CustomerID: customer.ID, Email: customer.Email})
	if err != nil {
		return "", nil, err
	}
	return token, customer, nil
}

// upgradeLegacyPassword replaces a plain-text password with its hash. A
// failure is logged and retried on the next sign-in.
func (s *customerService) upgradeLegacyPassword(ctx context.Context, customer *models.Customer, password string) {
	log := logging.FromContext(ctx).With(zap.Uint("customer_id", customer.ID))
	hashed, err := auth.HashPassword(password)
	if err == nil {
		err = s.customers.Update(ctx, customer.ID, map[string]interface{}{"password": hashed})
	}
	if err != nil {
		log.Warn("failed to re-hash legacy password", zap.Error(err))
		return
	}
	customer.Password = hashed
	log.Info("legacy password re-hashed")
}

func (s *customerService) Profile(ctx context.Context, id uint) (*CustomerProfile, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "get customer", "Customer not found")
	}

	first, last := splitName(customer.Name)
	profile := &CustomerProfile{
		ID:            customer.ID,
		FirstName:     first,
		LastName:      last,
		Email:         customer.Email,
		ContactMobile: customer.Phone,
		LoyaltyPoints: customer.LoyaltyPoint,
	}
	if len(customer.Address) > 0 {
		var address models.Address
		if err := json.Unmarshal(customer.Address, &address); err == nil {
			profile.Address = &address
		}
	}
	return profile, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *customerService) UpdateInformation(ctx context.Context, id uint, in UpdateInformationInput) (*models.Customer, error) {
	fields := map[string]interface{}{}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		fields["customer_name"] = strings.TrimSpace(*in.Name)
	}
	email, phone := "", ""
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email = strings.TrimSpace(*in.Email)
		if !emailPattern.MatchString(email) {
			return nil, invalid("Invalid email format.")
		}
		fields["email"] = email
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) != "" {
		phone = strings.TrimSpace(*in.Phone)
		if !phonePattern.MatchString(phone) {
			return nil, invalid("Phone must be a number with exactly 10 digits.")
		}
		fields["phone"] = phone
	}
	if len(fields) == 0 {
		return nil, invalid("At least one of name, email or phone is required.")
	}

	if email != "" || phone != "" {
		existing, err := s.customers.FindByEmailOrPhone(ctx, email, phone)
		if err != nil {
			return nil, fromRepo(err, "check existing customer", "")
		}
		if msg := duplicateMessage(existing, email, id); msg != "" {
			return nil, conflict(msg)
		}
	}

	if err := s.customers.Update(ctx, id, fields); err != nil {
		return nil, fromRepo(err, "update customer", "Customer not found")
	}
	customer, err := s.customers.GetByID(ctx, id)
	return customer, fromRepo(err, "get customer", "Customer not found")
}

func (s *customerService) UpdateAddress(ctx context.Context, id uint, address models.Address) (*models.Customer, error) {
	if address.Ward == "" || address.District == "" || address.Street == "" || address.HouseNumber == "" {
		return nil, invalid("Ward, district, street and house number are required.")
	}
	data, err := json.Marshal(address)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, id, map[string]interface{}{"address": datatypes.JSON(data)}); err != nil {
		return nil, fromRepo(err, "update address", "Customer not found")
	}
	customer, err := s.customers.GetByID(ctx, id)
	return customer, fromRepo(err, "get customer", "Customer not found")
}

// ForgotPassword answers identically whether or not the email exists.
func (s *customerService) ForgotPassword(ctx context.Context, email string) string {
	if _, err := s.customers.GetByEmail(ctx, strings.TrimSpace(email)); err == nil {
		logging.FromContext(ctx).Info("password reset requested")
	}
	return forgotPasswordMessage
}
