package auth

import "restaurant_backend/internal/models"

const (
	AudienceStaff    = "staff"
	AudienceCustomer = "customer"
)

// Principal is the authenticated caller, decided once when the token is
// parsed. It is either a StaffPrincipal or a CustomerPrincipal.
type Principal interface {
	Audience() string
	isPrincipal()
}

type StaffPrincipal struct {
	StaffID uint
	Role    string
	Email   string
	Name    string
}

func (StaffPrincipal) Audience() string { return AudienceStaff }
func (StaffPrincipal) isPrincipal()     {}

func (p StaffPrincipal) IsManager() bool {
	return p.Role == string(models.RoleManager)
}

type CustomerPrincipal struct {
	CustomerID uint
	Email      string
}

func (CustomerPrincipal) Audience() string { return AudienceCustomer }
func (CustomerPrincipal) isPrincipal()     {}
