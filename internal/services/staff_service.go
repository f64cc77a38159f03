package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant_backend/internal/auth"
	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type StaffInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	PayRates *decimal.Decimal
}

type StaffUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Phone    *string
	PayRates *decimal.Decimal
}

type Salary struct {
	Hours  int             `json:"hours"`
	Salary decimal.Decimal `json:"salary"`
}

type EmployeeSalary struct {
	StaffID       uint            `json:"staff_id"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	PayRate       decimal.Decimal `json:"pay_rate"`
	WorkingShifts int             `json:"working_shifts"`
	WorkingHours  int             `json:"working_hours"`
	TotalPay      decimal.Decimal `json:"total_pay"`
}

type StaffService interface {
	Login(ctx context.Context, email, password string) (string, auth.StaffPrincipal, error)
	Me(ctx context.Context, id uint) (*models.Staff, error)
	List(ctx context.Context) ([]models.Staff, error)
	Create(ctx context.Context, in StaffInput) (*models.Staff, error)
	Update(ctx context.Context, id uint, in StaffUpdate) (*models.Staff, error)
	Delete(ctx context.Context, id uint) error
	Salary(ctx context.Context, staffID uint, month, year int) (*Salary, error)
	Salaries(ctx context.Context, month, year int) ([]EmployeeSalary, error)
}

type staffService struct {
	staff     repository.StaffRepository
	schedules repository.ScheduleRepository
	tokens    *auth.TokenManager
}

func NewStaffService(staff repository.StaffRepository, schedules repository.ScheduleRepository, tokens *auth.TokenManager) StaffService {
	return &staffService{staff: staff, schedules: schedules, tokens: tokens}
}

func (s *staffService) Login(ctx context.Context, email, password string) (string, auth.StaffPrincipal, error) {
	var principal auth.StaffPrincipal
	if strings.TrimSpace(email) == "" || password == "" {
		return "", principal, invalid("Email and password are required.")
	}

	member, err := s.staff.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", principal, unauthorized("Invalid email or password")
	}
	if err != nil {
		return "", principal, fromRepo(err, "find staff", "")
	}
	if auth.CheckPassword(password, member.Password) != nil {
		return "", principal, unauthorized("Invalid email or password")
	}

	principal = auth.StaffPrincipal{
		StaffID: member.ID,
		Role:    member.Role,
		Email:   member.Email,
		Name:    member.Name,
	}
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return "", principal, err
	}
	logging.FromContext(ctx).Info("staff signed in", zap.Uint("staff_id", member.ID), zap.String("role", member.Role))
	return token, principal, nil
}

func (s *staffService) Me(ctx context.Context, id uint) (*models.Staff, error) {
	member, err := s.staff.GetByID(ctx, id)
	return member, fromRepo(err, "get staff", "Staff not found")
}

func (s *staffService) List(ctx context.Context) ([]models.Staff, error) {
	staff, err := s.staff.GetAll(ctx)
	return staff, fromRepo(err, "list staff", "")
}

func validRole(role string) bool {
	switch models.StaffRole(role) {
	case models.RoleManager, models.RoleChef, models.RoleCashier, models.RoleShipper:
		return true
	}
	return false
}

func (s *staffService) Create(ctx context.Context, in StaffInput) (*models.Staff, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, invalid("Missing required fields")
	}
	if !validRole(in.Role) {
		return nil, invalid("Role must be one of Manager, Chef, Cashier, Shipper")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, invalid("Invalid email format.")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	member := &models.Staff{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     in.Role,
		Phone:    in.Phone,
	}
	if in.PayRates != nil {
		if in.PayRates.IsNegative() {
			return nil, invalid("pay_rates must not be negative")
		}
		member.PayRates = *in.PayRates
	}

	if err := s.staff.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Staff email already exists")
		}
		return nil, fromRepo(err, "create staff", "")
	}
	logging.FromContext(ctx).Info("staff created", zap.Uint("staff_id", member.ID), zap.String("role", member.Role))
	return member, nil
}

func (s *staffService) Update(ctx context.Context, id uint, in StaffUpdate) (*models.Staff, error) {
	fields := map[string]interface{}{}
	if in.Name != nil && *in.Name != "" {
		fields["staff_name"] = *in.Name
	}
	if in.Email != nil && *in.Email != "" {
		if !emailPattern.MatchString(*in.Email) {
			return nil, invalid("Invalid email format.")
		}
		fields["staff_email"] = *in.Email
	}
	if in.Role != nil && *in.Role != "" {
		if !validRole(*in.Role) {
			return nil, invalid("Role must be one of Manager, Chef, Cashier, Shipper")
		}
		fields["role"] = *in.Role
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.PayRates != nil {
		if in.PayRates.IsNegative() {
			return nil, invalid("pay_rates must not be negative")
		}
		fields["pay_rates"] = *in.PayRates
	}
	if in.Password != nil && *in.Password != "" {
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}
	if len(fields) == 0 {
		return nil, invalid("No fields to update")
	}

	if err := s.staff.Update(ctx, id, fields); err != nil {
		return nil, fromRepo(err, "update staff", "Staff not found")
	}
	return s.Me(ctx, id)
}

func (s *staffService) Delete(ctx context.Context, id uint) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		return fromRepo(err, "delete staff", "Staff not found")
	}
	logging.FromContext(ctx).Info("staff deleted", zap.Uint("staff_id", id))
	return nil
}

// monthRange returns [first day of month, first day of next month).
func monthRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, invalid("Month must be between 1 and 12")
	}
	if year < 1 {
		return time.Time{}, time.Time{}, invalid("Year must be a positive number")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// Pay is shifts × ShiftHours × rate.
func Pay(shifts int, rate decimal.Decimal) (int, decimal.Decimal) {
	hours := shifts * models.ShiftHours
	return hours, rate.Mul(decimal.NewFromInt(int64(hours)))
}

func (s *staffService) Salary(ctx context.Context, staffID uint, month, year int) (*Salary, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}
	member, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, fromRepo(err, "get staff", "Staff not found")
	}
	shifts, err := s.schedules.ListForStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, fromRepo(err, "list staff schedule", "")
	}
	hours, pay := Pay(len(shifts), member.PayRates)
	return &Salary{Hours: hours, Salary: pay}, nil
}

func (s *staffService) Salaries(ctx context.Context, month, year int) ([]EmployeeSalary, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}
	staff, err := s.staff.GetAll(ctx)
	if err != nil {
		return nil, fromRepo(err, "list staff", "")
	}
	counts, err := s.schedules.ShiftCounts(ctx, from, to)
	if err != nil {
		return nil, fromRepo(err, "count shifts", "")
	}
	byStaff := make(map[uint]int, len(counts))
	for _, c := range counts {
		byStaff[c.StaffID] = c.Shifts
	}

	out := make([]EmployeeSalary, 0, len(staff))
	for _, member := range staff {
		shifts := byStaff[member.ID]
		hours, pay := Pay(shifts, member.PayRates)
		out = append(out, EmployeeSalary{
			StaffID:       member.ID,
			Name:          member.Name,
			Role:          member.Role,
			PayRate:       member.PayRates,
			WorkingShifts: shifts,
			WorkingHours:  hours,
			TotalPay:      pay,
		})
	}
	return out, nil
}
