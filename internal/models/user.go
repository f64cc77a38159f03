package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// GuestPrefix marks customer rows created for orders placed without an account.
const GuestPrefix = "Guest_"

type Customer struct {
	ID           uint           `json:"customer_id" gorm:"column:customer_id;primaryKey"`
	Name         string         `json:"customer_name" gorm:"column:customer_name;not null"`
	Phone        string         `json:"phone" gorm:"index"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"not null"`
	LoyaltyPoint int            `json:"loyalty_point" gorm:"not null;default:0"`
	Address      datatypes.JSON `json:"address"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (Customer) TableName() string { return "customer" }

// Address is the serialized form stored in Customer.Address.
type Address struct {
	Ward         string `json:"ward"`
	District     string `json:"district"`
	Street       string `json:"street"`
	HouseNumber  string `json:"house_number"`
	BuildingName string `json:"building_name,omitempty"`
	Block        string `json:"block,omitempty"`
	Floor        string `json:"floor,omitempty"`
	RoomNumber   string `json:"room_number,omitempty"`
}

type Staff struct {
	ID       uint            `json:"staff_id" gorm:"column:staff_id;primaryKey"`
	Name     string          `json:"staff_name" gorm:"column:staff_name;not null"`
	Email    string          `json:"staff_email" gorm:"column:staff_email;uniqueIndex;not null"`
	Password string          `json:"-" gorm:"not null"`
	Role     string          `json:"role" gorm:"not null"`
	Phone    string          `json:"phone"`
	PayRates decimal.Decimal `json:"pay_rates" gorm:"type:numeric(12,2);default:0"`
}

func (Staff) TableName() string { return "staff" }

type StaffRole string

const (
	RoleManager StaffRole = "Manager"
	RoleChef    StaffRole = "Chef"
	RoleCashier StaffRole = "Cashier"
	RoleShipper StaffRole = "Shipper"
)
