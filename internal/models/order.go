package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a customer order. The table keeps the historical name "sale".
type Sale struct {
	ID                   uint            `json:"sale_id" gorm:"column:sale_id;primaryKey"`
	CustomerID           uint            `json:"customer_id" gorm:"not null;index"`
	Customer             *Customer       `json:"customer,omitempty" gorm:"foreignKey:CustomerID;references:ID"`
	TotalAmount          decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status               string          `json:"status" gorm:"not null;default:'Confirmed';index"`
	PaymentMethod        string          `json:"payment_method" gorm:"default:'cash'"`
	PaymentStatus        string          `json:"payment_status" gorm:"default:'Unpaid'"`
	PaymentTransactionID *string         `json:"payment_transaction_id"`
	DeliveryAddress      string          `json:"delivery_address"`
	DeliveryDistance     float64         `json:"delivery_distance"`
	DeliveryCharge       decimal.Decimal `json:"delivery_charge" gorm:"type:numeric(12,2);default:0"`
	LoyaltyPointsUsed    int             `json:"loyalty_points_used" gorm:"default:0"`
	SaleTime             time.Time       `json:"sale_time" gorm:"not null;index"`
	CompletionTime       *time.Time      `json:"completion_time"`
	PointsAwarded        bool            `json:"points_awarded" gorm:"not null;default:false"`
	Items                []OrderDetail   `json:"order_details,omitempty" gorm:"foreignKey:SaleID;references:ID"`
}

func (Sale) TableName() string { return "sale" }

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderConfirmed  OrderStatus = "Confirmed"
	OrderPreparing  OrderStatus = "Preparing"
	OrderReady      OrderStatus = "Ready"
	OrderDelivering OrderStatus = "Delivering"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancel"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

const (
	PaymentMethodCash        = "cash"
	PaymentMethodMoMo        = "momo"
	PaymentMethodVietcombank = "vietcombank"
)

// DailyCount is the number of orders placed on one day of a month.
type DailyCount struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// DailyRevenue sums completed orders per calendar day.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
