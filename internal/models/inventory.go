package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ingredient struct {
	ID               uint    `json:"ingredient_id" gorm:"column:ingredient_id;primaryKey"`
	Name             string  `json:"ingredient_name" gorm:"column:ingredient_name;uniqueIndex;not null"`
	Unit             string  `json:"unit" gorm:"not null"`
	Quantity         float64 `json:"quantity" gorm:"not null;default:0"`
	MinimumThreshold float64 `json:"minimum_threshold" gorm:"default:0"`
	GoodFor          *int    `json:"good_for"`
	SupplierName     string  `json:"supplier_name,omitempty" gorm:"->;-:migration"`
	SupplierID       *uint   `json:"supplier_id,omitempty" gorm:"->;-:migration"`
}

func (Ingredient) TableName() string { return "ingredient" }

type Supplier struct {
	ID      uint   `json:"supplier_id" gorm:"column:supplier_id;primaryKey"`
	Name    string `json:"supplier_name" gorm:"column:supplier_name;not null"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (Supplier) TableName() string { return "supplier" }

type SupplierProduct struct {
	SupplierID   uint        `json:"supplier_id" gorm:"primaryKey"`
	Supplier     *Supplier   `json:"-" gorm:"foreignKey:SupplierID;references:ID"`
	IngredientID uint        `json:"ingredient_id" gorm:"primaryKey"`
	Ingredient   *Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID"`
}

func (SupplierProduct) TableName() string { return "supplier_product" }

type Restock struct {
	ID          uint            `json:"restock_id" gorm:"column:restock_id;primaryKey"`
	SupplierID  uint            `json:"supplier_id" gorm:"not null;index"`
	Supplier    *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID;references:ID"`
	RestockDate time.Time       `json:"restock_date" gorm:"not null;index"`
	Details     []RestockDetail `json:"details,omitempty" gorm:"foreignKey:RestockID;references:ID"`
}

func (Restock) TableName() string { return "restock" }

type RestockDetail struct {
	ID             uint            `json:"restock_detail_id" gorm:"column:restock_detail_id;primaryKey"`
	RestockID      uint            `json:"restock_id" gorm:"not null;index"`
	IngredientID   uint            `json:"ingredient_id" gorm:"not null;index"`
	Ingredient     *Ingredient     `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID"`
	ImportQuantity float64         `json:"import_quantity" gorm:"not null"`
	ImportPrice    decimal.Decimal `json:"import_price" gorm:"type:numeric(12,2);not null"`
}

func (RestockDetail) TableName() string { return "restock_detail" }

type Waste struct {
	ID        uint          `json:"waste_id" gorm:"column:waste_id;primaryKey"`
	WasteDate time.Time     `json:"waste_date" gorm:"not null;index"`
	Details   []WasteDetail `json:"details,omitempty" gorm:"foreignKey:WasteID;references:ID"`
}

func (Waste) TableName() string { return "waste" }

type WasteDetail struct {
	ID           uint        `json:"waste_detail_id" gorm:"column:waste_detail_id;primaryKey"`
	WasteID      uint        `json:"waste_id" gorm:"not null;index"`
	IngredientID uint        `json:"ingredient_id" gorm:"not null;index"`
	Ingredient   *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID"`
	Quantity     float64     `json:"quantity" gorm:"not null"`
	Reason       string      `json:"reason"`
}

func (WasteDetail) TableName() string { return "waste_detail" }

// DailyImportTotal is the summed restock spend for one calendar day.
type DailyImportTotal struct {
	Day   int             `json:"day"`
	Total decimal.Decimal `json:"total"`
}
