package repository

import (
	"context"
	"time"

	"restaurant_backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientRestock is one delivery of a single ingredient.
type IngredientRestock struct {
	RestockID      uint            `json:"restock_id"`
	RestockDate    time.Time       `json:"restock_date"`
	SupplierName   string          `json:"supplier_name"`
	ImportQuantity float64         `json:"import_quantity"`
	ImportPrice    decimal.Decimal `json:"import_price"`
}

// StockRepository records stock movements. Every batch insert adjusts the
// ingredient quantities in the same transaction.
type StockRepository interface {
	CreateRestock(ctx context.Context, restock *models.Restock) error
	ListRestocks(ctx context.Context) ([]models.Restock, error)
	GetRestock(ctx context.Context, id uint) (*models.Restock, error)
	RestocksForIngredient(ctx context.Context, ingredientID uint) ([]IngredientRestock, error)
	DailyImportTotals(ctx context.Context, from, to time.Time) ([]models.DailyImportTotal, error)
	CreateWaste(ctx context.Context, waste *models.Waste) error
	ListWaste(ctx context.Context) ([]models.Waste, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) CreateRestock(ctx context.Context, restock *models.Restock) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Supplier", "Details.Ingredient").Create(restock).Error; err != nil {
			return err
		}
		for _, d := range restock.Details {
			res := tx.Model(&models.Ingredient{}).
				Where("ingredient_id = ?", d.IngredientID).
				Update("quantity", gorm.Expr("quantity + ?", d.ImportQuantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
	return translate(err)
}

func (r *stockRepository) ListRestocks(ctx context.Context) ([]models.Restock, error) {
	var restocks []models.Restock
	err := r.db.WithContext(ctx).Preload("Supplier").Order("restock_date DESC").Find(&restocks).Error
	return restocks, translate(err)
}

func (r *stockRepository) GetRestock(ctx context.Context, id uint) (*models.Restock, error) {
	var restock models.Restock
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Details.Ingredient").
		First(&restock, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &restock, nil
}

func (r *stockRepository) RestocksForIngredient(ctx context.Context, ingredientID uint) ([]IngredientRestock, error) {
	var rows []IngredientRestock
	err := r.db.WithContext(ctx).Table("restock_detail").
		Select("restock.restock_id, restock.restock_date, supplier.supplier_name, "+
			"restock_detail.import_quantity, restock_detail.import_price").
		Joins("JOIN restock ON restock.restock_id = restock_detail.restock_id").
		Joins("LEFT JOIN supplier ON supplier.supplier_id = restock.supplier_id").
		Where("restock_detail.ingredient_id = ?", ingredientID).
		Order("restock.restock_date DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (r *stockRepository) DailyImportTotals(ctx context.Context, from, to time.Time) ([]models.DailyImportTotal, error) {
	var totals []models.DailyImportTotal
	err := r.db.WithContext(ctx).Table("restock_detail").
		Select("CAST(EXTRACT(DAY FROM restock.restock_date) AS INTEGER) AS day, "+
			"SUM(restock_detail.import_quantity * restock_detail.import_price) AS total").
		Joins("JOIN restock ON restock.restock_id = restock_detail.restock_id").
		Where("restock.restock_date >= ? AND restock.restock_date < ?", from, to).
		Group("day").
		Order("day").
		Scan(&totals).Error
	return totals, translate(err)
}

func (r *stockRepository) CreateWaste(ctx context.Context, waste *models.Waste) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Details.Ingredient").Create(waste).Error; err != nil {
			return err
		}
		for _, d := range waste.Details {
			res := tx.Model(&models.Ingredient{}).
				Where("ingredient_id = ? AND quantity >= ?", d.IngredientID, d.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", d.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		return nil
	})
	return translate(err)
}

func (r *stockRepository) ListWaste(ctx context.Context) ([]models.Waste, error) {
	var batches []models.Waste
	err := r.db.WithContext(ctx).
		Preload("Details.Ingredient").
		Order("waste_date DESC").
		Find(&batches).Error
	return batches, translate(err)
}
