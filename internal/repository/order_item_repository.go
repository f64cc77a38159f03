package repository

import (
	"context"

	"restaurant_backend/internal/models"

	"gorm.io/gorm"
)

type OrderDetailRepository interface {
	GetBySaleID(ctx context.Context, saleID uint) ([]models.OrderDetail, error)
	FavoriteMeals(ctx context.Context, customerID uint) ([]models.FavoriteMeal, error)
}

type orderDetailRepository struct {
	db *gorm.DB
}

func NewOrderDetailRepository(db *gorm.DB) OrderDetailRepository {
	return &orderDetailRepository{db: db}
}

func (r *orderDetailRepository) GetBySaleID(ctx context.Context, saleID uint) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	err := r.db.WithContext(ctx).Preload("Recipe").Where("sale_id = ?", saleID).Find(&details).Error
	return details, translate(err)
}

func (r *orderDetailRepository) FavoriteMeals(ctx context.Context, customerID uint) ([]models.FavoriteMeal, error) {
	var meals []models.FavoriteMeal
	err := r.db.WithContext(ctx).Table("order_detail").
		Select("order_detail.recipe_id, recipe.recipe_name, recipe.image_url, "+
			"SUM(order_detail.quantity) AS total_ordered, COUNT(*) AS times_ordered").
		Joins("JOIN sale ON sale.sale_id = order_detail.sale_id").
		Joins("JOIN recipe ON recipe.recipe_id = order_detail.recipe_id").
		Where("sale.customer_id = ?", customerID).
		Group("order_detail.recipe_id, recipe.recipe_name, recipe.image_url").
		Order("total_ordered DESC").
		Scan(&meals).Error
	return meals, translate(err)
}
