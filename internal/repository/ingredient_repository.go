package repository

import (
	"context"

	"restaurant_backend/internal/models"

	"gorm.io/gorm"
)

type IngredientRepository interface {
	List(ctx context.Context) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	GetByName(ctx context.Context, name string) (*models.Ingredient, error)
	// Create inserts the ingredient and links supplierID when non-nil.
	Create(ctx context.Context, ingredient *models.Ingredient, supplierID *uint) error
	// Update writes fields and, when supplierID is non-nil, replaces the
	// supplier link.
	Update(ctx context.Context, id uint, fields map[string]interface{}, supplierID *uint) error
	Delete(ctx context.Context, id uint) error
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) withSupplier(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Ingredient{}).
		Select("ingredient.*, supplier.supplier_id, supplier.supplier_name").
		Joins("LEFT JOIN supplier_product ON supplier_product.ingredient_id = ingredient.ingredient_id").
		Joins("LEFT JOIN supplier ON supplier.supplier_id = supplier_product.supplier_id")
}

func (r *ingredientRepository) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.withSupplier(ctx).Order("ingredient.ingredient_name").Scan(&ingredients).Error
	return ingredients, translate(err)
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.withSupplier(ctx).Where("ingredient.ingredient_id = ?", id).Limit(1).Scan(&ingredients).Error; err != nil {
		return nil, translate(err)
	}
	if len(ingredients) == 0 {
		return nil, ErrNotFound
	}
	return &ingredients[0], nil
}

func (r *ingredientRepository) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).Where("LOWER(ingredient_name) = LOWER(?)", name).First(&ingredient).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient, supplierID *uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}
		if supplierID == nil {
			return nil
		}
		return tx.Create(&models.SupplierProduct{SupplierID: *supplierID, IngredientID: ingredient.ID}).Error
	})
	return translate(err)
}

func (r *ingredientRepository) Update(ctx context.Context, id uint, fields map[string]interface{}, supplierID *uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Ingredient
		if err := tx.Select("ingredient_id").First(&existing, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.Ingredient{}).Where("ingredient_id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		if supplierID == nil {
			return nil
		}
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.SupplierProduct{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.SupplierProduct{SupplierID: *supplierID, IngredientID: id}).Error
	})
	return translate(err)
}

func (r *ingredientRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.SupplierProduct{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Ingredient{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}
