package repository

import (
	"context"

	"restaurant_backend/internal/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows the menu listing. Nil bounds are ignored.
type RecipeFilter struct {
	CaloriesBelow   *float64
	CaloriesAtLeast *float64
	CaloriesAtMost  *float64
	CaloriesAbove   *float64
	// IngredientNames keeps recipes that use any of the named ingredients.
	IngredientNames []string
}

type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	// Update writes fields and, when details is non-nil, replaces the
	// ingredient lines in the same transaction.
	Update(ctx context.Context, id uint, fields map[string]interface{}, details []models.RecipeDetail) error
	Delete(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, ids []uint, status string) (int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Preload("Ingredients.Ingredient")

	if filter.CaloriesBelow != nil {
		query = query.Where("calories < ?", *filter.CaloriesBelow)
	}
	if filter.CaloriesAtLeast != nil {
		query = query.Where("calories >= ?", *filter.CaloriesAtLeast)
	}
	if filter.CaloriesAtMost != nil {
		query = query.Where("calories <= ?", *filter.CaloriesAtMost)
	}
	if filter.CaloriesAbove != nil {
		query = query.Where("calories > ?", *filter.CaloriesAbove)
	}
	if len(filter.IngredientNames) > 0 {
		sub := r.db.Table("recipe_detail").
			Select("recipe_detail.recipe_id").
			Joins("JOIN ingredient ON ingredient.ingredient_id = recipe_detail.ingredient_id").
			Where("ingredient.ingredient_name IN ?", filter.IngredientNames)
		query = query.Where("recipe_id IN (?)", sub)
	}

	var recipes []models.Recipe
	err := query.Order("category").Order("recipe_name").Find(&recipes).Error
	return recipes, translate(err)
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients.Ingredient").First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *recipeRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).Where("recipe_id IN ?", ids).Find(&recipes).Error
	return recipes, translate(err)
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return translate(r.db.WithContext(ctx).Omit("Ingredients.Ingredient").Create(recipe).Error)
}

func (r *recipeRepository) Update(ctx context.Context, id uint, fields map[string]interface{}, details []models.RecipeDetail) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("recipe_id").First(&recipe, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("recipe_id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		if details == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeDetail{}).Error; err != nil {
			return err
		}
		if len(details) == 0 {
			return nil
		}
		for i := range details {
			details[i].RecipeID = id
		}
		return tx.Omit("Ingredient").Create(&details).Error
	})
	return translate(err)
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeDetail{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
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

func (r *recipeRepository) SetStatus(ctx context.Context, ids []uint, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipe_id IN ?", ids).Update("status", status)
	return res.RowsAffected, translate(res.Error)
}
