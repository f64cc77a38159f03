package models

import "github.com/shopspring/decimal"

type Recipe struct {
	ID           uint            `json:"recipe_id" gorm:"column:recipe_id;primaryKey"`
	Name         string          `json:"recipe_name" gorm:"column:recipe_name;not null"`
	Category     string          `json:"category" gorm:"index"`
	Calories     float64         `json:"calories"`
	Protein      float64         `json:"protein"`
	Fat          float64         `json:"fat"`
	Carbohydrate float64         `json:"carbohydrate"`
	Fiber        float64         `json:"fiber"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	ImageURL     string          `json:"image_url"`
	Status       string          `json:"status" gorm:"default:'available'"`
	Ingredients  []RecipeDetail  `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;references:ID"`
}

func (Recipe) TableName() string { return "recipe" }

// RecipeDetail links a recipe to the weight of an ingredient it consumes.
type RecipeDetail struct {
	RecipeID     uint        `json:"recipe_id" gorm:"primaryKey"`
	IngredientID uint        `json:"ingredient_id" gorm:"primaryKey"`
	Ingredient   *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID"`
	Weight       float64     `json:"weight"`
}

func (RecipeDetail) TableName() string { return "recipe_detail" }

const (
	RecipeAvailable   = "available"
	RecipeUnavailable = "unavailable"
)

// Available reports whether every ingredient has at least the weight one
// portion consumes. Ingredient rows must be preloaded.
func (r *Recipe) Available() bool {
	for _, d := range r.Ingredients {
		if d.Ingredient == nil || d.Ingredient.Quantity < d.Weight {
			return false
		}
	}
	return true
}
