package models

// OrderDetail is one line of a sale.
type OrderDetail struct {
	ID       uint    `json:"order_detail_id" gorm:"column:order_detail_id;primaryKey"`
	SaleID   uint    `json:"sale_id" gorm:"not null;index"`
	RecipeID uint    `json:"recipe_id" gorm:"not null;index"`
	Recipe   *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;references:ID"`
	Quantity int     `json:"quantity" gorm:"not null"`
}

func (OrderDetail) TableName() string { return "order_detail" }

// FavoriteMeal is an aggregate of a customer's order lines per recipe.
type FavoriteMeal struct {
	RecipeID     uint   `json:"recipe_id"`
	RecipeName   string `json:"recipe_name"`
	ImageURL     string `json:"image_url"`
	TotalOrdered int    `json:"total_ordered"`
	TimesOrdered int    `json:"times_ordered"`
}
