package models

import "github.com/shopspring/decimal"

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every table in dependency order for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&Staff{},
		&Supplier{},
		&Ingredient{},
		&SupplierProduct{},
		&Recipe{},
		&RecipeDetail{},
		&Sale{},
		&OrderDetail{},
		&Schedule{},
		&Restock{},
		&RestockDetail{},
		&Waste{},
		&WasteDetail{},
		&ScheduledJob{},
	}
}
