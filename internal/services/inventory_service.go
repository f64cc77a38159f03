package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IngredientInput struct {
	Name             string
	Unit             string
	Quantity         *float64
	MinimumThreshold float64
	GoodFor          *int
	SupplierID       *uint
}

type WasteItem struct {
	IngredientID uint
	Quantity     float64
	Reason       string
}

type WasteRecord struct {
	WasteID        uint      `json:"waste_id"`
	WasteDate      time.Time `json:"waste_date"`
	IngredientName string    `json:"ingredient_name"`
	WastedQuantity float64   `json:"wasted_quantity"`
	Unit           string    `json:"unit"`
	Reason         string    `json:"reason"`
}

type RestockItem struct {
	IngredientID   uint
	ImportQuantity float64
	ImportPrice    decimal.Decimal
}

type RestockInput struct {
	SupplierID uint
	Date       *time.Time
	Items      []RestockItem
}

type RestockSummary struct {
	RestockID    uint      `json:"restock_id"`
	RestockDate  time.Time `json:"restock_date"`
	SupplierName string    `json:"supplier_name"`
}

type InventoryService interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	CreateIngredient(ctx context.Context, in IngredientInput) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uint, in IngredientInput) error
	DeleteIngredient(ctx context.Context, id uint) error
	IngredientRestocks(ctx context.Context, id uint) ([]repository.IngredientRestock, error)

	ListWaste(ctx context.Context) ([]WasteRecord, error)
	RecordWaste(ctx context.Context, date *time.Time, items []WasteItem) (*models.Waste, error)

	ListRestocks(ctx context.Context) ([]RestockSummary, error)
	DailyImportTotals(ctx context.Context, month, year int) ([]models.DailyImportTotal, error)
	CreateRestock(ctx context.Context, in RestockInput) (*models.Restock, error)
	GetRestock(ctx context.Context, id uint) (*models.Restock, error)

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, supplier models.Supplier) (*models.Supplier, error)
}

type inventoryService struct {
	ingredients repository.IngredientRepository
	stock       repository.StockRepository
	suppliers   repository.SupplierRepository
	// Menu availability derives from stock levels.
	menu MenuCache
	now  func() time.Time
}

func NewInventoryService(
	ingredients repository.IngredientRepository,
	stock repository.StockRepository,
	suppliers repository.SupplierRepository,
	menu MenuCache,
) InventoryService {
	return &inventoryService{
		ingredients: ingredients,
		stock:       stock,
		suppliers:   suppliers,
		menu:        menu,
		now:         time.Now,
	}
}

func (s *inventoryService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.ingredients.List(ctx)
	return ingredients, fromRepo(err, "list ingredients", "")
}

func validateIngredient(in IngredientInput) error {
	if strings.TrimSpace(in.Name) == "" || in.Quantity == nil || strings.TrimSpace(in.Unit) == "" {
		return invalid("Ingredient name, quantity, and unit are required")
	}
	if *in.Quantity < 0 || in.MinimumThreshold < 0 {
		return invalid("Quantity and minimum threshold must not be negative")
	}
	return nil
}

func (s *inventoryService) CreateIngredient(ctx context.Context, in IngredientInput) (*models.Ingredient, error) {
	if err := validateIngredient(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)

	_, err := s.ingredients.GetByName(ctx, name)
	switch {
	case err == nil:
		return nil, conflict("Ingredient already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fromRepo(err, "check ingredient", "")
	}

	ingredient := &models.Ingredient{
		Name:             name,
		Unit:             strings.TrimSpace(in.Unit),
		Quantity:         *in.Quantity,
		MinimumThreshold: in.MinimumThreshold,
		GoodFor:          in.GoodFor,
	}
	if err := s.ingredients.Create(ctx, ingredient, in.SupplierID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("Ingredient already exists")
		case errors.Is(err, repository.ErrReferenced):
			return nil, invalid("Supplier does not exist")
		}
		return nil, fromRepo(err, "create ingredient", "")
	}

	s.stockChanged(ctx)
	logging.FromContext(ctx).Info("ingredient created", zap.Uint("ingredient_id", ingredient.ID), zap.String("name", ingredient.Name))
	return ingredient, nil
}

func (s *inventoryService) UpdateIngredient(ctx context.Context, id uint, in IngredientInput) error {
	if err := validateIngredient(in); err != nil {
		return err
	}
	fields := map[string]interface{}{
		"ingredient_name":   strings.TrimSpace(in.Name),
		"unit":              strings.TrimSpace(in.Unit),
		"quantity":          *in.Quantity,
		"minimum_threshold": in.MinimumThreshold,
		"good_for":          in.GoodFor,
	}
	if err := s.ingredients.Update(ctx, id, fields, in.SupplierID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return conflict("Ingredient already exists")
		case errors.Is(err, repository.ErrReferenced):
			return invalid("Supplier does not exist")
		}
		return fromRepo(err, "update ingredient", "Ingredient not found")
	}
	s.stockChanged(ctx)
	logging.FromContext(ctx).Info("ingredient updated", zap.Uint("ingredient_id", id))
	return nil
}

func (s *inventoryService) DeleteIngredient(ctx context.Context, id uint) error {
	if err := s.ingredients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return &Error{
				Kind:    ErrConflict,
				Message: "Cannot delete ingredient because it is referenced by recipes, restock orders, or waste records.",
				Err:     err,
			}
		}
		return fromRepo(err, "delete ingredient", "Ingredient not found")
	}
	s.stockChanged(ctx)
	logging.FromContext(ctx).Info("ingredient deleted", zap.Uint("ingredient_id", id))
	return nil
}

func (s *inventoryService) IngredientRestocks(ctx context.Context, id uint) ([]repository.IngredientRestock, error) {
	if _, err := s.ingredients.GetByID(ctx, id); err != nil {
		return nil, fromRepo(err, "get ingredient", "Ingredient not found")
	}
	rows, err := s.stock.RestocksForIngredient(ctx, id)
	return rows, fromRepo(err, "list ingredient restocks", "")
}

func (s *inventoryService) ListWaste(ctx context.Context) ([]WasteRecord, error) {
	batches, err := s.stock.ListWaste(ctx)
	if err != nil {
		return nil, fromRepo(err, "list waste", "")
	}

	records := []WasteRecord{}
	for _, batch := range batches {
		for _, d := range batch.Details {
			record := WasteRecord{
				WasteID:        batch.ID,
				WasteDate:      batch.WasteDate,
				WastedQuantity: d.Quantity,
				Reason:         d.Reason,
			}
			if d.Ingredient != nil {
				record.IngredientName = d.Ingredient.Name
				record.Unit = d.Ingredient.Unit
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *inventoryService) RecordWaste(ctx context.Context, date *time.Time, items []WasteItem) (*models.Waste, error) {
	if len(items) == 0 {
		return nil, invalid("At least one waste item is required")
	}
	waste := &models.Waste{WasteDate: s.now()}
	if date != nil {
		waste.WasteDate = *date
	}
	for _, item := range items {
		if item.IngredientID == 0 || item.Quantity <= 0 {
			return nil, invalid("Each waste item needs an ingredient_id and a positive quantity")
		}
		waste.Details = append(waste.Details, models.WasteDetail{
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
			Reason:       item.Reason,
		})
	}

	if err := s.stock.CreateWaste(ctx, waste); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, &Error{Kind: ErrConflict, Message: "Waste quantity exceeds the ingredient stock", Err: err}
		case errors.Is(err, repository.ErrReferenced):
			return nil, invalid("Ingredient does not exist")
		}
		return nil, fromRepo(err, "record waste", "")
	}

	s.stockChanged(ctx)
	logging.FromContext(ctx).Info("waste recorded", zap.Uint("waste_id", waste.ID), zap.Int("items", len(waste.Details)))
	return waste, nil
}

func (s *inventoryService) ListRestocks(ctx context.Context) ([]RestockSummary, error) {
	restocks, err := s.stock.ListRestocks(ctx)
	if err != nil {
		return nil, fromRepo(err, "list restocks", "")
	}
	out := make([]RestockSummary, 0, len(restocks))
	for _, r := range restocks {
		summary := RestockSummary{RestockID: r.ID, RestockDate: r.RestockDate}
		if r.Supplier != nil {
			summary.SupplierName = r.Supplier.Name
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *inventoryService) DailyImportTotals(ctx context.Context, month, year int) ([]models.DailyImportTotal, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, invalid("Invalid month or year")
	}
	totals, err := s.stock.DailyImportTotals(ctx, from, to)
	return totals, fromRepo(err, "daily import totals", "")
}

func (s *inventoryService) CreateRestock(ctx context.Context, in RestockInput) (*models.Restock, error) {
	if in.SupplierID == 0 || len(in.Items) == 0 {
		return nil, invalid("Invalid restock data provided")
	}
	restock := &models.Restock{SupplierID: in.SupplierID, RestockDate: s.now()}
	if in.Date != nil {
		restock.RestockDate = *in.Date
	}
	for _, item := range in.Items {
		if item.IngredientID == 0 || item.ImportQuantity <= 0 || item.ImportPrice.IsNegative() {
			return nil, invalid("Invalid restock data provided")
		}
		restock.Details = append(restock.Details, models.RestockDetail{
			IngredientID:   item.IngredientID,
			ImportQuantity: item.ImportQuantity,
			ImportPrice:    item.ImportPrice,
		})
	}

	if err := s.stock.CreateRestock(ctx, restock); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, invalid("Supplier or ingredient does not exist")
		}
		return nil, fromRepo(err, "create restock", "Ingredient not found")
	}

	s.stockChanged(ctx)
	logging.FromContext(ctx).Info("restock recorded",
		zap.Uint("restock_id", restock.ID),
		zap.Uint("supplier_id", restock.SupplierID),
		zap.Int("items", len(restock.Details)))
	return restock, nil
}

func (s *inventoryService) GetRestock(ctx context.Context, id uint) (*models.Restock, error) {
	restock, err := s.stock.GetRestock(ctx, id)
	return restock, fromRepo(err, "get restock", "Restock details not found")
}

func (s *inventoryService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	return suppliers, fromRepo(err, "list suppliers", "")
}

func (s *inventoryService) CreateSupplier(ctx context.Context, supplier models.Supplier) (*models.Supplier, error) {
	supplier.ID = 0
	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return nil, invalid("Supplier name is required")
	}
	if err := s.suppliers.Create(ctx, &supplier); err != nil {
		return nil, fromRepo(err, "create supplier", "")
	}
	logging.FromContext(ctx).Info("supplier created", zap.Uint("supplier_id", supplier.ID))
	return &supplier, nil
}

func (s *inventoryService) stockChanged(ctx context.Context) {
	if s.menu == nil {
		return
	}
	if err := s.menu.InvalidateMenu(ctx); err != nil {
		logging.FromContext(ctx).Warn("failed to invalidate menu cache", zap.Error(err))
	}
}
