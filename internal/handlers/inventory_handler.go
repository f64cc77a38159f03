package handlers

import (
	"net/http"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	inventory services.InventoryService
}

func NewInventoryHandler(inventory services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// parseDay accepts YYYY-MM-DD or RFC 3339. An empty value means "now".
func parseDay(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, true
	}
	return nil, false
}

// Ingredients

type ingredientRequest struct {
	Name             string   `json:"ingredient_name"`
	Unit             string   `json:"unit"`
	Quantity         *float64 `json:"quantity"`
	MinimumThreshold float64  `json:"minimum_threshold"`
	GoodFor          *int     `json:"good_for"`
	SupplierID       *uint    `json:"supplier_id"`
}

func (r ingredientRequest) input() services.IngredientInput {
	return services.IngredientInput{
		Name:             r.Name,
		Unit:             r.Unit,
		Quantity:         r.Quantity,
		MinimumThreshold: r.MinimumThreshold,
		GoodFor:          r.GoodFor,
		SupplierID:       r.SupplierID,
	}
}

func (h *InventoryHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.inventory.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": ingredients})
}

func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	ingredient, err := h.inventory.CreateIngredient(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Ingredient added successfully", "data": ingredient})
}

func (h *InventoryHandler) UpdateIngredient(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.inventory.UpdateIngredient(c.Request.Context(), id, req.input()); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Ingredient updated successfully"})
}

func (h *InventoryHandler) DeleteIngredient(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	if err := h.inventory.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Ingredient deleted successfully"})
}

func (h *InventoryHandler) IngredientRestocks(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	restocks, err := h.inventory.IngredientRestocks(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": restocks})
}

// Waste

func (h *InventoryHandler) ListWaste(c *gin.Context) {
	records, err := h.inventory.ListWaste(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": records})
}

type wasteRequest struct {
	WasteDate string `json:"waste_date"`
	Items     []struct {
		IngredientID uint    `json:"ingredient_id"`
		Quantity     float64 `json:"quantity"`
		Reason       string  `json:"reason"`
	} `json:"items"`
}

func (h *InventoryHandler) RecordWaste(c *gin.Context) {
	var req wasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	date, valid := parseDay(req.WasteDate)
	if !valid {
		badRequest(c, "waste_date must be a date")
		return
	}

	items := make([]services.WasteItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.WasteItem{IngredientID: it.IngredientID, Quantity: it.Quantity, Reason: it.Reason})
	}
	waste, err := h.inventory.RecordWaste(c.Request.Context(), date, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Waste recorded successfully", "data": waste})
}

// Restock

// ListRestocks returns restock summaries, or daily import totals when month
// and year are given.
func (h *InventoryHandler) ListRestocks(c *gin.Context) {
	if c.Query("month") != "" || c.Query("year") != "" {
		month, year, valid := monthYear(c)
		if !valid {
			return
		}
		totals, err := h.inventory.DailyImportTotals(c.Request.Context(), month, year)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, gin.H{"data": totals})
		return
	}

	restocks, err := h.inventory.ListRestocks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": restocks})
}

type restockRequest struct {
	SupplierID  uint   `json:"supplier_id"`
	RestockDate string `json:"restock_date"`
	Items       []struct {
		IngredientID   uint            `json:"ingredient_id"`
		ImportQuantity float64         `json:"import_quantity"`
		ImportPrice    decimal.Decimal `json:"import_price"`
	} `json:"items"`
}

func (h *InventoryHandler) CreateRestock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid restock data provided")
		return
	}
	date, valid := parseDay(req.RestockDate)
	if !valid {
		badRequest(c, "Invalid restock data provided")
		return
	}

	in := services.RestockInput{SupplierID: req.SupplierID, Date: date}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.RestockItem{
			IngredientID:   it.IngredientID,
			ImportQuantity: it.ImportQuantity,
			ImportPrice:    it.ImportPrice,
		})
	}
	restock, err := h.inventory.CreateRestock(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Restock created successfully", "data": restock})
}

func (h *InventoryHandler) GetRestock(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	restock, err := h.inventory.GetRestock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": restock})
}

// Suppliers

func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.inventory.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": suppliers})
}

func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var req struct {
		Name    string `json:"supplier_name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	supplier, err := h.inventory.CreateSupplier(c.Request.Context(), models.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": supplier})
}
