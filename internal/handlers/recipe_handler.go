package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"restaurant_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const maxImageSize = 5 << 20

type RecipeHandler struct {
	recipes services.RecipeService
}

func NewRecipeHandler(recipes services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// Menu lists recipes grouped by category.
func (h *RecipeHandler) Menu(c *gin.Context) {
	menu, err := h.recipes.Menu(c.Request.Context(), c.Query("calories"), c.Query("protein"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": menu})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": recipe})
}

func formFloat(c *gin.Context, key string) float64 {
	v, _ := strconv.ParseFloat(c.PostForm(key), 64)
	return v
}

// Create accepts multipart form data with an optional "image" file and an
// "ingredients" JSON array.
func (h *RecipeHandler) Create(c *gin.Context) {
	in := services.RecipeInput{
		Name:         c.PostForm("recipe_name"),
		Category:     c.PostForm("category"),
		Calories:     formFloat(c, "calories"),
		Protein:      formFloat(c, "protein"),
		Fat:          formFloat(c, "fat"),
		Carbohydrate: formFloat(c, "carbohydrate"),
		Fiber:        formFloat(c, "fiber"),
		ImageURL:     c.PostForm("image_url"),
	}
	if price := c.PostForm("price"); price != "" {
		p, err := decimal.NewFromString(price)
		if err != nil {
			badRequest(c, "Invalid price")
			return
		}
		in.Price = p
	}
	if raw := c.PostForm("ingredients"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Ingredients); err != nil {
			badRequest(c, "Invalid ingredients data format")
			return
		}
	}

	img, problem := readImage(c)
	if problem != "" {
		badRequest(c, problem)
		return
	}
	in.Image = img

	recipe, err := h.recipes.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Recipe created successfully", "data": recipe})
}

// readImage returns the uploaded image, if any, or a client-facing problem.
func readImage(c *gin.Context) (*services.ImageUpload, string) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, ""
	}
	if err != nil {
		return nil, "Invalid image upload"
	}
	if header.Size > maxImageSize {
		return nil, "Image must be at most 5MB"
	}

	f, err := header.Open()
	if err != nil {
		return nil, "Invalid image upload"
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "Invalid image upload"
	}
	return &services.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, ""
}

type recipeUpdateRequest struct {
	Name         *string                    `json:"recipe_name"`
	Category     *string                    `json:"category"`
	Calories     *float64                   `json:"calories"`
	Protein      *float64                   `json:"protein"`
	Fat          *float64                   `json:"fat"`
	Carbohydrate *float64                   `json:"carbohydrate"`
	Fiber        *float64                   `json:"fiber"`
	Price        *decimal.Decimal           `json:"price"`
	ImageURL     *string                    `json:"image_url"`
	Ingredients  *[]services.IngredientLine `json:"ingredients"`
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	var req recipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	err := h.recipes.Update(c.Request.Context(), id, services.RecipeUpdate{
		Name:         req.Name,
		Category:     req.Category,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Fat:          req.Fat,
		Carbohydrate: req.Carbohydrate,
		Fiber:        req.Fiber,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Ingredients:  req.Ingredients,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Recipe updated successfully"})
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, valid := idParam(c, "id")
	if !valid {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Recipe deleted successfully"})
}

// availabilityRequest accepts a single recipe_id or a list of recipe_ids.
type availabilityRequest struct {
	RecipeID  uint   `json:"recipe_id"`
	RecipeIDs []uint `json:"recipe_ids"`
}

func (h *RecipeHandler) setAvailability(c *gin.Context, available bool) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid or missing recipe_id")
		return
	}
	ids := req.RecipeIDs
	if req.RecipeID != 0 {
		ids = append(ids, req.RecipeID)
	}

	updated, err := h.recipes.SetAvailability(c.Request.Context(), ids, available)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Recipe status updated", "updated": updated})
}

func (h *RecipeHandler) Activate(c *gin.Context)   { h.setAvailability(c, true) }
func (h *RecipeHandler) Deactivate(c *gin.Context) { h.setAvailability(c, false) }
