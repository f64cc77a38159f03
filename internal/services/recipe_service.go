package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"restaurant_backend/internal/logging"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MenuCache stores rendered menu listings keyed by filter.
type MenuCache interface {
	GetMenu(ctx context.Context, key string, dest interface{}) error
	SetMenu(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidateMenu(ctx context.Context) error
}

// ImageStore persists recipe images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	PathFromURL(url string) (string, bool)
}

// proteinIngredients maps the menu's protein filter onto ingredient names.
var proteinIngredients = map[string][]string{
	"Salmon":  {"Salmon Fillet"},
	"Tuna":    {"Cans tuna"},
	"Chicken": {"Chicken Breast Fillet", "Chicken Thigh"},
	"Shrimp":  {"Shrimp"},
	"Scallop": {"Scallop"},
	"Tofu":    {"Tofu"},
}

type MenuItem struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Rating      int             `json:"rating"`
	Image       string          `json:"image"`
	Calories    float64         `json:"calories"`
	Protein     float64         `json:"protein"`
	Fat         float64         `json:"fat"`
	Fiber       float64         `json:"fiber"`
	Carb        float64         `json:"carb"`
	IsAvailable bool            `json:"is_available"`
	Status      string          `json:"status"`
	Category    string          `json:"category"`
}

type MenuCategory struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type IngredientLine struct {
	IngredientID uint    `json:"ingredient_id"`
	Weight       float64 `json:"weight"`
}

type IngredientAmount struct {
	IngredientID uint    `json:"ingredient_id"`
	Ingredient   string  `json:"ingredient"`
	Amount       float64 `json:"amount"`
}

type RecipeView struct {
	ID           uint               `json:"recipe_id"`
	Name         string             `json:"recipe_name"`
	Category     string             `json:"category"`
	Calories     float64            `json:"calories"`
	Protein      float64            `json:"protein"`
	Fat          float64            `json:"fat"`
	Carbohydrate float64            `json:"carbohydrate"`
	Fiber        float64            `json:"fiber"`
	Price        decimal.Decimal    `json:"price"`
	ImageURL     string             `json:"image_url"`
	Status       string             `json:"status"`
	IsAvailable  bool               `json:"is_available"`
	Ingredients  []IngredientAmount `json:"ingredients"`
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RecipeInput struct {
	Name         string
	Category     string
	Calories     float64
	Protein      float64
	Fat          float64
	Carbohydrate float64
	Fiber        float64
	Price        decimal.Decimal
	ImageURL     string
	Ingredients  []IngredientLine
	Image        *ImageUpload
}

// RecipeUpdate leaves nil fields untouched. A non-nil Ingredients replaces
// every ingredient line.
type RecipeUpdate struct {
	Name         *string
	Category     *string
	Calories     *float64
	Protein      *float64
	Fat          *float64
	Carbohydrate *float64
	Fiber        *float64
	Price        *decimal.Decimal
	ImageURL     *string
	Ingredients  *[]IngredientLine
}

type RecipeService interface {
	Menu(ctx context.Context, calories, protein string) ([]MenuCategory, error)
	Get(ctx context.Context, id uint) (*RecipeView, error)
	Create(ctx context.Context, in RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, id uint, in RecipeUpdate) error
	Delete(ctx context.Context, id uint) error
	SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error)
}

type recipeService struct {
	recipes  repository.RecipeRepository
	cache    MenuCache
	images   ImageStore
	cacheTTL time.Duration
}

// NewRecipeService accepts a nil cache or image store; the corresponding
// feature is then skipped.
func NewRecipeService(recipes repository.RecipeRepository, cache MenuCache, images ImageStore, cacheTTL time.Duration) RecipeService {
	return &recipeService{recipes: recipes, cache: cache, images: images, cacheTTL: cacheTTL}
}

func caloriesFilter(calories string, filter *repository.RecipeFilter) {
	lower, upper := 300.0, 500.0
	switch strings.TrimSpace(calories) {
	case "< 300":
		filter.CaloriesBelow = &lower
	case "300 - 500":
		filter.CaloriesAtLeast = &lower
		filter.CaloriesAtMost = &upper
	case "> 500":
		filter.CaloriesAbove = &upper
	}
}

func (s *recipeService) Menu(ctx context.Context, calories, protein string) ([]MenuCategory, error) {
	log := logging.FromContext(ctx)
	key := fmt.Sprintf("calories=%s|protein=%s", calories, protein)
	if s.cache != nil {
		var cached []MenuCategory
		if err := s.cache.GetMenu(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	var filter repository.RecipeFilter
	caloriesFilter(calories, &filter)
	if protein != "" {
		names, ok := proteinIngredients[protein]
		if !ok {
			return []MenuCategory{}, nil
		}
		filter.IngredientNames = names
	}

	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, fromRepo(err, "list recipes", "")
	}
	menu := groupMenu(recipes)

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, key, menu, s.cacheTTL); err != nil {
			log.Warn("failed to cache menu", zap.Error(err))
		}
	}
	return menu, nil
}

// groupMenu keeps the listing order of recipes and numbers categories from 1.
func groupMenu(recipes []models.Recipe) []MenuCategory {
	menu := []MenuCategory{}
	index := map[string]int{}
	for i := range recipes {
		r := &recipes[i]
		pos, ok := index[r.Category]
		if !ok {
			pos = len(menu)
			index[r.Category] = pos
			menu = append(menu, MenuCategory{ID: pos + 1, Name: r.Category, Items: []MenuItem{}})
		}
		menu[pos].Items = append(menu[pos].Items, MenuItem{
			ID:          r.ID,
			Name:        r.Name,
			Price:       r.Price,
			Rating:      5,
			Image:       r.ImageURL,
			Calories:    r.Calories,
			Protein:     r.Protein,
			Fat:         r.Fat,
			Fiber:       r.Fiber,
			Carb:        r.Carbohydrate,
			IsAvailable: r.Available(),
			Status:      r.Status,
			Category:    r.Category,
		})
	}
	return menu
}

func (s *recipeService) Get(ctx context.Context, id uint) (*RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "get recipe", "Recipe not found")
	}

	view := &RecipeView{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Category:     recipe.Category,
		Calories:     recipe.Calories,
		Protein:      recipe.Protein,
		Fat:          recipe.Fat,
		Carbohydrate: recipe.Carbohydrate,
		Fiber:        recipe.Fiber,
		Price:        recipe.Price,
		ImageURL:     recipe.ImageURL,
		Status:       recipe.Status,
		IsAvailable:  recipe.Available(),
		Ingredients:  make([]IngredientAmount, 0, len(recipe.Ingredients)),
	}
	for _, d := range recipe.Ingredients {
		line := IngredientAmount{IngredientID: d.IngredientID, Amount: d.Weight}
		if d.Ingredient != nil {
			line.Ingredient = d.Ingredient.Name
		}
		view.Ingredients = append(view.Ingredients, line)
	}
	return view, nil
}

func validateLines(lines []IngredientLine) ([]models.RecipeDetail, error) {
	details := make([]models.RecipeDetail, 0, len(lines))
	seen := map[uint]bool{}
	for _, line := range lines {
		if line.IngredientID == 0 {
			return nil, invalid("Each ingredient needs an ingredient_id")
		}
		if line.Weight < 0 {
			return nil, invalid("Ingredient weight must not be negative")
		}
		if seen[line.IngredientID] {
			return nil, invalid("Ingredient %d listed more than once", line.IngredientID)
		}
		seen[line.IngredientID] = true
		details = append(details, models.RecipeDetail{IngredientID: line.IngredientID, Weight: line.Weight})
	}
	return details, nil
}

func (s *recipeService) Create(ctx context.Context, in RecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("Recipe name is required")
	}
	if in.Price.IsNegative() {
		return nil, invalid("Price must not be negative")
	}
	details, err := validateLines(in.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:         strings.TrimSpace(in.Name),
		Category:     in.Category,
		Calories:     in.Calories,
		Protein:      in.Protein,
		Fat:          in.Fat,
		Carbohydrate: in.Carbohydrate,
		Fiber:        in.Fiber,
		Price:        in.Price,
		ImageURL:     in.ImageURL,
		Status:       models.RecipeAvailable,
		Ingredients:  details,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fromRepo(err, "create recipe", "Ingredient not found")
	}

	log := logging.FromContext(ctx).With(zap.Uint("recipe_id", recipe.ID))
	if in.Image != nil && len(in.Image.Data) > 0 && s.images != nil {
		if url, err := s.uploadImage(ctx, recipe.ID, in.Image); err != nil {
			log.Warn("recipe image upload failed, continuing without image", zap.Error(err))
		} else {
			recipe.ImageURL = url
		}
	}

	s.invalidate(ctx)
	log.Info("recipe created", zap.String("name", recipe.Name))
	return recipe, nil
}

func (s *recipeService) uploadImage(ctx context.Context, id uint, img *ImageUpload) (string, error) {
	ext := strings.TrimPrefix(path.Ext(img.Filename), ".")
	if ext == "" {
		ext = "png"
	}
	url, err := s.images.Upload(ctx, fmt.Sprintf("recipes/RCP-%03d.%s", id, ext), img.ContentType, img.Data)
	if err != nil {
		return "", err
	}
	if err := s.recipes.Update(ctx, id, map[string]interface{}{"image_url": url}, nil); err != nil {
		return "", err
	}
	return url, nil
}

func (s *recipeService) Update(ctx context.Context, id uint, in RecipeUpdate) error {
	fields := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return invalid("Recipe name is required")
		}
		fields["recipe_name"] = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Calories != nil {
		fields["calories"] = *in.Calories
	}
	if in.Protein != nil {
		fields["protein"] = *in.Protein
	}
	if in.Fat != nil {
		fields["fat"] = *in.Fat
	}
	if in.Carbohydrate != nil {
		fields["carbohydrate"] = *in.Carbohydrate
	}
	if in.Fiber != nil {
		fields["fiber"] = *in.Fiber
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return invalid("Price must not be negative")
		}
		fields["price"] = *in.Price
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}

	var details []models.RecipeDetail
	if in.Ingredients != nil {
		var err error
		if details, err = validateLines(*in.Ingredients); err != nil {
			return err
		}
	}
	if len(fields) == 0 && in.Ingredients == nil {
		return invalid("No fields to update")
	}

	if err := s.recipes.Update(ctx, id, fields, details); err != nil {
		return fromRepo(err, "update recipe", "Recipe not found")
	}
	s.invalidate(ctx)
	logging.FromContext(ctx).Info("recipe updated", zap.Uint("recipe_id", id))
	return nil
}

func (s *recipeService) Delete(ctx context.Context, id uint) error {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, "get recipe", "Recipe not found")
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return &Error{Kind: ErrConflict, Message: "Cannot delete recipe because it is referenced by existing orders.", Err: err}
		}
		return fromRepo(err, "delete recipe", "Recipe not found")
	}

	log := logging.FromContext(ctx).With(zap.Uint("recipe_id", id))
	if recipe.ImageURL != "" && s.images != nil {
		if objectPath, ok := s.images.PathFromURL(recipe.ImageURL); ok {
			if err := s.images.Delete(ctx, objectPath); err != nil {
				log.Warn("failed to remove recipe image", zap.Error(err))
			}
		}
	}

	s.invalidate(ctx)
	log.Info("recipe deleted")
	return nil
}

func (s *recipeService) SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("Invalid or missing recipe_id")
	}
	status := models.RecipeUnavailable
	if available {
		status = models.RecipeAvailable
	}

	n, err := s.recipes.SetStatus(ctx, ids, status)
	if err != nil {
		return 0, fromRepo(err, "set recipe status", "")
	}
	if n == 0 {
		return 0, notFound("Recipe not found")
	}
	s.invalidate(ctx)
	logging.FromContext(ctx).Info("recipe status updated", zap.String("status", status), zap.Int64("recipes", n))
	return n, nil
}

func (s *recipeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateMenu(ctx); err != nil {
		logging.FromContext(ctx).Warn("failed to invalidate menu cache", zap.Error(err))
	}
}
