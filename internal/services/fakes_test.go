package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"restaurant_backend/internal/events"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"
	"restaurant_backend/pkg/payment"
)

// memStore backs the in-memory repositories used by service tests.
type memStore struct {
	mu        sync.Mutex
	customers map[uint]*models.Customer
	sales     map[uint]*models.Sale
	recipes   map[uint]*models.Recipe
	staff     map[uint]*models.Staff
	schedules map[uint]*models.Schedule
	jobs      []*models.ScheduledJob

	ingredients map[uint]*models.Ingredient
	suppliers   map[uint]*models.Supplier
	restocks    map[uint]*models.Restock
	waste       map[uint]*models.Waste
	nextID      uint
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[uint]*models.Customer{},
		sales:     map[uint]*models.Sale{},
		recipes:   map[uint]*models.Recipe{},
		staff:     map[uint]*models.Staff{},
		schedules: map[uint]*models.Schedule{},

		ingredients: map[uint]*models.Ingredient{},
		suppliers:   map[uint]*models.Supplier{},
		restocks:    map[uint]*models.Restock{},
		waste:       map[uint]*models.Waste{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

type memCustomers struct{ *memStore }

func (r memCustomers) Create(_ context.Context, c *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return repository.ErrDuplicate
		}
	}
	c.ID = r.id()
	copied := *c
	r.customers[c.ID] = &copied
	return nil
}

func (r memCustomers) GetByID(_ context.Context, id uint) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r memCustomers) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCustomers) FindByEmailOrPhone(_ context.Context, email, phone string) ([]models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Customer
	for _, c := range r.customers {
		if (email != "" && strings.EqualFold(c.Email, email)) || (phone != "" && c.Phone == phone) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r memCustomers) FindGuestByPhone(_ context.Context, phone string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == phone && strings.HasPrefix(c.Name, models.GuestPrefix) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCustomers) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "password":
			c.Password = v.(string)
		case "customer_name":
			c.Name = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone":
			c.Phone = v.(string)
		}
	}
	return nil
}

type memSales struct{ *memStore }

func (r memSales) CreateOrder(_ context.Context, sale *models.Sale, job *models.ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[sale.CustomerID]
	if !ok {
		return repository.ErrReferenced
	}
	if sale.LoyaltyPointsUsed > 0 {
		if customer.LoyaltyPoint < sale.LoyaltyPointsUsed {
			return repository.ErrInsufficientPoint
		}
		customer.LoyaltyPoint -= sale.LoyaltyPointsUsed
	}
	sale.ID = r.id()
	copied := *sale
	r.sales[sale.ID] = &copied
	if job != nil {
		job.ID = r.id()
		job.SaleID = sale.ID
		r.jobs = append(r.jobs, job)
	}
	return nil
}

func (r memSales) GetByID(_ context.Context, id uint) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	if c, ok := r.customers[s.CustomerID]; ok {
		customer := *c
		copied.Customer = &customer
	}
	return &copied, nil
}

func (r memSales) List(context.Context, repository.SaleListOptions) ([]models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r memSales) ListByCustomer(_ context.Context, customerID uint) ([]models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Sale
	for _, s := range r.sales {
		if s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r memSales) ListByGuestPhone(context.Context, string) ([]models.Sale, error) {
	return nil, nil
}

func (r memSales) apply(s *models.Sale, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			s.Status = v.(string)
		case "payment_status":
			s.PaymentStatus = v.(string)
		case "payment_method":
			s.PaymentMethod = v.(string)
		case "payment_transaction_id":
			id := v.(string)
			s.PaymentTransactionID = &id
		case "completion_time":
			t := v.(time.Time)
			s.CompletionTime = &t
		}
	}
}

func (r memSales) UpdateStatus(_ context.Context, id uint, from models.OrderStatus, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.Status != string(from) {
		return repository.ErrStaleState
	}
	r.apply(s, fields)
	return nil
}

func (r memSales) CompleteWithAward(_ context.Context, id uint, from models.OrderStatus, customerID uint, points int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.PointsAwarded || (s.Status != string(from) && s.Status != string(models.OrderCompleted)) {
		return repository.ErrStaleState
	}
	s.Status = string(models.OrderCompleted)
	if s.CompletionTime == nil {
		s.CompletionTime = &at
	}
	s.PointsAwarded = true
	r.customers[customerID].LoyaltyPoint += points
	return nil
}

func (r memSales) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.apply(s, fields)
	return nil
}

func (r memSales) DailyOrderCounts(context.Context, time.Time, time.Time) ([]models.DailyCount, error) {
	return nil, nil
}

func (r memSales) DailyRevenue(context.Context) ([]models.DailyRevenue, error) {
	return nil, nil
}

type memDetails struct{ *memStore }

func (memDetails) GetBySaleID(context.Context, uint) ([]models.OrderDetail, error) { return nil, nil }
func (memDetails) FavoriteMeals(context.Context, uint) ([]models.FavoriteMeal, error) {
	return nil, nil
}

type memRecipes struct{ *memStore }

func (r memRecipes) List(_ context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Recipe
	for _, rec := range r.recipes {
		if filter.CaloriesBelow != nil && rec.Calories >= *filter.CaloriesBelow {
			continue
		}
		if filter.CaloriesAbove != nil && rec.Calories <= *filter.CaloriesAbove {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r memRecipes) GetByID(_ context.Context, id uint) (*models.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r memRecipes) GetByIDs(_ context.Context, ids []uint) ([]models.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Recipe
	for _, id := range ids {
		if rec, ok := r.recipes[id]; ok {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r memRecipes) Create(_ context.Context, rec *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = r.id()
	copied := *rec
	r.recipes[rec.ID] = &copied
	return nil
}

func (r memRecipes) Update(_ context.Context, id uint, fields map[string]interface{}, details []models.RecipeDetail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[id]
	if !ok {
		return repository.ErrNotFound
	}
	if url, ok := fields["image_url"].(string); ok {
		rec.ImageURL = url
	}
	if details != nil {
		rec.Ingredients = details
	}
	return nil
}

func (r memRecipes) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return repository.ErrNotFound
	}
	for _, s := range r.sales {
		for _, item := range s.Items {
			if item.RecipeID == id {
				return repository.ErrReferenced
			}
		}
	}
	delete(r.recipes, id)
	return nil
}

func (r memRecipes) SetStatus(_ context.Context, ids []uint, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if rec, ok := r.recipes[id]; ok {
			rec.Status = status
			n++
		}
	}
	return n, nil
}

type memStaff struct{ *memStore }

func (r memStaff) Create(_ context.Context, s *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if existing.Email == s.Email {
			return repository.ErrDuplicate
		}
	}
	s.ID = r.id()
	copied := *s
	r.staff[s.ID] = &copied
	return nil
}

func (r memStaff) GetByID(_ context.Context, id uint) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.staff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r memStaff) GetByEmail(_ context.Context, email string) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.staff {
		if s.Email == email {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memStaff) GetAll(context.Context) ([]models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Staff
	for id := uint(1); id <= r.nextID; id++ {
		if s, ok := r.staff[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r memStaff) Update(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r memStaff) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.staff, id)
	return nil
}

type memSchedules struct{ *memStore }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r memSchedules) ListRange(_ context.Context, from, to time.Time) ([]models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Schedule
	for id := uint(1); id <= r.nextID; id++ {
		e, ok := r.schedules[id]
		if !ok || !inRange(e.ShiftDate, from, to) {
			continue
		}
		copied := *e
		if e.StaffID != nil {
			if s, ok := r.staff[*e.StaffID]; ok {
				member := *s
				copied.Staff = &member
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r memSchedules) ListForStaff(_ context.Context, staffID uint, from, to time.Time) ([]models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Schedule
	for _, e := range r.schedules {
		if e.StaffID != nil && *e.StaffID == staffID && inRange(e.ShiftDate, from, to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r memSchedules) Exists(_ context.Context, date time.Time, shift string, staffID *uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.schedules {
		if !e.ShiftDate.Equal(date) || e.Shift != shift {
			continue
		}
		if staffID == nil && e.StaffID == nil {
			return true, nil
		}
		if staffID != nil && e.StaffID != nil && *staffID == *e.StaffID {
			return true, nil
		}
	}
	return false, nil
}

func (r memSchedules) Create(_ context.Context, e *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.id()
	copied := *e
	r.schedules[e.ID] = &copied
	return nil
}

func (r memSchedules) DeleteBlock(_ context.Context, date time.Time, shift string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.schedules {
		if e.ShiftDate.Equal(date) && e.Shift == shift {
			delete(r.schedules, id)
			n++
		}
	}
	return n, nil
}

func (r memSchedules) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r memSchedules) ShiftCounts(_ context.Context, from, to time.Time) ([]repository.ShiftCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[uint]int{}
	for _, e := range r.schedules {
		if e.StaffID != nil && inRange(e.ShiftDate, from, to) {
			counts[*e.StaffID]++
		}
	}
	var out []repository.ShiftCount
	for id, n := range counts {
		out = append(out, repository.ShiftCount{StaffID: id, Shifts: n})
	}
	return out, nil
}

type memJobs struct{ *memStore }

func (r memJobs) Create(_ context.Context, job *models.ScheduledJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = r.id()
	r.jobs = append(r.jobs, job)
	return nil
}

// ProcessDue mirrors the SQL implementation without row locks. The store
// mutex is released around handle because handlers call back into it.
func (r memJobs) ProcessDue(ctx context.Context, now time.Time, limit, maxAttempts int, handle repository.JobHandler) (int, error) {
	r.mu.Lock()
	var due []*models.ScheduledJob
	for _, job := range r.jobs {
		if job.DoneAt == nil && !job.RunAfter.After(now) && len(due) < limit {
			due = append(due, job)
		}
	}
	r.mu.Unlock()

	for _, job := range due {
		err := handle(ctx, *job)
		r.mu.Lock()
		if err != nil {
			job.Attempts++
			job.LastError = err.Error()
			if job.Attempts >= maxAttempts {
				done := now
				job.DoneAt = &done
			}
		} else {
			done := now
			job.DoneAt = &done
		}
		r.mu.Unlock()
	}
	return len(due), nil
}

type memIngredients struct{ *memStore }

func (r memIngredients) List(context.Context) ([]models.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Ingredient
	for _, i := range r.ingredients {
		out = append(out, *i)
	}
	return out, nil
}

func (r memIngredients) GetByID(_ context.Context, id uint) (*models.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.ingredients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (r memIngredients) GetByName(_ context.Context, name string) (*models.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.ingredients {
		if i.Name == name {
			copied := *i
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memIngredients) Create(_ context.Context, ingredient *models.Ingredient, supplierID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if supplierID != nil {
		if _, ok := r.suppliers[*supplierID]; !ok {
			return repository.ErrReferenced
		}
	}
	ingredient.ID = r.id()
	copied := *ingredient
	copied.SupplierID = supplierID
	r.ingredients[ingredient.ID] = &copied
	return nil
}

func (r memIngredients) Update(_ context.Context, id uint, fields map[string]interface{}, supplierID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.ingredients[id]
	if !ok {
		return repository.ErrNotFound
	}
	if name, ok := fields["ingredient_name"].(string); ok {
		for otherID, other := range r.ingredients {
			if otherID != id && other.Name == name {
				return repository.ErrDuplicate
			}
		}
		i.Name = name
	}
	if q, ok := fields["quantity"].(float64); ok {
		i.Quantity = q
	}
	if supplierID != nil {
		i.SupplierID = supplierID
	}
	return nil
}

// Delete fails like the ingredient foreign keys do once a restock or
// waste line points at the ingredient.
func (r memIngredients) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ingredients[id]; !ok {
		return repository.ErrNotFound
	}
	for _, restock := range r.restocks {
		for _, d := range restock.Details {
			if d.IngredientID == id {
				return repository.ErrReferenced
			}
		}
	}
	for _, w := range r.waste {
		for _, d := range w.Details {
			if d.IngredientID == id {
				return repository.ErrReferenced
			}
		}
	}
	delete(r.ingredients, id)
	return nil
}

type memStock struct{ *memStore }

func (r memStock) CreateRestock(_ context.Context, restock *models.Restock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[restock.SupplierID]; !ok {
		return repository.ErrReferenced
	}
	for _, d := range restock.Details {
		if _, ok := r.ingredients[d.IngredientID]; !ok {
			return repository.ErrReferenced
		}
	}
	restock.ID = r.id()
	for i := range restock.Details {
		restock.Details[i].RestockID = restock.ID
		r.ingredients[restock.Details[i].IngredientID].Quantity += restock.Details[i].ImportQuantity
	}
	copied := *restock
	r.restocks[restock.ID] = &copied
	return nil
}

func (r memStock) ListRestocks(context.Context) ([]models.Restock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Restock
	for _, restock := range r.restocks {
		out = append(out, *restock)
	}
	return out, nil
}

func (r memStock) GetRestock(_ context.Context, id uint) (*models.Restock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	restock, ok := r.restocks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *restock
	return &copied, nil
}

func (r memStock) RestocksForIngredient(context.Context, uint) ([]repository.IngredientRestock, error) {
	return nil, nil
}

func (r memStock) DailyImportTotals(context.Context, time.Time, time.Time) ([]models.DailyImportTotal, error) {
	return []models.DailyImportTotal{}, nil
}

// CreateWaste checks every line before touching stock, so a rejected batch
// leaves quantities unchanged.
func (r memStock) CreateWaste(_ context.Context, waste *models.Waste) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range waste.Details {
		i, ok := r.ingredients[d.IngredientID]
		if !ok {
			return repository.ErrReferenced
		}
		if i.Quantity < d.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	waste.ID = r.id()
	for i := range waste.Details {
		waste.Details[i].WasteID = waste.ID
		r.ingredients[waste.Details[i].IngredientID].Quantity -= waste.Details[i].Quantity
	}
	copied := *waste
	r.waste[waste.ID] = &copied
	return nil
}

func (r memStock) ListWaste(context.Context) ([]models.Waste, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Waste
	for _, w := range r.waste {
		batch := *w
		batch.Details = nil
		for _, d := range w.Details {
			if i, ok := r.ingredients[d.IngredientID]; ok {
				ingredient := *i
				d.Ingredient = &ingredient
			}
			batch.Details = append(batch.Details, d)
		}
		out = append(out, batch)
	}
	return out, nil
}

type memSuppliers struct{ *memStore }

func (r memSuppliers) List(context.Context) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Supplier
	for _, sup := range r.suppliers {
		out = append(out, *sup)
	}
	return out, nil
}

func (r memSuppliers) GetByID(_ context.Context, id uint) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sup, ok := r.suppliers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *sup
	return &copied, nil
}

func (r memSuppliers) Create(_ context.Context, supplier *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	supplier.ID = r.id()
	copied := *supplier
	r.suppliers[supplier.ID] = &copied
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderStatusChanged
	err    error
}

func (p *recordingPublisher) PublishOrderStatus(_ context.Context, e events.OrderStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type stubGateway struct {
	result    *payment.Result
	verifyErr error
	created   []payment.CreateRequest
	url       string
}

func (g *stubGateway) CreatePayment(_ context.Context, _ payment.Provider, req payment.CreateRequest) (*payment.CreateResult, error) {
	g.created = append(g.created, req)
	return &payment.CreateResult{RedirectURL: g.url}, nil
}

func (g *stubGateway) VerifyCallback(payment.Provider, []byte) (*payment.Result, error) {
	return g.result, g.verifyErr
}

type memGuard struct {
	claimed  map[string]bool
	released []string
}

func (g *memGuard) ClaimCallback(_ context.Context, provider, txn string, _ time.Duration) (bool, error) {
	key := provider + ":" + txn
	if g.claimed[key] {
		return false, nil
	}
	g.claimed[key] = true
	return true, nil
}

func (g *memGuard) ReleaseCallback(_ context.Context, provider, txn string) error {
	key := provider + ":" + txn
	delete(g.claimed, key)
	g.released = append(g.released, key)
	return nil
}

type memMenuCache struct {
	entries     map[string]interface{}
	invalidated int
}

func (c *memMenuCache) GetMenu(_ context.Context, key string, dest interface{}) error {
	v, ok := c.entries[key]
	if !ok {
		return errCacheMiss
	}
	*(dest.(*[]MenuCategory)) = v.([]MenuCategory)
	return nil
}

func (c *memMenuCache) SetMenu(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *memMenuCache) InvalidateMenu(context.Context) error {
	c.entries = map[string]interface{}{}
	c.invalidated++
	return nil
}

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache miss" }

var errCacheMiss error = cacheMissError{}
