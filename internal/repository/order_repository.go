package repository

import (
	"context"
	"time"

	"restaurant_backend/internal/models"

	"gorm.io/gorm"
)

// SaleListOptions orders the staff-facing order listing.
type SaleListOptions struct {
	SortBy     string // "time" or "total_price"
	Descending bool
}

type SaleRepository interface {
	// CreateOrder inserts the sale with its line items, redeems
	// sale.LoyaltyPointsUsed and enqueues job (when non-nil) atomically.
	CreateOrder(ctx context.Context, sale *models.Sale, job *models.ScheduledJob) error
	GetByID(ctx context.Context, id uint) (*models.Sale, error)
	List(ctx context.Context, opts SaleListOptions) ([]models.Sale, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Sale, error)
	ListByGuestPhone(ctx context.Context, phone string) ([]models.Sale, error)
	// UpdateStatus applies fields only while the sale is still in status from.
	UpdateStatus(ctx context.Context, id uint, from models.OrderStatus, fields map[string]interface{}) error
	// CompleteWithAward moves the sale from -> Completed (or keeps it
	// Completed) and credits points to the customer in one transaction.
	// Points are credited at most once per sale.
	CompleteWithAward(ctx context.Context, id uint, from models.OrderStatus, customerID uint, points int, at time.Time) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	DailyOrderCounts(ctx context.Context, from, to time.Time) ([]models.DailyCount, error)
	DailyRevenue(ctx context.Context) ([]models.DailyRevenue, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) CreateOrder(ctx context.Context, sale *models.Sale, job *models.ScheduledJob) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sale.LoyaltyPointsUsed > 0 {
			res := tx.Model(&models.Customer{}).
				Where("customer_id = ? AND loyalty_point >= ?", sale.CustomerID, sale.LoyaltyPointsUsed).
				Update("loyalty_point", gorm.Expr("loyalty_point - ?", sale.LoyaltyPointsUsed))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientPoint
			}
		}

		if err := tx.Omit("Customer").Create(sale).Error; err != nil {
			return err
		}

		if job != nil {
			job.SaleID = sale.ID
			if err := tx.Create(job).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

func (r *saleRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Customer").Preload("Items.Recipe")
}

func (r *saleRepository) GetByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.withDetails(ctx).First(&sale, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, opts SaleListOptions) ([]models.Sale, error) {
	column := "sale_time"
	if opts.SortBy == "total_price" {
		column = "total_amount"
	}
	direction := " ASC"
	if opts.Descending {
		direction = " DESC"
	}

	var sales []models.Sale
	err := r.withDetails(ctx).Order(column + direction).Find(&sales).Error
	return sales, translate(err)
}

func (r *saleRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.withDetails(ctx).Where("customer_id = ?", customerID).Order("sale_time DESC").Find(&sales).Error
	return sales, translate(err)
}

func (r *saleRepository) ListByGuestPhone(ctx context.Context, phone string) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.withDetails(ctx).
		Joins("JOIN customer ON customer.customer_id = sale.customer_id").
		Where("customer.phone = ? AND customer.customer_name LIKE ?", phone, models.GuestPrefix+"%").
		Order("sale.sale_time DESC").
		Find(&sales).Error
	return sales, translate(err)
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uint, from models.OrderStatus, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Sale{}).
		Where("sale_id = ? AND status = ?", id, string(from)).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *saleRepository) CompleteWithAward(ctx context.Context, id uint, from models.OrderStatus, customerID uint, points int, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Sale{}).
			Where("sale_id = ? AND status IN ? AND points_awarded = ?", id,
				[]string{string(from), string(models.OrderCompleted)}, false).
			Updates(map[string]interface{}{
				"status":          string(models.OrderCompleted),
				"completion_time": gorm.Expr("COALESCE(completion_time, ?)", at),
				"points_awarded":  true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleState
		}
		if points <= 0 {
			return nil
		}
		return tx.Model(&models.Customer{}).
			Where("customer_id = ?", customerID).
			Update("loyalty_point", gorm.Expr("loyalty_point + ?", points)).Error
	})
	return translate(err)
}

func (r *saleRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Sale{}).Where("sale_id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepository) DailyOrderCounts(ctx context.Context, from, to time.Time) ([]models.DailyCount, error) {
	var counts []models.DailyCount
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Select("CAST(EXTRACT(DAY FROM sale_time) AS INTEGER) AS day, COUNT(*) AS count").
		Where("sale_time >= ? AND sale_time < ?", from, to).
		Group("day").
		Order("day").
		Scan(&counts).Error
	return counts, translate(err)
}

func (r *saleRepository) DailyRevenue(ctx context.Context) ([]models.DailyRevenue, error) {
	var revenue []models.DailyRevenue
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Select("TO_CHAR(DATE(completion_time), 'YYYY-MM-DD') AS date, COUNT(*) AS orders, SUM(total_amount) AS revenue").
		Where("status = ? AND completion_time IS NOT NULL", string(models.OrderCompleted)).
		Group("date").
		Order("date DESC").
		Scan(&revenue).Error
	return revenue, translate(err)
}
