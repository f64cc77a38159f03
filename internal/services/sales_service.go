package services

import (
	"context"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"
)

type SalesService interface {
	DailyCounts(ctx context.Context, year, month int) ([]models.DailyCount, error)
	Revenue(ctx context.Context) ([]models.DailyRevenue, error)
}

type salesService struct {
	sales repository.SaleRepository
}

func NewSalesService(sales repository.SaleRepository) SalesService {
	return &salesService{sales: sales}
}

func (s *salesService) DailyCounts(ctx context.Context, year, month int) ([]models.DailyCount, error) {
	from, to, err := monthRange(month, year)
	if err != nil {
		return nil, err
	}
	counts, err := s.sales.DailyOrderCounts(ctx, from, to)
	if counts == nil {
		counts = []models.DailyCount{}
	}
	return counts, fromRepo(err, "daily order counts", "")
}

// Revenue totals completed orders per day, newest first.
func (s *salesService) Revenue(ctx context.Context) ([]models.DailyRevenue, error) {
	revenue, err := s.sales.DailyRevenue(ctx)
	if revenue == nil {
		revenue = []models.DailyRevenue{}
	}
	return revenue, fromRepo(err, "daily revenue", "")
}
