package service

import (
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"

	"gorm.io/gorm"
)

// DashboardStats is the network-level overview shown on the admin dashboard.
type DashboardStats struct {
	TotalStores   int64 `json:"total_stores"`
	PendingStores int64 `json:"pending_stores"`
	TotalProducts int64 `json:"total_products"`
	TotalUsers    int64 `json:"total_users"`
	LowStockRows  int64 `json:"low_stock_rows"`
	TotalSales    int64 `json:"total_sales"`
	TotalRevenue  int64 `json:"total_revenue"`
}

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
}

type dashboardService struct {
	db        *gorm.DB
	saleRepo  repository.SaleRepository
	stockRepo repository.StockRepository
}

func NewDashboardService(db *gorm.DB, saleRepo repository.SaleRepository, stockRepo repository.StockRepository) DashboardService {
	return &dashboardService{db: db, saleRepo: saleRepo, stockRepo: stockRepo}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.Model(&model.Store{}).Count(&stats.TotalStores).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Store{}).Where("status = ?", model.StorePendingApproval).Count(&stats.PendingStores).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	lowStock, err := s.stockRepo.LowStockCountAll()
	if err != nil {
		return nil, err
	}
	stats.LowStockRows = lowStock

	totalSales, err := s.saleRepo.Count()
	if err != nil {
		return nil, err
	}
	stats.TotalSales = totalSales

	revenue, err := s.saleRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue

	return &stats, nil
}
