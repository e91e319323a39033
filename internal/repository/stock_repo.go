package repository

import (
	"errors"

	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRepository interface {
	ApplyDelta(tx *gorm.DB, storeID, productID uuid.UUID, delta int) error
	FindForUpdate(tx *gorm.DB, storeID, productID uuid.UUID) (*model.StoreStock, error)
	FindByStore(storeID uuid.UUID) ([]model.StoreStock, error)
	LowStockCount(storeID uuid.UUID) (int64, error)
	LowStockCountAll() (int64, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// ApplyDelta mutates the (store, product) ledger row inside the caller's
// transaction. A missing row is created only for non-negative deltas; a
// delta that would drive quantity below zero is rejected without applying.
func (r *stockRepo) ApplyDelta(tx *gorm.DB, storeID, productID uuid.UUID, delta int) error {
	stock, err := r.FindForUpdate(tx, storeID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if delta < 0 {
			// No ledger row to decrement: nothing was ever stocked here.
			return apperr.Conflict("insufficient stock: no inventory for product at this store")
		}
		stock = &model.StoreStock{StoreID: storeID, ProductID: productID, Quantity: delta}
		return tx.Create(stock).Error
	}
	if err != nil {
		return err
	}

	newQuantity := stock.Quantity + delta
	if newQuantity < 0 {
		return apperr.Conflict("insufficient stock")
	}

	return tx.Model(&model.StoreStock{}).
		Where("id = ?", stock.ID).
		Update("quantity", newQuantity).Error
}

// FindForUpdate locks the ledger row so concurrent sales against the same
// (store, product) serialize and cannot jointly oversell.
func (r *stockRepo) FindForUpdate(tx *gorm.DB, storeID, productID uuid.UUID) (*model.StoreStock, error) {
	var stock model.StoreStock
	err := lockForUpdate(tx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepo) FindByStore(storeID uuid.UUID) ([]model.StoreStock, error) {
	var stocks []model.StoreStock
	err := r.db.Preload("Product").Where("store_id = ?", storeID).Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) LowStockCount(storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.StoreStock{}).
		Joins("JOIN products ON products.id = store_stocks.product_id").
		Where("store_stocks.store_id = ? AND store_stocks.quantity <= products.min_stock_level", storeID).
		Count(&count).Error
	return count, err
}

func (r *stockRepo) LowStockCountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.StoreStock{}).
		Joins("JOIN products ON products.id = store_stocks.product_id").
		Where("store_stocks.quantity <= products.min_stock_level").
		Count(&count).Error
	return count, err
}
