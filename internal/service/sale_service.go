package service

import (
	"errors"
	"fmt"

	"go-retailnet/internal/access"
	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/internal/ws"
	"go-retailnet/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleService interface {
	RecordSale(ident access.Identity, storeID uuid.UUID, req *RecordSaleRequest) (*model.Sale, error)
	GetSales(ident access.Identity) ([]model.Sale, error)
	GetStoreSales(ident access.Identity, storeID uuid.UUID) ([]model.Sale, error)
	GetStoreInventory(ident access.Identity, storeID uuid.UUID) ([]StoreInventoryItem, error)
}

// SaleLine is one requested line item. Price is the caller-supplied unit
// price, snapshotted onto the SaleItem.
type SaleLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Price     int64     `json:"price" validate:"gte=0"`
}

type RecordSaleRequest struct {
	Items []SaleLine `json:"items" validate:"required,min=1,dive"`
}

// StoreInventoryItem is one row of the store inventory view: the product,
// its current ledger quantity, and the last few sales touching it.
type StoreInventoryItem struct {
	Product      model.Product `json:"product"`
	CurrentStock int           `json:"current_stock"`
	LowStock     bool          `json:"low_stock"`
	Sales        []model.Sale  `json:"sales"`
}

type saleService struct {
	storeRepo repository.StoreRepository
	saleRepo  repository.SaleRepository
	stockRepo repository.StockRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewSaleService(storeRepo repository.StoreRepository, saleRepo repository.SaleRepository, stockRepo repository.StockRepository, db *gorm.DB, hub *ws.Hub) SaleService {
	return &saleService{
		storeRepo: storeRepo,
		saleRepo:  saleRepo,
		stockRepo: stockRepo,
		db:        db,
		wsHub:     hub,
	}
}

// RecordSale creates a COMPLETED sale and applies one negative ledger
// delta per line, all within a single transaction. Any failing line
// rolls back the whole sale: no partial writes.
func (s *saleService) RecordSale(ident access.Identity, storeID uuid.UUID, req *RecordSaleRequest) (*model.Sale, error) {
	if !ident.CanCreateSales() {
		return nil, apperr.Forbidden("only sales users can record transactions")
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		return nil, apperr.NotFound("store not found")
	}
	if store.Status != model.StoreActive {
		return nil, apperr.Conflict("store is not active")
	}

	allowed, err := access.CanAccessStore(s.db, ident, storeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("you are not assigned to this store")
	}

	var saleID uuid.UUID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		sale := model.Sale{
			StoreID: storeID,
			UserID:  ident.UserID,
			Status:  model.SaleCompleted,
		}
		sale.CreatedBy = ident.UserID.String()
		sale.UpdatedBy = ident.UserID.String()

		for _, line := range req.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validation(fmt.Sprintf("product %s not found", line.ProductID))
				}
				return err
			}

			sale.Total += line.Price * int64(line.Quantity)
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}

		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		// The sufficiency check and the decrement share the lock taken by
		// ApplyDelta, closing the check-then-act race between sales.
		for _, line := range req.Items {
			if err := s.stockRepo.ApplyDelta(tx, storeID, line.ProductID, -line.Quantity); err != nil {
				return err
			}
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.PublishEvent("sale_recorded", map[string]interface{}{
			"sale_id":  sale.ID,
			"store_id": sale.StoreID,
			"total":    sale.Total,
			"user": map[string]interface{}{
				"id":   ident.UserID,
				"name": ident.Name,
			},
		})
	}

	return sale, nil
}

// GetSales lists transactions across all stores: admins see the whole
// network, salespeople only rows they authored.
func (s *saleService) GetSales(ident access.Identity) ([]model.Sale, error) {
	return s.saleRepo.FindAll(access.SaleScope(ident))
}

func (s *saleService) GetStoreSales(ident access.Identity, storeID uuid.UUID) ([]model.Sale, error) {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		return nil, apperr.NotFound("store not found")
	}
	return s.saleRepo.FindByStore(storeID, access.SaleScope(ident))
}

// GetStoreInventory returns the per-product ledger quantity plus the
// last 3 sales for each stocked product.
func (s *saleService) GetStoreInventory(ident access.Identity, storeID uuid.UUID) ([]StoreInventoryItem, error) {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		return nil, apperr.NotFound("store not found")
	}

	allowed, err := access.CanAccessStore(s.db, ident, storeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("you don't have access to this store")
	}

	stocks, err := s.stockRepo.FindByStore(storeID)
	if err != nil {
		return nil, err
	}

	items := make([]StoreInventoryItem, 0, len(stocks))
	for _, stock := range stocks {
		if stock.Product == nil {
			continue
		}
		sales, err := s.saleRepo.RecentForProduct(storeID, stock.ProductID, 3)
		if err != nil {
			return nil, err
		}
		items = append(items, StoreInventoryItem{
			Product:      *stock.Product,
			CurrentStock: stock.Quantity,
			LowStock:     model.IsLowStock(stock.Quantity, stock.Product.MinStockLevel),
			Sales:        sales,
		})
	}
	return items, nil
}
