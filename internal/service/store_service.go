package service

import (
	"fmt"
	"time"

	"go-retailnet/internal/access"
	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreService interface {
	CreateStore(ident access.Identity, req *CreateStoreRequest) (*model.Store, error)
	GetStores(ident access.Identity) ([]model.StoreResponse, error)
	GetStore(ident access.Identity, id uuid.UUID) (*model.Store, error)
	UpdateStore(ident access.Identity, id uuid.UUID, req *UpdateStoreRequest) (*model.Store, error)
	DeleteStore(ident access.Identity, id uuid.UUID) error
}

type CreateStoreRequest struct {
	Name       string          `json:"name" validate:"required"`
	OwnerName  string          `json:"owner_name" validate:"required"`
	OwnerPhone string          `json:"owner_phone" validate:"required"`
	OwnerEmail string          `json:"owner_email" validate:"omitempty,email"`
	Address    string          `json:"address" validate:"required"`
	City       string          `json:"city" validate:"required"`
	Province   string          `json:"province" validate:"required"`
	Type       model.StoreType `json:"type" validate:"required,oneof=RETAIL WHOLESALE SUPERMARKET MINIMARKET TRADITIONAL"`
	Latitude   float64         `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64         `json:"longitude" validate:"gte=-180,lte=180"`
	PhotoURL   string          `json:"photo_url"`
	Notes      string          `json:"notes"`
}

// UpdateStoreRequest is a partial update; nil fields are left untouched.
// Status "APPROVED" is accepted as an alias for ACTIVE.
type UpdateStoreRequest struct {
	Name       *string `json:"name"`
	OwnerName  *string `json:"owner_name"`
	OwnerPhone *string `json:"owner_phone"`
	OwnerEmail *string `json:"owner_email"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
	Notes      *string `json:"notes"`
	PhotoURL   *string `json:"photo_url"`
	Status     *string `json:"status"`
}

type storeService struct {
	storeRepo repository.StoreRepository
	saleRepo  repository.SaleRepository
	stockRepo repository.StockRepository
	db        *gorm.DB
}

func NewStoreService(storeRepo repository.StoreRepository, saleRepo repository.SaleRepository, stockRepo repository.StockRepository, db *gorm.DB) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		saleRepo:  saleRepo,
		stockRepo: stockRepo,
		db:        db,
	}
}

// CreateStore registers a new outlet at PENDING_APPROVAL and assigns the
// creator as staff so the store is visible to them immediately.
func (s *storeService) CreateStore(ident access.Identity, req *CreateStoreRequest) (*model.Store, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	store := &model.Store{
		Name:       req.Name,
		OwnerName:  req.OwnerName,
		OwnerPhone: req.OwnerPhone,
		OwnerEmail: req.OwnerEmail,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		Type:       req.Type,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		PhotoURL:   req.PhotoURL,
		Notes:      req.Notes,
		Status:     model.StorePendingApproval,
	}
	store.CreatedBy = ident.UserID.String()
	store.UpdatedBy = ident.UserID.String()

	if err := s.storeRepo.Create(store, ident.UserID); err != nil {
		return nil, err
	}
	return store, nil
}

// GetStores lists stores visible to the requester, each with derived stats.
func (s *storeService) GetStores(ident access.Identity) ([]model.StoreResponse, error) {
	stores, err := s.storeRepo.FindAll(access.StoreScope(ident))
	if err != nil {
		return nil, err
	}

	responses := make([]model.StoreResponse, 0, len(stores))
	for _, store := range stores {
		stocks, err := s.stockRepo.FindByStore(store.ID)
		if err != nil {
			return nil, err
		}
		lowStock, err := s.stockRepo.LowStockCount(store.ID)
		if err != nil {
			return nil, err
		}
		totalSales, err := s.saleRepo.CountByStore(store.ID)
		if err != nil {
			return nil, err
		}
		lastSale, err := s.saleRepo.LastSaleAt(store.ID)
		if err != nil {
			return nil, err
		}

		responses = append(responses, model.StoreResponse{
			Store: store,
			Stats: model.StoreStats{
				TotalProducts: int64(len(stocks)),
				TotalSales:    totalSales,
				LastSale:      lastSale,
				LowStock:      lowStock,
			},
		})
	}
	return responses, nil
}

func (s *storeService) GetStore(ident access.Identity, id uuid.UUID) (*model.Store, error) {
	store, err := s.storeRepo.FindDetail(id)
	if err != nil {
		return nil, apperr.NotFound("store not found")
	}

	allowed, err := access.CanAccessStore(s.db, ident, store.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("you don't have access to this store")
	}
	return store, nil
}

// UpdateStore is admin-only: edits, approval (→ACTIVE, recording approver
// and timestamp), and deactivation.
func (s *storeService) UpdateStore(ident access.Identity, id uuid.UUID, req *UpdateStoreRequest) (*model.Store, error) {
	if !ident.CanManageStores() {
		return nil, apperr.Forbidden("only admins can update stores")
	}

	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("store not found")
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.OwnerName != nil {
		store.OwnerName = *req.OwnerName
	}
	if req.OwnerPhone != nil {
		store.OwnerPhone = *req.OwnerPhone
	}
	if req.OwnerEmail != nil {
		store.OwnerEmail = *req.OwnerEmail
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.City != nil {
		store.City = *req.City
	}
	if req.Province != nil {
		store.Province = *req.Province
	}
	if req.Notes != nil {
		store.Notes = *req.Notes
	}
	if req.PhotoURL != nil {
		store.PhotoURL = *req.PhotoURL
	}

	if req.Status != nil {
		status := model.StoreStatus(*req.Status)
		if status == "APPROVED" {
			status = model.StoreActive
		}
		switch status {
		case model.StoreActive:
			if store.Status != model.StoreActive {
				now := time.Now()
				approver := ident.UserID.String()
				store.ApprovedAt = &now
				store.ApprovedByID = &approver
			}
			store.Status = model.StoreActive
		case model.StoreInactive:
			store.Status = model.StoreInactive
		case model.StorePendingApproval:
			store.Status = model.StorePendingApproval
		default:
			return nil, apperr.Validation("invalid store status")
		}
	}

	store.UpdatedBy = ident.UserID.String()
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) DeleteStore(ident access.Identity, id uuid.UUID) error {
	if !ident.CanManageStores() {
		return apperr.Forbidden("only admins can delete stores")
	}
	if _, err := s.storeRepo.FindByID(id); err != nil {
		return apperr.NotFound("store not found")
	}
	return s.storeRepo.Delete(id)
}
