package service

import (
	"fmt"
	"time"

	"go-retailnet/internal/access"
	"go-retailnet/internal/apperr"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/internal/ws"
	"go-retailnet/pkg/validator"

	"github.com/google/uuid"
)

type ProductService interface {
	CreateProduct(ident access.Identity, req *CreateProductRequest) (*model.ProductResponse, error)
	GetProducts(ident access.Identity) ([]model.ProductResponse, error)
	UpdateProduct(ident access.Identity, id uuid.UUID, req *UpdateProductRequest) (*model.ProductResponse, error)
	DeleteProduct(ident access.Identity, id uuid.UUID) error
}

type CreateProductRequest struct {
	SKU           string  `json:"sku" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         int64   `json:"price" validate:"gte=0"`
	MinStockLevel *int    `json:"min_stock_level" validate:"omitempty,gte=0"`
	ExpiryDate    *string `json:"expiry_date"` // Format: YYYY-MM-DD
}

// UpdateProductRequest is a partial update; nil fields stay untouched.
type UpdateProductRequest struct {
	SKU           *string `json:"sku"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Price         *int64  `json:"price" validate:"omitempty,gte=0"`
	MinStockLevel *int    `json:"min_stock_level" validate:"omitempty,gte=0"`
	ExpiryDate    *string `json:"expiry_date"`
}

type productService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewProductService(productRepo repository.ProductRepository, hub *ws.Hub) ProductService {
	return &productService{productRepo: productRepo, wsHub: hub}
}

func (s *productService) CreateProduct(ident access.Identity, req *CreateProductRequest) (*model.ProductResponse, error) {
	if !ident.CanWriteProducts() {
		return nil, apperr.Forbidden("only admins can create products")
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.Validation(fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return nil, apperr.Conflict("SKU already exists")
	}

	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	userID := ident.UserID.String()
	product := &model.Product{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		MinStockLevel:   10,
		ExpiryDate:      expiry,
		CreatedByUserID: &userID,
	}
	if req.MinStockLevel != nil {
		product.MinStockLevel = *req.MinStockLevel
	}
	product.CreatedBy = userID
	product.UpdatedBy = userID

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.PublishEvent("product_created", map[string]interface{}{
			"id":   product.ID,
			"sku":  product.SKU,
			"name": product.Name,
		})
	}

	resp := product.ToResponse()
	return &resp, nil
}

func (s *productService) GetProducts(ident access.Identity) ([]model.ProductResponse, error) {
	products, err := s.productRepo.FindAll(access.ProductScope(ident))
	if err != nil {
		return nil, err
	}
	responses := make([]model.ProductResponse, len(products))
	for i := range products {
		responses[i] = products[i].ToResponse()
	}
	return responses, nil
}

func (s *productService) UpdateProduct(ident access.Identity, id uuid.UUID, req *UpdateProductRequest) (*model.ProductResponse, error) {
	if !ident.CanWriteProducts() {
		return nil, apperr.Forbidden("only admins can update products")
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	if req.SKU != nil && *req.SKU != product.SKU {
		existing, _ := s.productRepo.FindBySKU(*req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return nil, apperr.Conflict("SKU already exists")
		}
		product.SKU = *req.SKU
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("price must be non-negative")
		}
		product.Price = *req.Price
	}
	if req.MinStockLevel != nil {
		if *req.MinStockLevel < 0 {
			return nil, apperr.Validation("min_stock_level must be non-negative")
		}
		product.MinStockLevel = *req.MinStockLevel
	}
	if req.ExpiryDate != nil {
		expiry, err := parseDate(req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		product.ExpiryDate = expiry
	}
	product.UpdatedBy = ident.UserID.String()

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	resp := product.ToResponse()
	return &resp, nil
}

// DeleteProduct refuses to remove products referenced by sale or delivery
// history; corrections there happen by compensating records instead.
func (s *productService) DeleteProduct(ident access.Identity, id uuid.UUID) error {
	if !ident.CanWriteProducts() {
		return apperr.Forbidden("only admins can delete products")
	}

	if _, err := s.productRepo.FindByID(id); err != nil {
		return apperr.NotFound("product not found")
	}

	hasHistory, err := s.productRepo.HasHistory(id)
	if err != nil {
		return err
	}
	if hasHistory {
		return apperr.Conflict("product is referenced by sale or delivery history")
	}

	return s.productRepo.Delete(id)
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, apperr.Validation("invalid date format, use YYYY-MM-DD")
	}
	return &parsed, nil
}
