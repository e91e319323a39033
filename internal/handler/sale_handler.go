package handler

import (
	"go-retailnet/internal/middleware"
	"go-retailnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// GetSales lists transactions network-wide for the admin transactions
// view; salespeople get only rows they authored
// GET /api/v1/transactions
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetSales(middleware.Identity(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": sales})
}

// GetStoreSales lists a store's sales; salespeople see only rows they authored
// GET /api/v1/stores/:id/transactions
func (h *SaleHandler) GetStoreSales(c *fiber.Ctx) error {
	storeID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid store ID"})
	}

	sales, err := h.service.GetStoreSales(middleware.Identity(c), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": sales})
}

// RecordSale records a point-of-sale transaction against a store
// POST /api/v1/stores/:id/transactions
func (h *SaleHandler) RecordSale(c *fiber.Ctx) error {
	storeID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid store ID"})
	}

	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.RecordSale(middleware.Identity(c), storeID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "sale": sale})
}

// GetStoreInventory returns per-product current stock plus recent sales
// GET /api/v1/stores/:id/inventory
func (h *SaleHandler) GetStoreInventory(c *fiber.Ctx) error {
	storeID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid store ID"})
	}

	inventory, err := h.service.GetStoreInventory(middleware.Identity(c), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"inventory": inventory})
}
