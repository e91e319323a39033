package handler

import (
	"go-retailnet/internal/middleware"
	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
	"go-retailnet/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DeliveryHandler struct {
	service service.DeliveryService
}

func NewDeliveryHandler(s service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: s}
}

// GetDeliveries lists deliveries; optional ?status= and ?store_id= filters
// GET /api/v1/deliveries
func (h *DeliveryHandler) GetDeliveries(c *fiber.Ctx) error {
	filter := repository.DeliveryFilter{
		Status: model.DeliveryStatus(c.Query("status")),
	}
	if storeParam := c.Query("store_id"); storeParam != "" {
		storeID, err := uuid.Parse(storeParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid store_id filter"})
		}
		filter.StoreID = storeID
	}

	deliveries, err := h.service.GetDeliveries(middleware.Identity(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deliveries": deliveries})
}

// CreateDelivery registers a PENDING delivery
// POST /api/v1/deliveries
func (h *DeliveryHandler) CreateDelivery(c *fiber.Ctx) error {
	var req service.CreateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	delivery, err := h.service.CreateDelivery(middleware.Identity(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Delivery created", "delivery": delivery})
}

// GetDelivery returns one delivery (admin or owning salesman)
// GET /api/v1/deliveries/:id
func (h *DeliveryHandler) GetDelivery(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	delivery, err := h.service.GetDelivery(middleware.Identity(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"delivery": delivery})
}

// UpdateDelivery applies a status transition and/or notes update
// PATCH /api/v1/deliveries/:id
func (h *DeliveryHandler) UpdateDelivery(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	var req service.UpdateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	delivery, err := h.service.UpdateDelivery(middleware.Identity(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Delivery updated", "delivery": delivery})
}

// DeleteDelivery removes a PENDING delivery (owner only)
// DELETE /api/v1/deliveries/:id
func (h *DeliveryHandler) DeleteDelivery(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid delivery ID"})
	}

	if err := h.service.DeleteDelivery(middleware.Identity(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
