package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/service"
)

// UnitsHandler exposes polo endpoints.
type UnitsHandler struct {
	svc *service.EnrollmentService
}

// NewUnitsHandler constructs handler.
func NewUnitsHandler(svc *service.EnrollmentService) *UnitsHandler {
	return &UnitsHandler{svc: svc}
}

// List handles GET /units.
func (h *UnitsHandler) List(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	units, err := h.svc.ListUnits(session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(units, unitResponse)})
}

// Get handles GET /units/:id.
func (h *UnitsHandler) Get(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	unit, err := h.svc.GetUnit(session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": unitResponse(unit)})
}

// Create handles POST /units.
func (h *UnitsHandler) Create(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.UnitRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	unit, err := h.svc.CreateUnit(c.UserContext(), session, unitDomain(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": unitResponse(unit)})
}

// Replace handles PUT /units/:id.
func (h *UnitsHandler) Replace(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.UnitRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	unit, err := h.svc.UpdateUnit(c.UserContext(), session, c.Params("id"), unitDomain(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": unitResponse(unit)})
}

// Delete handles DELETE /units/:id.
func (h *UnitsHandler) Delete(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.svc.RemoveUnit(c.UserContext(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
