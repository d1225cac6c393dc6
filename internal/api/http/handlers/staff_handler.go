package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/service"
)

// StaffHandler exposes admin identity and staff member endpoints.
type StaffHandler struct {
	svc *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

// ListAdmins handles GET /admins.
func (h *StaffHandler) ListAdmins(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	admins, err := h.svc.ListAdmins(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(admins, adminResponse)})
}

// CreateAdmin handles POST /admins.
func (h *StaffHandler) CreateAdmin(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.AdminCreateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	admin, err := h.svc.CreateAdmin(c.UserContext(), session, service.AdminInput{
		Name:        req.Name,
		Email:       req.Email,
		TaxID:       req.TaxID,
		Phone:       req.Phone,
		Role:        domain.Role(req.Role),
		AccessLevel: domain.AccessLevel(req.AccessLevel),
		UnitID:      req.UnitID,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adminResponse(admin)})
}

// UpdateAdmin handles PATCH /admins/:id.
func (h *StaffHandler) UpdateAdmin(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.AdminUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	update := service.AdminUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		UnitID:   req.UnitID,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		update.Role = &role
	}
	if req.AccessLevel != nil {
		level := domain.AccessLevel(*req.AccessLevel)
		update.AccessLevel = &level
	}
	admin, err := h.svc.UpdateAdmin(c.UserContext(), session, c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(admin)})
}

// DeactivateAdmin handles DELETE /admins/:id.
func (h *StaffHandler) DeactivateAdmin(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeactivateAdmin(c.UserContext(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListStaff handles GET /staff with an optional polo_id filter.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	members, err := h.svc.ListStaff(c.UserContext(), session, c.Query("polo_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(members, staffResponse)})
}

// GetStaff handles GET /staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	member, err := h.svc.GetStaff(c.UserContext(), session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// CreateStaff handles POST /staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.StaffRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	member, err := h.svc.CreateStaff(c.UserContext(), session, domain.StaffMember{
		Name:           req.Name,
		TaxID:          req.TaxID,
		Phone:          req.Phone,
		Email:          req.Email,
		Role:           domain.Role(req.Role),
		UnitID:         req.UnitID,
		Qualifications: req.Qualifications,
		HireDate:       req.HireDate.Time,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(member)})
}

// UpdateStaff handles PATCH /staff/:id.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.StaffUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	update := service.StaffUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		UnitID:         req.UnitID,
		Qualifications: req.Qualifications,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		update.Role = &role
	}
	member, err := h.svc.UpdateStaff(c.UserContext(), session, c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

// DeactivateStaff handles DELETE /staff/:id.
func (h *StaffHandler) DeactivateStaff(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeactivateStaff(c.UserContext(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
