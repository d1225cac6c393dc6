package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/service"
)

// EnrollmentsHandler exposes enrollment endpoints.
type EnrollmentsHandler struct {
	svc *service.EnrollmentService
}

// NewEnrollmentsHandler constructs handler.
func NewEnrollmentsHandler(svc *service.EnrollmentService) *EnrollmentsHandler {
	return &EnrollmentsHandler{svc: svc}
}

// List handles GET /enrollments with optional student_id and polo_id filters.
func (h *EnrollmentsHandler) List(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	enrollments, err := h.svc.ListEnrollments(session, c.Query("student_id"), c.Query("polo_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(enrollments, enrollmentResponse)})
}

// Get handles GET /enrollments/:id.
func (h *EnrollmentsHandler) Get(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	enrollment, err := h.svc.GetEnrollment(session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": enrollmentResponse(enrollment)})
}

// Create handles POST /enrollments.
func (h *EnrollmentsHandler) Create(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.EnrollmentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	enrollment, err := h.svc.Enroll(c.UserContext(), session, domain.Enrollment{
		PersonID:       req.PersonID,
		UnitID:         req.UnitID,
		Level:          domain.Level(req.Level),
		EnrollmentDate: req.EnrollmentDate.Time,
		Observations:   req.Observations,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": enrollmentResponse(enrollment)})
}

// Update handles PATCH /enrollments/:id.
func (h *EnrollmentsHandler) Update(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.EnrollmentUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	update := domain.EnrollmentUpdate{
		Observations:   req.Observations,
		CompletionDate: req.CompletionDate.TimePtr(),
	}
	if req.Level != nil {
		level := domain.Level(*req.Level)
		update.Level = &level
	}
	if req.Status != nil {
		status := domain.EnrollmentStatus(*req.Status)
		update.Status = &status
	}

	enrollment, err := h.svc.UpdateEnrollment(c.UserContext(), session, c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": enrollmentResponse(enrollment)})
}

// Cancel handles DELETE /enrollments/:id.
func (h *EnrollmentsHandler) Cancel(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.svc.CancelEnrollment(c.UserContext(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
