package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/service"
)

// CertificatesHandler exposes certificate endpoints.
type CertificatesHandler struct {
	svc *service.CertificateService
}

// NewCertificatesHandler constructs handler.
func NewCertificatesHandler(svc *service.CertificateService) *CertificatesHandler {
	return &CertificatesHandler{svc: svc}
}

// List handles GET /certificates.
func (h *CertificatesHandler) List(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	certs, err := h.svc.List(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(certs, certificateResponse)})
}

// Issue handles POST /certificates.
func (h *CertificatesHandler) Issue(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.IssueCertificateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	cert, err := h.svc.Issue(c.UserContext(), session, service.IssueInput{
		EnrollmentID:   req.EnrollmentID,
		Grade:          req.Grade,
		HoursCompleted: req.HoursCompleted,
		IssueDate:      req.IssueDate.Time,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": certificateResponse(cert)})
}

// Verify handles GET /certificates/verify/:number. It needs no session.
func (h *CertificatesHandler) Verify(c *fiber.Ctx) error {
	cert, err := h.svc.Verify(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": certificateResponse(cert)})
}

// Invalidate handles DELETE /certificates/:id.
func (h *CertificatesHandler) Invalidate(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.svc.Invalidate(c.UserContext(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
