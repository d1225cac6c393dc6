package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/service"
)

// PersonsHandler exposes student endpoints.
type PersonsHandler struct {
	svc *service.EnrollmentService
}

// NewPersonsHandler constructs handler.
func NewPersonsHandler(svc *service.EnrollmentService) *PersonsHandler {
	return &PersonsHandler{svc: svc}
}

// List handles GET /students.
func (h *PersonsHandler) List(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	persons, err := h.svc.ListPersons(session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(persons, personResponse)})
}

// Get handles GET /students/:id.
func (h *PersonsHandler) Get(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	person, err := h.svc.GetPerson(session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": personResponse(person)})
}

// Create handles POST /students.
func (h *PersonsHandler) Create(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.PersonRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	person, err := h.svc.CreatePerson(c.UserContext(), session, domain.Person{
		Name:      req.Name,
		BirthDate: req.BirthDate.Time,
		TaxID:     req.TaxID,
		Gender:    domain.Gender(req.Gender),
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   addressDomain(req.Address),
		Guardians: guardiansDomain(req.Guardians),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": personResponse(person)})
}

// Update handles PATCH /students/:id.
func (h *PersonsHandler) Update(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.PersonUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	update := domain.PersonUpdate{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	if req.BirthDate != nil {
		birth := req.BirthDate.Time
		update.BirthDate = &birth
	}
	if req.Gender != nil {
		gender := domain.Gender(*req.Gender)
		update.Gender = &gender
	}
	if req.Address != nil {
		address := addressDomain(*req.Address)
		update.Address = &address
	}
	if req.Guardians != nil {
		guardians := guardiansDomain(*req.Guardians)
		update.Guardians = &guardians
	}

	person, err := h.svc.UpdatePerson(c.UserContext(), session, c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": personResponse(person)})
}

// Delete handles DELETE /students/:id.
func (h *PersonsHandler) Delete(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.svc.RemovePerson(c.UserContext(), session, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
