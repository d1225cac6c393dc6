package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/access"
	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/service"
	"github.com/spec-kit/enrollment-service/internal/store"
)

// AuthHandler exposes login, logout and session endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	store *store.Store
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, st *store.Store) *AuthHandler {
	return &AuthHandler{auth: authService, store: st}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	session, token, exp, err := h.auth.Login(c.UserContext(), req.Identifier, req.Password, domain.SessionKind(req.Kind))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": h.sessionResponse(session),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), claims.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.sessionResponse(session)})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), session, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

func (h *AuthHandler) sessionResponse(session *domain.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		Kind:           string(session.Kind),
		GeneralAccess:  access.HasGeneralAccess(session),
		AllowedUnitIDs: access.AllowedUnitIDs(session, h.store.Units()),
	}
	if level, ok := access.CurrentAccessLevel(session); ok {
		resp.AccessLevel = string(level)
	}
	switch {
	case session.IsAdmin():
		admin := adminResponse(*session.Admin)
		resp.Admin = &admin
	case session.Person != nil:
		person := personResponse(*session.Person)
		resp.Person = &person
	}
	return resp
}
