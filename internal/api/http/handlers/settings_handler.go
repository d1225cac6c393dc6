package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enrollment-service/internal/api/dto"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/service"
)

// SettingsHandler exposes institution settings and statistics.
type SettingsHandler struct {
	svc *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// List handles GET /settings, optionally filtered by category.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	settings, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	category := c.Query("category")
	resp := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		if category != "" && s.Category != category {
			continue
		}
		resp = append(resp, settingResponse(s))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /settings/:key.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	setting, err := h.svc.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingResponse(setting)})
}

// Put handles PUT /settings/:key.
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	var req dto.SettingRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	setting, err := h.svc.Put(c.UserContext(), session, domain.Setting{
		Key:         c.Params("key"),
		Value:       req.Value,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingResponse(setting)})
}

// Stats handles GET /stats.
func (h *SettingsHandler) Stats(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Stats(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		ActivePersons:        stats.ActivePersons,
		ActiveUnits:          stats.ActiveUnits,
		ActiveEnrollments:    stats.ActiveEnrollments,
		CompletedEnrollments: stats.CompletedEnrollments,
		ValidCertificates:    stats.ValidCertificates,
	}})
}

// UnitStats handles GET /stats/units.
func (h *SettingsHandler) UnitStats(c *fiber.Ctx) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.UnitStats(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapSlice(stats, func(s domain.UnitStats) dto.UnitStatsResponse {
		return dto.UnitStatsResponse{
			UnitID:               s.UnitID,
			UnitName:             s.UnitName,
			ActiveEnrollments:    s.ActiveEnrollments,
			CompletedEnrollments: s.CompletedEnrollments,
		}
	})})
}
