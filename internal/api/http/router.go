package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/enrollment-service/internal/api/http/handlers"
	"github.com/spec-kit/enrollment-service/internal/auth"
	"github.com/spec-kit/enrollment-service/internal/domain"
	"github.com/spec-kit/enrollment-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Persons        *handlers.PersonsHandler
	Units          *handlers.UnitsHandler
	Enrollments    *handlers.EnrollmentsHandler
	Certificates   *handlers.CertificatesHandler
	Staff          *handlers.StaffHandler
	Settings       *handlers.SettingsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if reg := cfg.Metrics.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	app.Post("/auth/login", cfg.Auth.Login)
	app.Get("/certificates/verify/:number", cfg.Certificates.Verify)
	app.Get("/settings", cfg.Settings.List)
	app.Get("/settings/:key", cfg.Settings.Get)

	session := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnySession())
	session.Post("/auth/logout", cfg.Auth.Logout)
	session.Post("/auth/password/change", cfg.Auth.ChangePassword)
	session.Get("/me", cfg.Auth.Me)
	session.Get("/students/:id", cfg.Persons.Get)
	session.Get("/units", cfg.Units.List)
	session.Get("/enrollments", cfg.Enrollments.List)
	session.Get("/enrollments/:id", cfg.Enrollments.Get)
	session.Get("/certificates", cfg.Certificates.List)

	admin := session.Group("", auth.RequireAdmin())
	admin.Get("/students", cfg.Persons.List)
	admin.Post("/students", cfg.Persons.Create)
	admin.Patch("/students/:id", cfg.Persons.Update)
	admin.Delete("/students/:id", cfg.Persons.Delete)

	admin.Get("/units/:id", cfg.Units.Get)
	admin.Post("/units", cfg.Units.Create)
	admin.Put("/units/:id", cfg.Units.Replace)
	admin.Delete("/units/:id", cfg.Units.Delete)

	admin.Post("/enrollments", cfg.Enrollments.Create)
	admin.Patch("/enrollments/:id", cfg.Enrollments.Update)
	admin.Delete("/enrollments/:id", cfg.Enrollments.Cancel)

	admin.Post("/certificates", cfg.Certificates.Issue)
	admin.Delete("/certificates/:id",
		auth.RequireRole(domain.RoleGeneralCoordinator, domain.RoleGeneralDirector, domain.RoleUnitCoordinator, domain.RoleUnitDirector),
		cfg.Certificates.Invalidate)

	admin.Get("/staff", cfg.Staff.ListStaff)
	admin.Post("/staff", cfg.Staff.CreateStaff)
	admin.Get("/staff/:id", cfg.Staff.GetStaff)
	admin.Patch("/staff/:id", cfg.Staff.UpdateStaff)
	admin.Delete("/staff/:id", cfg.Staff.DeactivateStaff)

	admin.Get("/stats/units", cfg.Settings.UnitStats)

	general := admin.Group("", auth.RequireGeneralAccess())
	general.Get("/admins", cfg.Staff.ListAdmins)
	general.Post("/admins", cfg.Staff.CreateAdmin)
	general.Patch("/admins/:id", cfg.Staff.UpdateAdmin)
	general.Delete("/admins/:id", cfg.Staff.DeactivateAdmin)
	general.Put("/settings/:key", cfg.Settings.Put)
	general.Get("/stats", cfg.Settings.Stats)
}
