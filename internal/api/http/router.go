package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hospital-helpdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/hospital-helpdesk/helpdesk-service/internal/auth"
	"github.com/hospital-helpdesk/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/export", auth.RequireStaff(), cfg.Tickets.Export)
	tickets.Get("/number/:number", cfg.Tickets.GetByNumber)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", auth.RequireStaff(), cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireAdmin(), cfg.Tickets.Delete)
	tickets.Get("/:id/activities", cfg.Tickets.Activities)

	tickets.Post("/:id/status", auth.RequireStaff(), cfg.Tickets.SetStatus)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.Assign)
	tickets.Post("/:id/assign/self", auth.RequireStaff(), cfg.Tickets.AssignToSelf)
	tickets.Post("/:id/close", auth.RequireStaff(), cfg.Tickets.QuickClose)
	tickets.Post("/:id/confirm", cfg.Tickets.Confirm)
	tickets.Post("/:id/complain", cfg.Tickets.Complain)
	tickets.Post("/:id/priority", auth.RequireStaff(), cfg.Tickets.SetPriority)
	tickets.Post("/:id/group", auth.RequireStaff(), cfg.Tickets.SetGroup)
	tickets.Post("/:id/due-date", auth.RequireStaff(), cfg.Tickets.SetDueDate)

	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)

	tickets.Post("/:id/collaborators", auth.RequireStaff(), cfg.Tickets.AddCollaborator)
	tickets.Get("/:id/collaborators", cfg.Tickets.ListCollaborators)
	tickets.Delete("/:id/collaborators/:collaboratorId", auth.RequireStaff(), cfg.Tickets.RemoveCollaborator)

	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/attachments", cfg.Tickets.ListAttachments)
	tickets.Delete("/:id/attachments/:attachmentId", cfg.Tickets.DeleteAttachment)

	tickets.Post("/:id/costs/vendor", auth.RequireStaff(), cfg.Tickets.AddVendorCost)
	tickets.Delete("/:id/costs/vendor/:costId", auth.RequireStaff(), cfg.Tickets.DeleteVendorCost)
	tickets.Post("/:id/costs/spareparts", auth.RequireStaff(), cfg.Tickets.AddSparepart)
	tickets.Delete("/:id/costs/spareparts/:itemId", auth.RequireStaff(), cfg.Tickets.DeleteSparepart)
	tickets.Get("/:id/costs", auth.RequireStaff(), cfg.Tickets.Costs)

	reports := api.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	reports.Get("/sla/overview", cfg.Reports.SLAOverview)
	reports.Get("/sla/trend", cfg.Reports.SLATrend)
	reports.Get("/sla/export", cfg.Reports.SLAExport)
	reports.Get("/technicians", cfg.Reports.Technicians)
	reports.Get("/departments", cfg.Reports.Departments)
	reports.Get("/daily-activity", cfg.Reports.DailyActivity)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/sla-rules", cfg.Admin.CreateSLARule)
	admin.Get("/sla-rules", cfg.Admin.ListSLARules)
	admin.Get("/sla-rules/:id", cfg.Admin.GetSLARule)
	admin.Put("/sla-rules/:id", cfg.Admin.UpdateSLARule)
	admin.Delete("/sla-rules/:id", cfg.Admin.DeleteSLARule)
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Put("/categories/:id", cfg.Admin.UpdateCategory)
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Put("/departments/:id", cfg.Admin.UpdateDepartment)
	admin.Post("/priorities", cfg.Admin.CreatePriority)
	admin.Put("/priorities/:id", cfg.Admin.UpdatePriority)
	admin.Post("/statuses", cfg.Admin.CreateStatus)
	admin.Put("/statuses/:id", cfg.Admin.UpdateStatus)
	admin.Post("/ticket-types", cfg.Admin.CreateTicketType)
	admin.Post("/groups", cfg.Admin.CreateGroup)

	reference := api.Group("/reference", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	reference.Get("/statuses", cfg.Admin.ListStatuses)
	reference.Get("/priorities", cfg.Admin.ListPriorities)
	reference.Get("/ticket-types", cfg.Admin.ListTicketTypes)
	reference.Get("/departments", cfg.Admin.ListDepartments)
	reference.Get("/groups", cfg.Admin.ListGroups)
	reference.Get("/categories", cfg.Admin.ListCategories)
}
