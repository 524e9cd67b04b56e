package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hospital-helpdesk/helpdesk-service/internal/service"
)

// ReportsHandler exposes SLA compliance and operational reports.
type ReportsHandler struct {
	slaReports *service.SLAReportService
	reports    *service.ReportService
}

// NewReportsHandler returns a new handler instance.
func NewReportsHandler(slaReports *service.SLAReportService, reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{slaReports: slaReports, reports: reports}
}

// SLAOverview returns compliance percentages and breakdowns for a window.
func (h *ReportsHandler) SLAOverview(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return err
	}

	overview, err := h.slaReports.Overview(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// SLATrend returns per-day compliance points for a window.
func (h *ReportsHandler) SLATrend(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return err
	}

	points, err := h.slaReports.Trend(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": points})
}

// SLAExport streams the compliance report as CSV or XLSX.
func (h *ReportsHandler) SLAExport(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return err
	}

	format := c.Query("format", "csv")
	stamp := from.Format("20060102") + "-" + to.Format("20060102")

	switch format {
	case "xlsx":
		payload, err := h.slaReports.ExportXLSX(c.UserContext(), from, to)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=sla-report-%s.xlsx", stamp))
		return c.Send(payload)
	default:
		payload, err := h.slaReports.ExportCSV(c.UserContext(), from, to)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=sla-report-%s.csv", stamp))
		return c.Send(payload)
	}
}

// Technicians returns per-technician workload reports with insights.
func (h *ReportsHandler) Technicians(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return err
	}
	departmentID, err := queryInt64Ptr(c, "department_id")
	if err != nil {
		return err
	}

	rows, err := h.reports.TechnicianReports(c.UserContext(), from, to, departmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// Departments returns per-department reports with nested technician rows.
func (h *ReportsHandler) Departments(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return err
	}

	rows, err := h.reports.DepartmentReports(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// DailyActivity returns the chronological activity feed for a window.
func (h *ReportsHandler) DailyActivity(c *fiber.Ctx) error {
	from, to, err := reportWindow(c)
	if err != nil {
		return err
	}
	userID, err := queryInt64Ptr(c, "user_id")
	if err != nil {
		return err
	}

	feed, err := h.reports.DailyActivity(c.UserContext(), from, to, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}
