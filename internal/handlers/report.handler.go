package handlers

import (
	"fieldops/internal/app"
	reportsController "fieldops/internal/controllers/reports"
	"fieldops/internal/handlers/middleware"
	"fieldops/internal/lifecycle"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	reportController reportsController.ReportsControllerInterface
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	log := logger.New("handlers").File("report_handler")
	return &ReportHandler{
		reportController: app.Controllers.Reports,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReportHandler) Register() {
	m := h.middleware

	h.router.Post("/orders/:id/reports", m.RequireCapability(lifecycle.CapWriteReport), h.createReport)

	reports := h.router.Group("/reports")
	reports.Put("/:reportId", m.RequireCapability(lifecycle.CapWriteReport), h.updateReport)
	reports.Delete("/:reportId", m.RequireCapability(lifecycle.CapDeleteReport), h.deleteReport)
}

func (h *ReportHandler) createReport(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createReport")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req reportsController.CreateReportRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	report, err := h.reportController.CreateReport(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"report": report,
	})
}

func (h *ReportHandler) updateReport(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateReport")

	reportID, err := paramID(c, "reportId")
	if err != nil {
		return respondError(c, log, err)
	}

	var req reportsController.UpdateReportRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	report, err := h.reportController.UpdateReport(c.UserContext(), middleware.GetPrincipal(c), reportID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"report": report,
	})
}

func (h *ReportHandler) deleteReport(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteReport")

	reportID, err := paramID(c, "reportId")
	if err != nil {
		return respondError(c, log, err)
	}

	result, err := h.reportController.DeleteReport(c.UserContext(), middleware.GetPrincipal(c), reportID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(result)
}
