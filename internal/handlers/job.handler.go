package handlers

import (
	"fieldops/internal/app"
	"fieldops/internal/handlers/middleware"
	"fieldops/internal/lifecycle"
	"fieldops/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	Handler
	schedulerService *services.SchedulerService
}

func NewJobHandler(app app.App, router fiber.Router) *JobHandler {
	log := logger.New("handlers").File("job_handler")
	return &JobHandler{
		schedulerService: app.Services.Scheduler,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *JobHandler) Register() {
	jobs := h.router.Group("/admin/jobs", h.middleware.RequireCapability(lifecycle.CapRunJobs))
	jobs.Post("/:name/trigger", h.triggerJob)
}

// triggerJob runs a registered job now and waits for it, e.g. a reminder
// round that was missed while the scheduler was down.
func (h *JobHandler) triggerJob(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("triggerJob")

	name := c.Params("name")
	if err := h.schedulerService.TriggerJobByName(c.UserContext(), name); err != nil {
		return respondError(c, log, err)
	}

	log.Info("Job triggered", "job", name, "userID", middleware.GetPrincipal(c).ID)
	return c.JSON(fiber.Map{
		"job":    name,
		"status": "completed",
	})
}
