package handlers

import (
	"fieldops/internal/app"
	ordersController "fieldops/internal/controllers/orders"
	"fieldops/internal/handlers/middleware"
	"fieldops/internal/lifecycle"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Handler
	orderController ordersController.OrdersControllerInterface
}

func NewOrderHandler(app app.App, router fiber.Router) *OrderHandler {
	log := logger.New("handlers").File("order_handler")
	return &OrderHandler{
		orderController: app.Controllers.Orders,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *OrderHandler) Register() {
	orders := h.router.Group("/orders")
	m := h.middleware

	orders.Post("", m.RequireCapability(lifecycle.CapCreateOrder), h.createOrder)
	orders.Get("/:id", h.getOrder)
	orders.Put("/:id", m.RequireCapability(lifecycle.CapEditOrder), h.editOrder)
	orders.Post("/:id/assign", m.RequireCapability(lifecycle.CapAssignWorkers), h.assignWorkers)
	orders.Post("/:id/areas", m.RequireCapability(lifecycle.CapAssignAreas), h.assignAreas)
	orders.Post("/:id/start", m.RequireCapability(lifecycle.CapStartWork), h.startWork)
	orders.Post(
		"/:id/areas/:areaId/complete",
		m.RequireCapability(lifecycle.CapCompleteArea),
		h.completeArea,
	)
	orders.Post("/:id/complete", m.RequireCapability(lifecycle.CapCompleteOrder), h.completeOrder)
	orders.Post("/:id/cancel", m.RequireCapability(lifecycle.CapCancelOrder), h.cancelOrder)
}

func (h *OrderHandler) createOrder(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createOrder")

	var req ordersController.CreateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.CreateOrder(c.UserContext(), middleware.GetPrincipal(c), &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) getOrder(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getOrder")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.GetOrder(c.UserContext(), middleware.GetPrincipal(c), orderID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) editOrder(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("editOrder")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req ordersController.EditOrderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.EditOrder(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) assignWorkers(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("assignWorkers")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req ordersController.AssignWorkersRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.AssignWorkers(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) assignAreas(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("assignAreas")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req ordersController.AssignAreasRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.AssignAreas(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) startWork(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("startWork")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req ordersController.StartWorkRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.StartWork(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) completeArea(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("completeArea")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}
	orderAreaID, err := paramID(c, "areaId")
	if err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.CompleteArea(c.UserContext(), middleware.GetPrincipal(c), orderID, orderAreaID)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) completeOrder(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("completeOrder")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req ordersController.CompleteOrderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.CompleteOrder(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}

func (h *OrderHandler) cancelOrder(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("cancelOrder")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req ordersController.CancelOrderRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	order, err := h.orderController.CancelOrder(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"order": order,
	})
}
