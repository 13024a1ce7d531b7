package handlers

import (
	"fieldops/internal/app"
	"fieldops/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	if app.Websocket != nil {
		setupWebSocketRoute(router, app)
	}

	api := router.Group("/api")
	HealthHandler(api, app.Config)

	protected := api.Group("", app.Middleware.RequireAuth())
	NewOrderHandler(*app, protected).Register()
	NewReportHandler(*app, protected).Register()
	NewPhotoHandler(*app, protected).Register()
	NewJobHandler(*app, protected).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
