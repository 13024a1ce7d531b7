package handlers

import (
	"fieldops/internal/app"
	photosController "fieldops/internal/controllers/photos"
	"fieldops/internal/handlers/middleware"
	"fieldops/internal/lifecycle"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type PhotoHandler struct {
	Handler
	photoController photosController.PhotosControllerInterface
}

func NewPhotoHandler(app app.App, router fiber.Router) *PhotoHandler {
	log := logger.New("handlers").File("photo_handler")
	return &PhotoHandler{
		photoController: app.Controllers.Photos,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PhotoHandler) Register() {
	m := h.middleware

	h.router.Post("/orders/:id/photos", m.RequireCapability(lifecycle.CapUploadPhoto), h.uploadPhoto)

	photos := h.router.Group("/photos")
	photos.Put("/:photoId/caption", m.RequireCapability(lifecycle.CapUploadPhoto), h.updateCaption)
	photos.Delete("/:photoId", h.deletePhoto)
}

func (h *PhotoHandler) uploadPhoto(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("uploadPhoto")

	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, log, err)
	}

	var req photosController.UploadPhotoRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	photo, err := h.photoController.UploadPhoto(c.UserContext(), middleware.GetPrincipal(c), orderID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"photo": photo,
	})
}

func (h *PhotoHandler) updateCaption(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateCaption")

	photoID, err := paramID(c, "photoId")
	if err != nil {
		return respondError(c, log, err)
	}

	var req photosController.UpdateCaptionRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, log, err)
	}

	photo, err := h.photoController.UpdateCaption(c.UserContext(), middleware.GetPrincipal(c), photoID, &req)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"photo": photo,
	})
}

// deletePhoto is gated inside the controller: uploaders may remove their own
// photos without the delete-any capability.
func (h *PhotoHandler) deletePhoto(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deletePhoto")

	photoID, err := paramID(c, "photoId")
	if err != nil {
		return respondError(c, log, err)
	}

	if err := h.photoController.DeletePhoto(c.UserContext(), middleware.GetPrincipal(c), photoID); err != nil {
		return respondError(c, log, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
