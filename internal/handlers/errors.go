package handlers

import (
	"strconv"

	"fieldops/internal/lifecycle"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a failure kind onto its HTTP status. Untyped errors are
// internal and their text never leaves the server.
func statusFor(err error) (int, string) {
	switch lifecycle.Kind(err) {
	case lifecycle.ErrNotFound:
		return fiber.StatusNotFound, err.Error()
	case lifecycle.ErrForbidden:
		return fiber.StatusForbidden, err.Error()
	case lifecycle.ErrConflict:
		return fiber.StatusConflict, err.Error()
	case lifecycle.ErrValidation:
		return fiber.StatusBadRequest, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	status, message := statusFor(err)
	if status == fiber.StatusInternalServerError {
		_ = log.Err("request failed", err, "path", c.Path())
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, lifecycle.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}

// parseBody treats an empty body as an empty request.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return lifecycle.Invalid("invalid request body")
	}
	return nil
}
