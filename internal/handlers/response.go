package handlers

import (
	"errors"
	"log"

	"dubon/internal/middleware"
	"dubon/internal/repositories"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var errBadBody = errors.New("invalid request body")

// bind parses the JSON body into dst and validates it.
func bind(c *fiber.Ctx, v *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		log.Printf("Error parsing request body on %s %s: %v", c.Method(), c.Path(), err)
		return errBadBody
	}
	return validation.Struct(v, dst)
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": msg,
	})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

// statusOf maps service and repository errors to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadBody), errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrConflict),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, repositories.ErrStaleStatus),
		errors.Is(err, repositories.ErrInsufficientStock),
		errors.Is(err, repositories.ErrInsufficientBalance),
		errors.Is(err, repositories.ErrCapacityReached):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fromError writes the error response for err. Internal errors are logged
// and answered with a generic message.
func fromError(c *fiber.Ctx, err error, action string) error {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": verrs.Message,
			"errors":  verrs.Fields,
		})
	}

	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Error %s: %v", action, err)
		return fail(c, status, "Could not "+action)
	}
	log.Printf("Rejected %s: %v", action, err)
	return fail(c, status, err.Error())
}

// actor returns the authenticated caller set by middleware.AuthRequired.
func actor(c *fiber.Ctx) services.Actor {
	id, _ := c.Locals(middleware.LocalUserID).(string)
	role, _ := c.Locals(middleware.LocalRole).(string)
	return services.Actor{UserID: id, Role: role}
}
