package presenters

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dotEthan/Recipeasy-backend-sub000/domain"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

// StatusCode maps a service error to its HTTP status. Unknown errors
// are treated as server failures.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrRecipeReferenceNotFound),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrResetTokenWrongType):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrResetTokenMissingUser):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotAllowed),
		errors.Is(err, domain.ErrNotRecipeOwner),
		errors.Is(err, domain.ErrRecipeNotPublic),
		errors.Is(err, domain.ErrUserNotVerified),
		errors.Is(err, domain.ErrVerificationCodeInvalid),
		errors.Is(err, domain.ErrPasswordResetInProgress):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrEmailAlreadyRegistered),
		errors.Is(err, domain.ErrRecipeAlreadyOnList),
		errors.Is(err, domain.ErrPasswordReused):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
