package utils

import "github.com/gofiber/fiber/v2"

// StandardResponse represents the standard API response format
type StandardResponse struct {
	Status  string              `json:"status"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  errorStatus(code),
		Code:    code,
		Message: message,
	})
}

// ValidationErrorResponse sends a 400 carrying every rejected field and its messages
func ValidationErrorResponse(c *fiber.Ctx, message string, fields map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(StandardResponse{
		Status:  errorStatus(fiber.StatusBadRequest),
		Code:    fiber.StatusBadRequest,
		Message: message,
		Errors:  fields,
	})
}

func errorStatus(code int) string {
	if code >= 500 {
		return "fail"
	}
	return "error"
}
