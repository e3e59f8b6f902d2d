package utils

import "github.com/gofiber/fiber/v2"

// MessageResponse is the body returned by successful signup and withdrawal
// requests.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the body returned for expected request failures. The
// shape is kept compatible with the service's original clients.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// SendMessage sends a 200 response carrying a confirmation message.
func SendMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: message})
}

// SendDetail sends an error response with the given status and detail text.
func SendDetail(c *fiber.Ctx, status int, detail string) error {
	if detail == "" {
		detail = "request failed"
	}

	return c.Status(status).JSON(DetailResponse{Detail: detail})
}
