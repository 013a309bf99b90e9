package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// MaxVideoURLLen bounds the accepted request URL. Real YouTube URLs are well
// under this; anything longer is garbage or abuse.
const MaxVideoURLLen = 512

// ErrorResponse is a helper that returns a standard API error envelope.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoURL trims and bounds the submitted video URL. Shape matching
// happens in the pipeline itself; this only rejects requests that are not
// worth starting a pipeline run for.
func ValidateVideoURL(rawURL string) (string, string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", "videoUrl is required"
	}
	if len(rawURL) > MaxVideoURLLen {
		return "", "videoUrl must be at most 512 characters"
	}
	for _, r := range rawURL {
		if r < 0x20 || r == 0x7f {
			return "", "videoUrl contains control characters"
		}
	}
	return rawURL, ""
}
