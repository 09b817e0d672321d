// server/http/errors.go
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/lumi-notes/domain"
)

// HandleError is the only place errors become responses. Note failures keep
// their fixed plain-text message; anything unexpected gets the 500 envelope.
func (s *Server) HandleError(c *fiber.Ctx, err error) error {
	var noteErr *domain.Error
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &noteErr):
		s.metrics.RecordError(noteErr.Kind.String())
		log.Warn().
			Str("request_id", requestID(c)).
			Str("kind", noteErr.Kind.String()).
			Str("path", c.Path()).
			Msg(noteErr.Message)
		return sendText(c, noteErr.Kind.Status(), noteErr.Message)

	case errors.As(err, &fiberErr):
		// A known path under another method is still an unmatched route.
		if fiberErr.Code == fiber.StatusMethodNotAllowed {
			c.Response().Header.Del(fiber.HeaderAllow)
			fiberErr = fiber.ErrNotFound
		}
		s.metrics.RecordError("http")
		log.Debug().
			Str("request_id", requestID(c)).
			Int("status", fiberErr.Code).
			Str("path", c.Path()).
			Msg(fiberErr.Message)
		return sendText(c, fiberErr.Code, fiberErr.Message)

	default:
		s.metrics.RecordError("internal")
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal Server Error",
			"message": err.Error(),
		})
	}
}

func sendText(c *fiber.Ctx, status int, msg string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(msg)
}
