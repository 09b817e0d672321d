// server/http/middleware.go
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// observe logs and measures every request. A handler error is turned into a
// response here, so the recorded status is the one the client sees.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	elapsed := time.Since(start)
	status := c.Response().StatusCode()
	route := c.Route().Path

	s.metrics.ObserveRequest(route, c.Method(), status, elapsed)
	log.Info().
		Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", elapsed).
		Msg("request")
	return nil
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
