// server/http/handlers.go
package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/ws"
)

const rootPage = `<!DOCTYPE html>
<html>
<head><title>Notes App</title></head>
<body><h1>Notes App API is Running!</h1></body>
</html>`

func (s *Server) HandleRoot(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(rootPage)
}

func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "notes": s.store.Len()})
}

func (s *Server) HandleNotes(c *fiber.Ctx) error {
	return c.JSON(s.store.List())
}

func (s *Server) HandleCreateNote(c *fiber.Ctx) error {
	req, err := decodeNotePayload(c.Body())
	if err != nil {
		return err
	}

	note := s.store.Create(req.Title, req.Content)
	s.metrics.SetNotes(s.store.Len())
	s.events.Publish(ws.NoteCreated, note)

	return c.Status(fiber.StatusCreated).JSON(note)
}

func (s *Server) HandleGetNote(c *fiber.Ctx) error {
	note, err := s.store.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(note)
}

func (s *Server) HandleUpdateNote(c *fiber.Ctx) error {
	id := c.Params("id")
	// Unknown ids are reported before the body is looked at.
	if !s.store.Exists(id) {
		return domain.ErrNotFound
	}

	req, err := decodeNotePayload(c.Body())
	if err != nil {
		return err
	}

	note, err := s.store.Update(id, req.Title, req.Content)
	if err != nil {
		return err
	}
	s.events.Publish(ws.NoteUpdated, note)

	return c.JSON(note)
}

func (s *Server) HandleDeleteNote(c *fiber.Ctx) error {
	note, err := s.store.Delete(c.Params("id"))
	if err != nil {
		return err
	}
	s.metrics.SetNotes(s.store.Len())
	s.events.Publish(ws.NoteDeleted, note)

	c.Status(fiber.StatusNoContent)
	return nil
}

func (s *Server) HandleWebSocket(conn *websocket.Conn) {
	s.hub.Register(conn)
	s.hub.HandleConnection(conn)
}
