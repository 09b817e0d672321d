// server/http/server.go
package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ViniZap4/lumi-notes/config"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/metrics"
	"github.com/ViniZap4/lumi-notes/store"
	"github.com/ViniZap4/lumi-notes/ws"
)

// Publisher receives every successful note mutation.
type Publisher interface {
	Publish(msgType string, note domain.Note)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, domain.Note) {}

type Server struct {
	store   *store.Store
	hub     *ws.Hub
	events  Publisher
	metrics *metrics.Metrics
}

// NewServer wires handlers to st. A nil hub disables the /ws change feed.
func NewServer(st *store.Store, hub *ws.Hub, m *metrics.Metrics) *Server {
	s := &Server{store: st, hub: hub, metrics: m, events: nopPublisher{}}
	if hub != nil {
		s.events = hub
	}
	m.SetNotes(st.Len())
	return s
}

// App builds the fiber application with every route registered.
func (s *Server) App(cfg config.HTTPConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "lumi-notes",
		ErrorHandler:          s.HandleError,
		// Method and path strings end up as metric labels, which outlive the request buffer.
		Immutable:             true,
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout.Std(),
		WriteTimeout:          cfg.WriteTimeout.Std(),
		IdleTimeout:           cfg.IdleTimeout.Std(),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(s.observe)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/", s.HandleRoot)
	app.Get("/health", s.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := app.Group("/api")
	api.Get("/notes", s.HandleNotes)
	api.Post("/notes", s.HandleCreateNote)
	api.Get("/notes/:id", s.HandleGetNote)
	api.Put("/notes/:id", s.HandleUpdateNote)
	api.Delete("/notes/:id", s.HandleDeleteNote)

	if s.hub != nil {
		app.Use("/ws", requireUpgrade)
		app.Get("/ws", websocket.New(s.HandleWebSocket))
	}

	return app
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
