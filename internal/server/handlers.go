package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/report"
	"github.com/litescript/ls-orrery/internal/state"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handlePlanetData proxies one ephemeris query and returns {"result": text}.
func (s *Server) handlePlanetData(c *fiber.Ctx) error {
	command := c.Query("command")
	if command == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "command is required",
		})
	}

	date := state.Today()
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse(ephem.DateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "date must be YYYY-MM-DD",
			})
		}
		date = d
	}

	log := s.log.With("command", command).With("date", date.Format(ephem.DateLayout))

	result, err := s.upstream.Query(c.UserContext(), command, date)
	if err != nil {
		log.With("error", err).Warn("planet-data upstream failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Debug("planet-data served %d bytes", len(result))
	return c.JSON(fiber.Map{
		"result": result,
	})
}

// handleBodies returns the current scene.
func (s *Server) handleBodies(c *fiber.Ctx) error {
	return c.JSON(report.ExportSnapshot(s.store.Snapshot()))
}

// handleObjects returns the static background objects.
func (s *Server) handleObjects(c *fiber.Ctx) error {
	return c.JSON(report.ExportObjects(s.store.Snapshot().Objects))
}
