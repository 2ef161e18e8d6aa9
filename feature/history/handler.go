package history

import (
	"transease/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for session history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/history", h.HandleList)
}

// HandleList returns recent server sessions.
// @Summary Session History
// @Description List recent server instances, newest first.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum sessions (default 50)"
// @Success 200 {array} Session
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sessions, err := h.service.List(c.Context(), c.QueryInt("limit", DefaultLimit))
	if err != nil {
		l.Error("Session history query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(sessions)
}
