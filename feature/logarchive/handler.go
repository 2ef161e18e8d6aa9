package logarchive

import (
	"errors"
	"net/url"
	"path"

	"transease/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for log archives.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the log archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/logs")
	group.Post("/archive", h.HandleArchive)
	group.Get("/archives", h.HandleList)
	group.Get("/archives/*", h.HandleDownload)
	group.Delete("/archives/*", h.HandleRemove)
}

// HandleArchive uploads the current log files.
// @Summary Archive Logs
// @Description Upload the log file and its rotated backups to object storage.
// @Tags logs
// @Produce json
// @Success 201 {array} Archive
// @Failure 404 {object} map[string]string "No log files"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /logs/archive [post]
func (h *Handler) HandleArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	archives, err := h.service.Archive(c.Context())
	if errors.Is(err, ErrNoLogs) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Log archive failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(archives)
}

// HandleList lists archived logs of this host.
// @Summary List Log Archives
// @Tags logs
// @Produce json
// @Success 200 {array} Archive
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /logs/archives [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	archives, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Log archive listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if archives == nil {
		archives = []Archive{}
	}
	return c.JSON(archives)
}

// HandleDownload streams an archived log.
// @Summary Download Log Archive
// @Tags logs
// @Produce plain
// @Param key path string true "Archive key"
// @Success 200 {string} string "log content"
// @Failure 400 {object} map[string]string "Invalid key"
// @Router /logs/archives/{key} [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid key"})
	}
	rc, err := h.service.Open(c.Context(), key)
	if err != nil {
		return h.keyError(c, "Log archive download failed", err)
	}
	c.Attachment(path.Base(key))
	return c.SendStream(rc)
}

// HandleRemove deletes an archived log.
// @Summary Remove Log Archive
// @Tags logs
// @Param key path string true "Archive key"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid key"
// @Router /logs/archives/{key} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid key"})
	}
	if err := h.service.Remove(c.Context(), key); err != nil {
		return h.keyError(c, "Log archive removal failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) keyError(c *fiber.Ctx, msg string, err error) error {
	if errors.Is(err, ErrInvalidKey) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
