package control

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"transease/core/events"
	"transease/core/logger"
	"transease/core/server"
	"transease/core/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// KeepAliveInterval is the comment frame interval of the event stream.
const KeepAliveInterval = 15 * time.Second

// StatusResponse is the body of server control endpoints.
type StatusResponse struct {
	server.Status
	// Warning is set when the request succeeded with a caveat, e.g. a stop timeout.
	Warning string `json:"warning,omitempty"`
}

// RootRequest is the body of PUT /settings/root.
type RootRequest struct {
	Path string `json:"path"`
}

// LogsResponse is the body of GET /server/logs.
type LogsResponse struct {
	Lines []string `json:"lines"`
}

// Handler handles HTTP requests for server control.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the control routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	srv := app.Group("/server")
	srv.Get("/", h.HandleStatus)
	srv.Post("/start", h.HandleStart)
	srv.Post("/stop", h.HandleStop)
	srv.Post("/toggle", h.HandleToggle)
	srv.Get("/logs", h.HandleLogs)
	srv.Delete("/logs", h.HandleClearLogs)

	cfg := app.Group("/settings")
	cfg.Get("/", h.HandleGetSettings)
	cfg.Put("/", h.HandleUpdateSettings)
	cfg.Put("/root", h.HandleSetRoot)

	app.Get("/events", h.HandleEvents)
}

// HandleStatus returns the server status.
// @Summary Server Status
// @Description Get the server state, connection count and running instance.
// @Tags server
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /server [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: h.service.Status()})
}

// HandleStart starts the server.
// @Summary Start Server
// @Description Start the FTP server with the current settings. Starting a running server is a no-op.
// @Tags server
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 409 {object} map[string]string "Port unavailable"
// @Failure 422 {object} map[string]string "Root directory unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /server/start [post]
func (h *Handler) HandleStart(c *fiber.Ctx) error {
	status, err := h.service.Start()
	if err != nil {
		return h.controlError(c, "Server start failed", status, err)
	}
	return c.JSON(StatusResponse{Status: status})
}

// HandleStop stops the server.
// @Summary Stop Server
// @Description Stop the FTP server. Stopping a stopped server is a no-op.
// @Tags server
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /server/stop [post]
func (h *Handler) HandleStop(c *fiber.Ctx) error {
	status, err := h.service.Stop()
	if err != nil {
		return h.controlError(c, "Server stop failed", status, err)
	}
	return c.JSON(StatusResponse{Status: status})
}

// HandleToggle starts or stops the server.
// @Summary Toggle Server
// @Description Start a stopped server or stop a running one.
// @Tags server
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 409 {object} map[string]string "Port unavailable"
// @Router /server/toggle [post]
func (h *Handler) HandleToggle(c *fiber.Ctx) error {
	status, err := h.service.Toggle()
	if err != nil {
		return h.controlError(c, "Server toggle failed", status, err)
	}
	return c.JSON(StatusResponse{Status: status})
}

func (h *Handler) controlError(c *fiber.Ctx, msg string, status server.Status, err error) error {
	l := logger.WithRayID(h.service.logger, c)

	// The server is stopped either way; the timeout is reported as a warning.
	if errors.Is(err, server.ErrShutdownTimeout) {
		l.Warn(msg, zap.Error(err))
		return c.JSON(StatusResponse{Status: status, Warning: err.Error()})
	}

	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, server.ErrBind):
		code = fiber.StatusConflict
	case errors.Is(err, server.ErrRootUnavailable):
		code = fiber.StatusUnprocessableEntity
	}
	l.Error(msg, zap.Error(err))
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"state": status.State,
	})
}

// HandleLogs returns the buffered log view.
// @Summary Server Logs
// @Description Get the most recent log lines (at most 500).
// @Tags server
// @Produce json
// @Success 200 {object} LogsResponse
// @Router /server/logs [get]
func (h *Handler) HandleLogs(c *fiber.Ctx) error {
	return c.JSON(LogsResponse{Lines: h.service.Logs()})
}

// HandleClearLogs empties the log view.
// @Summary Clear Server Logs
// @Tags server
// @Success 204
// @Router /server/logs [delete]
func (h *Handler) HandleClearLogs(c *fiber.Ctx) error {
	h.service.ClearLogs()
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetSettings returns the current settings.
// @Summary Get Settings
// @Tags settings
// @Produce json
// @Success 200 {object} settings.Settings
// @Router /settings [get]
func (h *Handler) HandleGetSettings(c *fiber.Ctx) error {
	return c.JSON(h.service.Settings())
}

// HandleUpdateSettings validates and saves settings.
// @Summary Update Settings
// @Description Save one or more settings. Nothing is saved when any value is invalid.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body map[string]interface{} true "Settings to change"
// @Success 200 {object} SettingsResult
// @Failure 400 {object} map[string]string "Invalid setting"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /settings [put]
func (h *Handler) HandleUpdateSettings(c *fiber.Ctx) error {
	var values map[string]any
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(values) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no settings given"})
	}
	result, err := h.service.UpdateSettings(values)
	if err != nil {
		return h.settingsError(c, err)
	}
	return c.JSON(result)
}

// HandleSetRoot changes the shared root directory.
// @Summary Set Root Directory
// @Description Change the directory shared by the server. The directory is created if missing.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body RootRequest true "New root directory"
// @Success 200 {object} SettingsResult
// @Failure 400 {object} map[string]string "Invalid directory"
// @Router /settings/root [put]
func (h *Handler) HandleSetRoot(c *fiber.Ctx) error {
	var req RootRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Path) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	result, err := h.service.SetRoot(req.Path)
	if err != nil {
		return h.settingsError(c, err)
	}
	return c.JSON(result)
}

func (h *Handler) settingsError(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.logger, c)

	var verr *settings.ValidationError
	if errors.As(err, &verr) {
		l.Warn("Settings rejected", zap.String("key", verr.Key), zap.String("reason", verr.Reason))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"key":   verr.Key,
		})
	}
	l.Error("Failed to save settings", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// HandleEvents streams bus events as server-sent events.
// @Summary Event Stream
// @Description Stream log, status, connection and lifecycle events. Filter with kinds=status,error.
// @Tags events
// @Produce text/event-stream
// @Param kinds query string false "Comma separated event kinds"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} map[string]string "Unknown kind"
// @Router /events [get]
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	kinds, err := parseKinds(c.Query("kinds"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := h.service.Subscribe(events.Options{Kinds: kinds})
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		streamEvents(w, sub, KeepAliveInterval)
	}))
	return nil
}

// streamEvents writes events until the subscription ends or the client goes away.
func streamEvents(w *bufio.Writer, sub *events.Subscription, keepAlive time.Duration) {
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

var kindsByName = map[string]events.Kind{
	events.KindLogLine.String():         events.KindLogLine,
	events.KindStatus.String():          events.KindStatus,
	events.KindConnectionCount.String(): events.KindConnectionCount,
	events.KindStarted.String():         events.KindStarted,
	events.KindStopped.String():         events.KindStopped,
	events.KindError.String():           events.KindError,
}

func parseKinds(raw string) ([]events.Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var kinds []events.Kind
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		k, ok := kindsByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown event kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
