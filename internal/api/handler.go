package api

import (
	"time"

	"credit-assist/internal/common/errors"
	"credit-assist/internal/common/logger"
	"credit-assist/internal/dialogue"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ChatRequest is the inbound turn payload.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ChatHandler exposes the dialogue pipeline over HTTP.
type ChatHandler struct {
	dispatcher *dialogue.Dispatcher
	logger     logger.Logger
}

func NewChatHandler(d *dialogue.Dispatcher, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		dispatcher: d,
		logger:     log.With(map[string]interface{}{"component": "api"}),
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set("X-Request-Id", requestID)

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if req.UserID == "" {
		req.UserID = "default"
	}

	result, err := h.dispatcher.Process(c.Context(), req.Message, req.UserID)
	if err != nil {
		h.logger.WithError(err).Warn("turn rejected", map[string]interface{}{
			"request_id": requestID,
			"user_id":    req.UserID,
		})
		status := fiber.StatusInternalServerError
		if errors.IsCode(err, errors.ErrCodeEmptyMessage) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":           true,
		"response":          result.Response,
		"intent":            result.Intent,
		"confidence":        result.Confidence,
		"entities":          result.Entities,
		"entity_confidence": result.EntityConfidence,
		"timestamp":         time.Now().Unix(),
	})
}

func (h *ChatHandler) HandleSummary(c *fiber.Ctx) error {
	userID := c.Params("id")
	sum, err := h.dispatcher.Summary(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"summary": sum,
	})
}

func (h *ChatHandler) HandleProducts(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"products": h.dispatcher.Products(),
	})
}

func (h *ChatHandler) HandleRates(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"rates":   h.dispatcher.Rates(),
	})
}

func (h *ChatHandler) HandleHealth(c *fiber.Ctx) error {
	_, detail := h.dispatcher.Healthy()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"detail":    detail,
		"timestamp": time.Now().Unix(),
	})
}
