package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/frontdesk-service/internal/api/dto"
	"github.com/spec-kit/frontdesk-service/internal/service"
	apperrors "github.com/spec-kit/frontdesk-service/pkg/util"
)

// CallsHandler simulates incoming caller questions.
type CallsHandler struct {
	agent *service.AgentService
}

// NewCallsHandler constructs handler.
func NewCallsHandler(agent *service.AgentService) *CallsHandler {
	return &CallsHandler{agent: agent}
}

// SimulateCall POST /calls/simulate.
func (h *CallsHandler) SimulateCall(c *fiber.Ctx) error {
	var req dto.SimulateCallRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	outcome, err := h.agent.SubmitQuestion(c.Context(), req.Question, req.CallerID)
	if err != nil {
		return err
	}

	if outcome.Answered() {
		return c.JSON(dto.CallOutcomeResponse{
			Status: "answered",
			Answer: outcome.Answer.Text,
			Source: string(outcome.Answer.Source),
		})
	}
	return c.JSON(dto.CallOutcomeResponse{
		Status:    "escalated",
		RequestID: outcome.Request.ID,
	})
}
