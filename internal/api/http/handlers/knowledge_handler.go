package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/frontdesk-service/internal/api/dto"
	"github.com/spec-kit/frontdesk-service/internal/service"
)

// KnowledgeHandler exposes the learned knowledge base.
type KnowledgeHandler struct {
	agent *service.AgentService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(agent *service.AgentService) *KnowledgeHandler {
	return &KnowledgeHandler{agent: agent}
}

// ListKnowledge GET /knowledge.
func (h *KnowledgeHandler) ListKnowledge(c *fiber.Ctx) error {
	entries, err := h.agent.ListKnowledge(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.KnowledgeEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.KnowledgeEntryResponse{
			ID:       entry.ID,
			Question: entry.Question,
			Answer:   entry.Answer,
			AddedOn:  entry.AddedOn,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
