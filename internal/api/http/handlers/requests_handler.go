package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/frontdesk-service/internal/api/dto"
	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/service"
	apperrors "github.com/spec-kit/frontdesk-service/pkg/util"
)

// RequestsHandler manages help request endpoints.
type RequestsHandler struct {
	escalation *service.EscalationService
	resolution *service.ResolutionService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(escalation *service.EscalationService, resolution *service.ResolutionService) *RequestsHandler {
	return &RequestsHandler{escalation: escalation, resolution: resolution}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.escalation.Escalate(c.Context(), req.Question, req.CallerID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": helpRequestResponse(record)})
}

// ListRequests GET /requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	records, err := h.escalation.ListAll(c.Context(), parseLimit(c.Query("limit"), 100))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": helpRequestResponses(records)})
}

// ListPending GET /requests/pending.
func (h *RequestsHandler) ListPending(c *fiber.Ctx) error {
	records, err := h.escalation.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": helpRequestResponses(records)})
}

// ListResolved GET /requests/resolved.
func (h *RequestsHandler) ListResolved(c *fiber.Ctx) error {
	records, err := h.escalation.ListFinished(c.Context(), parseLimit(c.Query("limit"), 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": helpRequestResponses(records)})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	record, err := h.escalation.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": helpRequestResponse(record)})
}

// ResolveRequest POST /requests/:id/resolution.
func (h *RequestsHandler) ResolveRequest(c *fiber.Ctx) error {
	var req dto.ResolveRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.resolution.Resolve(c.Context(), c.Params("id"), req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": helpRequestResponse(record)})
}

func parseLimit(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func helpRequestResponse(req *domain.HelpRequest) dto.HelpRequestResponse {
	return dto.HelpRequestResponse{
		ID:                 req.ID,
		Question:           req.Question,
		CallerID:           req.CallerID,
		Status:             req.Status,
		CreatedAt:          req.CreatedAt,
		ResolvedAt:         req.ResolvedAt,
		SupervisorResponse: req.SupervisorResponse,
	}
}

func helpRequestResponses(records []domain.HelpRequest) []dto.HelpRequestResponse {
	items := make([]dto.HelpRequestResponse, 0, len(records))
	for i := range records {
		items = append(items, helpRequestResponse(&records[i]))
	}
	return items
}
