package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/frontdesk-service/internal/config"
	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/repository"
	apperrors "github.com/spec-kit/frontdesk-service/pkg/util"
)

// AnswerSource tags where an answer came from.
type AnswerSource string

const (
	AnswerSourceKnowledge AnswerSource = "kb"
	AnswerSourceStatic    AnswerSource = "static"
)

// Answer is a successful resolution of a caller question.
type Answer struct {
	Text   string
	Source AnswerSource
}

// SubmitOutcome reports how a submitted question was handled: answered
// directly, or escalated as a new pending help request.
type SubmitOutcome struct {
	Answer  *Answer
	Request *domain.HelpRequest
}

// Answered reports whether the question was answered without escalation.
func (o SubmitOutcome) Answered() bool {
	return o.Answer != nil
}

// AgentService answers caller questions from the learned knowledge base and
// the static business facts, escalating what it cannot answer.
type AgentService struct {
	knowledge  repository.KnowledgeRepository
	escalation *EscalationService
	facts      config.BusinessConfig
}

// AgentDependencies bundles collaborators for the agent service.
type AgentDependencies struct {
	KnowledgeRepo repository.KnowledgeRepository
	Escalation    *EscalationService
	Facts         config.BusinessConfig
}

// NewAgentService constructs the service.
func NewAgentService(deps AgentDependencies) *AgentService {
	return &AgentService{
		knowledge:  deps.KnowledgeRepo,
		escalation: deps.Escalation,
		facts:      deps.Facts,
	}
}

// TryAnswer attempts to answer a question. A nil Answer means the question is
// unknown; that is a normal outcome, not an error. The knowledge base is
// consulted first and takes precedence over the static rules. Matching is
// exact on normalized text; there is deliberately no fuzzy lookup.
func (s *AgentService) TryAnswer(ctx context.Context, question string) (*Answer, error) {
	norm := normalizeText(question)

	entries, err := s.knowledge.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if normalizeText(entry.Question) == norm {
			return &Answer{Text: entry.Answer, Source: AnswerSourceKnowledge}, nil
		}
	}

	// Ordered static rules; the first match wins.
	if containsAny(norm, "hour", "open") {
		return &Answer{
			Text:   fmt.Sprintf("We are open %s.", s.facts.Hours),
			Source: AnswerSourceStatic,
		}, nil
	}
	if containsAny(norm, "service", "pedicure", "manicure") {
		if strings.Contains(strings.ToLower(s.facts.Services), "manicure") {
			return &Answer{
				Text:   fmt.Sprintf("Yes, we offer %s.", s.facts.Services),
				Source: AnswerSourceStatic,
			}, nil
		}
		// A service question about something not on the list falls through
		// to escalation rather than guessing.
	}
	if containsAny(norm, "where", "location", "address") {
		return &Answer{
			Text:   fmt.Sprintf("Our location is %s.", s.facts.Location),
			Source: AnswerSourceStatic,
		}, nil
	}

	return nil, nil
}

// SubmitQuestion handles one incoming caller question end to end: answer it
// if possible, otherwise create a pending help request for the supervisor.
func (s *AgentService) SubmitQuestion(ctx context.Context, question string, callerID *string) (*SubmitOutcome, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.NewValidationError("question required", nil)
	}

	answer, err := s.TryAnswer(ctx, question)
	if err != nil {
		return nil, err
	}
	if answer != nil {
		return &SubmitOutcome{Answer: answer}, nil
	}

	req, err := s.escalation.Escalate(ctx, question, callerID)
	if err != nil {
		return nil, err
	}
	return &SubmitOutcome{Request: req}, nil
}

// ListKnowledge returns learned entries, newest first.
func (s *AgentService) ListKnowledge(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	return s.knowledge.List(ctx)
}

// normalizeText collapses whitespace, trims and lowercases for comparison.
// Stored question text is never normalized in place.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
