package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/frontdesk-service/internal/domain"
	"github.com/spec-kit/frontdesk-service/internal/repository"
)

// memStore is an in-memory stand-in for both repositories. It implements the
// same conditional-update contract as the SQL layer: terminal transitions
// only apply while the request is still Pending, under one lock, so the
// sweeper/resolution race behaves as it does against postgres.
type memStore struct {
	mu        sync.Mutex
	requests  map[string]domain.HelpRequest
	knowledge map[string]domain.KnowledgeEntry

	failCreate bool
	failList   bool
}

func newMemStore() *memStore {
	return &memStore{
		requests:  make(map[string]domain.HelpRequest),
		knowledge: make(map[string]domain.KnowledgeEntry),
	}
}

var errStoreDown = errors.New("store unavailable")

func (s *memStore) Create(ctx context.Context, req *domain.HelpRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return errStoreDown
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*domain.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &req, nil
}

func (s *memStore) ListPending(ctx context.Context) ([]domain.HelpRequest, error) {
	return s.list(func(r domain.HelpRequest) bool {
		return r.Status == domain.RequestStatusPending
	}, 0)
}

func (s *memStore) ListFinished(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	return s.list(func(r domain.HelpRequest) bool {
		return r.Status != domain.RequestStatusPending
	}, limit)
}

func (s *memStore) ListAll(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	return s.list(func(domain.HelpRequest) bool { return true }, limit)
}

func (s *memStore) list(keep func(domain.HelpRequest) bool, limit int) ([]domain.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.HelpRequest
	for _, req := range s.requests {
		if keep(req) {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *memStore) ResolvePending(ctx context.Context, id, answer string, now time.Time) (*domain.HelpRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if req.Status != domain.RequestStatusPending {
		return nil, repository.ErrNotPending
	}

	req.Status = domain.RequestStatusResolved
	req.SupervisorResponse = &answer
	req.ResolvedAt = &now
	s.requests[id] = req

	entry, ok := s.knowledge[req.Question]
	if ok {
		entry.Answer = answer
		entry.AddedOn = now
	} else {
		entry = domain.KnowledgeEntry{
			ID:       uuid.NewString(),
			Question: req.Question,
			Answer:   answer,
			AddedOn:  now,
		}
	}
	s.knowledge[req.Question] = entry

	return &req, nil
}

func (s *memStore) ExpireOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired int64
	for id, req := range s.requests {
		if req.Status == domain.RequestStatusPending && req.CreatedAt.Before(cutoff) {
			req.Status = domain.RequestStatusUnresolved
			req.ResolvedAt = &now
			s.requests[id] = req
			expired++
		}
	}
	return expired, nil
}

func (s *memStore) List(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errStoreDown
	}
	var result []domain.KnowledgeEntry
	for _, entry := range s.knowledge {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AddedOn.After(result[j].AddedOn)
	})
	return result, nil
}

func (s *memStore) addKnowledge(question, answer string, addedOn time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knowledge[question] = domain.KnowledgeEntry{
		ID:       uuid.NewString(),
		Question: question,
		Answer:   answer,
		AddedOn:  addedOn,
	}
}

func (s *memStore) request(id string) domain.HelpRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id]
}

func (s *memStore) knowledgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.knowledge)
}
