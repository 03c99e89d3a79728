package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/frontdesk-service/internal/domain"
)

// ErrNotPending signals that a terminal transition was attempted on a request
// that is no longer Pending. Callers treat it as a benign conflict.
var ErrNotPending = errors.New("help request is not pending")

// HelpRequestRepository encapsulates help request persistence.
//
// Both terminal transitions (ResolvePending, ExpireOlderThan) are conditional
// on the row still being Pending at write time, so a supervisor resolution
// racing a sweeper tick applies exactly one of the two.
type HelpRequestRepository interface {
	Create(ctx context.Context, req *domain.HelpRequest) error
	GetByID(ctx context.Context, id string) (*domain.HelpRequest, error)
	ListPending(ctx context.Context) ([]domain.HelpRequest, error)
	ListFinished(ctx context.Context, limit int) ([]domain.HelpRequest, error)
	ListAll(ctx context.Context, limit int) ([]domain.HelpRequest, error)
	// ResolvePending transitions a Pending request to Resolved and merges the
	// answer into the knowledge base under the request's exact question text,
	// both in one transaction. Returns pgx.ErrNoRows when the id is unknown
	// and ErrNotPending when the request already reached a terminal status.
	ResolvePending(ctx context.Context, id, answer string, now time.Time) (*domain.HelpRequest, error)
	// ExpireOlderThan marks every Pending request created before cutoff as
	// Unresolved in a single batch statement and reports how many rows moved.
	ExpireOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type helpRequestRepository struct {
	pool *pgxpool.Pool
}

// NewHelpRequestRepository instantiates repository.
func NewHelpRequestRepository(pool *pgxpool.Pool) HelpRequestRepository {
	return &helpRequestRepository{pool: pool}
}

const helpRequestColumns = `id, question, caller_id, status, created_at, resolved_at, supervisor_response`

func (r *helpRequestRepository) Create(ctx context.Context, req *domain.HelpRequest) error {
	const query = `
        INSERT INTO help_requests (id, question, caller_id, status, created_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.Question,
		req.CallerID,
		req.Status,
		req.CreatedAt,
	)
	return err
}

func (r *helpRequestRepository) GetByID(ctx context.Context, id string) (*domain.HelpRequest, error) {
	const query = `SELECT ` + helpRequestColumns + ` FROM help_requests WHERE id=$1`
	return scanHelpRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *helpRequestRepository) ListPending(ctx context.Context) ([]domain.HelpRequest, error) {
	const query = `
        SELECT ` + helpRequestColumns + ` FROM help_requests
        WHERE status=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, domain.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHelpRequests(rows)
}

func (r *helpRequestRepository) ListFinished(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	const query = `
        SELECT ` + helpRequestColumns + ` FROM help_requests
        WHERE status<>$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, domain.RequestStatusPending, normalizeLimit(limit, 50))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHelpRequests(rows)
}

func (r *helpRequestRepository) ListAll(ctx context.Context, limit int) ([]domain.HelpRequest, error) {
	const query = `
        SELECT ` + helpRequestColumns + ` FROM help_requests
        ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, normalizeLimit(limit, 100))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHelpRequests(rows)
}

func (r *helpRequestRepository) ResolvePending(ctx context.Context, id, answer string, now time.Time) (*domain.HelpRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE help_requests
        SET status=$2, supervisor_response=$3, resolved_at=$4
        WHERE id=$1 AND status=$5
        RETURNING ` + helpRequestColumns
	req, err := scanHelpRequest(tx.QueryRow(ctx, update,
		id, domain.RequestStatusResolved, answer, now, domain.RequestStatusPending))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		// Zero rows: either the id is unknown or the race was lost.
		const probe = `SELECT ` + helpRequestColumns + ` FROM help_requests WHERE id=$1`
		if _, probeErr := scanHelpRequest(tx.QueryRow(ctx, probe, id)); probeErr != nil {
			return nil, probeErr
		}
		return nil, ErrNotPending
	}

	if err := upsertKnowledge(ctx, tx, req.Question, answer, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *helpRequestRepository) ExpireOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error) {
	const query = `
        UPDATE help_requests
        SET status=$1, resolved_at=$2
        WHERE status=$3 AND created_at < $4`
	cmd, err := r.pool.Exec(ctx, query,
		domain.RequestStatusUnresolved, now, domain.RequestStatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanHelpRequest(row pgx.Row) (*domain.HelpRequest, error) {
	var req domain.HelpRequest
	if err := row.Scan(
		&req.ID,
		&req.Question,
		&req.CallerID,
		&req.Status,
		&req.CreatedAt,
		&req.ResolvedAt,
		&req.SupervisorResponse,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func scanHelpRequests(rows pgx.Rows) ([]domain.HelpRequest, error) {
	var result []domain.HelpRequest
	for rows.Next() {
		req, err := scanHelpRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > fallback {
		return fallback
	}
	return limit
}
