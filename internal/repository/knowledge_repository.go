package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/frontdesk-service/internal/domain"
)

// KnowledgeRepository reads the learned question/answer store. Writes happen
// only inside the resolution transaction (see HelpRequestRepository).
type KnowledgeRepository interface {
	List(ctx context.Context) ([]domain.KnowledgeEntry, error)
}

type knowledgeRepository struct {
	pool *pgxpool.Pool
}

// NewKnowledgeRepository instantiates repository.
func NewKnowledgeRepository(pool *pgxpool.Pool) KnowledgeRepository {
	return &knowledgeRepository{pool: pool}
}

func (r *knowledgeRepository) List(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	const query = `
        SELECT id, question, answer, added_on FROM knowledge_base
        ORDER BY added_on DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.KnowledgeEntry
	for rows.Next() {
		var entry domain.KnowledgeEntry
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.AddedOn); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// upsertKnowledge inserts or overwrites the entry for the exact question text
// within the caller's transaction. The unique constraint on question makes the
// merge race-free.
func upsertKnowledge(ctx context.Context, tx pgx.Tx, question, answer string, now time.Time) error {
	const query = `
        INSERT INTO knowledge_base (id, question, answer, added_on)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (question)
        DO UPDATE SET answer=EXCLUDED.answer, added_on=EXCLUDED.added_on`
	_, err := tx.Exec(ctx, query, uuid.NewString(), question, answer, now)
	return err
}
