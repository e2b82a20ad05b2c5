package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"skillconnect/internal/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback domain.Feedback) error
	ListByAlumni(ctx context.Context, alumniID string) ([]domain.Feedback, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, feedback domain.Feedback) error {
	const query = `
		INSERT INTO feedback (id, student_id, alumni_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.StudentID,
		feedback.AlumniID,
		feedback.Rating,
		feedback.Comment,
		feedback.CreatedAt,
	)
	return err
}

func (r *PgFeedbackRepository) ListByAlumni(ctx context.Context, alumniID string) ([]domain.Feedback, error) {
	const query = `
		SELECT id, student_id, alumni_id, rating, comment, created_at
		FROM feedback
		WHERE alumni_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, alumniID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(
			&f.ID,
			&f.StudentID,
			&f.AlumniID,
			&f.Rating,
			&f.Comment,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
