package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillconnect/internal/domain"
)

// SessionRepository define el contrato de persistencia para sesiones de mentoria.
type SessionRepository interface {
	Create(ctx context.Context, session domain.MentorshipSession) error
	GetByID(ctx context.Context, id string) (domain.MentorshipSession, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByOwner(ctx context.Context, alumniID string) ([]domain.MentorshipSession, error)
	ListByOwnerAndStatus(ctx context.Context, alumniID, status string) ([]domain.MentorshipSession, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// PgSessionRepository implementa SessionRepository usando pgxpool.
type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

const sessionColumns = `id, alumni_id, student_id, session_date, booking_details, status, created_at`

func (r *PgSessionRepository) Create(ctx context.Context, session domain.MentorshipSession) error {
	const query = `
		INSERT INTO mentorship_sessions (id, alumni_id, student_id, session_date, booking_details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.AlumniID,
		session.StudentID,
		session.SessionDate,
		session.BookingDetails,
		session.Status,
		session.CreatedAt,
	)
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.MentorshipSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM mentorship_sessions
		WHERE id = $1
	`
	var s domain.MentorshipSession
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.AlumniID,
		&s.StudentID,
		&s.SessionDate,
		&s.BookingDetails,
		&s.Status,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MentorshipSession{}, err
	}
	return s, err
}

func (r *PgSessionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `
		UPDATE mentorship_sessions
		SET status = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgSessionRepository) ListByOwner(ctx context.Context, alumniID string) ([]domain.MentorshipSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM mentorship_sessions
		WHERE alumni_id = $1
		ORDER BY session_date DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, alumniID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListByOwnerAndStatus devuelve las sesiones del owner con un estado dado,
// ordenadas por fecha descendente con desempate estable por id.
func (r *PgSessionRepository) ListByOwnerAndStatus(ctx context.Context, alumniID, status string) ([]domain.MentorshipSession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM mentorship_sessions
		WHERE alumni_id = $1 AND status = $2
		ORDER BY session_date DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, alumniID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *PgSessionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `
		DELETE FROM mentorship_sessions
		WHERE id = ANY($1)
	`
	_, err := r.pool.Exec(ctx, query, ids)
	return err
}

func scanSessions(rows pgx.Rows) ([]domain.MentorshipSession, error) {
	var sessions []domain.MentorshipSession
	for rows.Next() {
		var s domain.MentorshipSession
		if err := rows.Scan(
			&s.ID,
			&s.AlumniID,
			&s.StudentID,
			&s.SessionDate,
			&s.BookingDetails,
			&s.Status,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
