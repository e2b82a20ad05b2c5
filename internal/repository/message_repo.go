package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillconnect/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
// El log es append-only: no hay update ni delete.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error)
	ListInvolving(ctx context.Context, userID string) ([]domain.Message, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, sender_id, receiver_id, message_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SenderID,
		message.ReceiverID,
		message.Text,
		message.CreatedAt,
	)
	return err
}

// ListBetween devuelve los mensajes entre dos usuarios en cualquier direccion,
// en orden cronologico ascendente. El desempate usa seq (bigserial asignado por
// el store), que aproxima el orden de insercion.
func (r *PgMessageRepository) ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	const query = `
		SELECT id, sender_id, receiver_id, message_text, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListInvolving devuelve todos los mensajes donde el usuario participa como
// emisor o receptor, con el mismo orden total que ListBetween.
func (r *PgMessageRepository) ListInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `
		SELECT id, sender_id, receiver_id, message_text, created_at
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Text,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
