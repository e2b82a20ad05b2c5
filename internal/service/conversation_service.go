package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillconnect/internal/domain"
	"skillconnect/internal/repository"
)

var (
	ErrConversationServiceNotConfigured = errors.New("conversation service not configured")
	ErrMessageInvalidInput              = errors.New("message invalid input")
)

// ConversationService maneja el envio de mensajes y la vista agregada de
// conversaciones por usuario.
type ConversationService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
}

func NewConversationService(messages repository.MessageRepository, users repository.UserRepository) *ConversationService {
	return &ConversationService{messages: messages, users: users}
}

// Send persiste un mensaje dirigido. El timestamp se asigna aqui con el reloj
// del proceso en UTC, de modo que inserciones secuenciales no decrecen.
func (s *ConversationService) Send(ctx context.Context, senderID, receiverID, text string) (domain.Message, error) {
	if s == nil || s.messages == nil || s.users == nil {
		return domain.Message{}, ErrConversationServiceNotConfigured
	}

	senderID = strings.TrimSpace(senderID)
	receiverID = strings.TrimSpace(receiverID)
	text = strings.TrimSpace(text)
	if senderID == "" || receiverID == "" || text == "" {
		return domain.Message{}, ErrMessageInvalidInput
	}

	for _, id := range []string{senderID, receiverID} {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Message{}, ErrUnknownUser
			}
			return domain.Message{}, err
		}
	}

	msg := domain.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// ListBetween devuelve el historial crudo entre dos usuarios en orden ascendente.
func (s *ConversationService) ListBetween(ctx context.Context, userID, partnerID string) ([]domain.Message, error) {
	if s == nil || s.messages == nil {
		return nil, ErrConversationServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	partnerID = strings.TrimSpace(partnerID)
	if userID == "" || partnerID == "" {
		return []domain.Message{}, nil
	}
	msgs, err := s.messages.ListBetween(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// ListForUser deriva el resumen de conversaciones del usuario: un partner por
// entrada con su ultimo mensaje y timestamp de actividad, ordenado por
// actividad descendente. Es una vista materializada sobre el log de mensajes;
// sin mensajes el resultado es vacio, no un error.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	if s == nil || s.messages == nil || s.users == nil {
		return nil, ErrConversationServiceNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []domain.ConversationSummary{}, nil
	}

	msgs, err := s.messages.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Una sola pasada sobre el log: partner -> mejor mensaje hasta ahora.
	// El repo entrega orden ascendente, asi que con >= gana el insertado despues
	// cuando los timestamps empatan.
	best := make(map[string]domain.Message)
	for _, msg := range msgs {
		partner := msg.OtherParty(userID)
		if partner == userID {
			// Mensajes a uno mismo no generan conversacion.
			continue
		}
		current, ok := best[partner]
		if !ok || !msg.CreatedAt.Before(current.CreatedAt) {
			best[partner] = msg
		}
	}
	if len(best) == 0 {
		return []domain.ConversationSummary{}, nil
	}

	partnerIDs := make([]string, 0, len(best))
	for id := range best {
		partnerIDs = append(partnerIDs, id)
	}
	partners, err := s.users.ListByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(partners))
	for _, partner := range partners {
		names[partner.ID] = partner.DisplayName
	}

	summaries := make([]domain.ConversationSummary, 0, len(best))
	for id, msg := range best {
		summaries = append(summaries, domain.ConversationSummary{
			PartnerID:    id,
			PartnerName:  names[id],
			LastMessage:  msg.Text,
			LastActivity: msg.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].LastActivity.Equal(summaries[j].LastActivity) {
			return summaries[i].LastActivity.After(summaries[j].LastActivity)
		}
		return summaries[i].PartnerID < summaries[j].PartnerID
	})

	return summaries, nil
}
