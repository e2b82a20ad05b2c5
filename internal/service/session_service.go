package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"skillconnect/internal/domain"
	"skillconnect/internal/email"
	"skillconnect/internal/repository"
)

// endedRetentionLimit es la cantidad de sesiones terminadas que se conservan
// por mentor; las mas antiguas se eliminan en cada listado.
const endedRetentionLimit = 10

var (
	ErrSessionServiceNotConfigured = errors.New("session service not configured")
	ErrSessionInvalidInput         = errors.New("session invalid input")
	ErrSessionNotFound             = errors.New("session not found")
	ErrUnknownUser                 = errors.New("unknown user reference")
)

// SessionService coordina reserva, cierre, retencion y ranking de sesiones.
type SessionService struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	users    repository.UserRepository
	notifier email.Sender
}

func NewSessionService(logger *zap.Logger, sessions repository.SessionRepository, users repository.UserRepository, notifier email.Sender) *SessionService {
	if notifier == nil {
		notifier = email.NewDisabledSender("session notifier not configured")
	}
	return &SessionService{
		logger:   logger,
		sessions: sessions,
		users:    users,
		notifier: notifier,
	}
}

type BookSessionInput struct {
	StudentID      string
	AlumniID       string
	SessionDate    time.Time
	BookingDetails string
}

// Book crea una sesion en estado active. Las referencias a usuarios se
// validan al escribir: una referencia invalida falla, no se descarta en silencio.
func (s *SessionService) Book(ctx context.Context, input BookSessionInput) (domain.MentorshipSession, error) {
	if s == nil || s.sessions == nil || s.users == nil {
		return domain.MentorshipSession{}, ErrSessionServiceNotConfigured
	}

	studentID := strings.TrimSpace(input.StudentID)
	alumniID := strings.TrimSpace(input.AlumniID)
	if studentID == "" || alumniID == "" || input.SessionDate.IsZero() {
		return domain.MentorshipSession{}, ErrSessionInvalidInput
	}

	if _, err := s.users.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MentorshipSession{}, ErrUnknownUser
		}
		return domain.MentorshipSession{}, err
	}
	mentor, err := s.users.GetByID(ctx, alumniID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MentorshipSession{}, ErrUnknownUser
		}
		return domain.MentorshipSession{}, err
	}

	session := domain.MentorshipSession{
		ID:             uuid.NewString(),
		AlumniID:       alumniID,
		StudentID:      studentID,
		SessionDate:    input.SessionDate.UTC(),
		BookingDetails: strings.TrimSpace(input.BookingDetails),
		Status:         domain.SessionStatusActive,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.MentorshipSession{}, err
	}

	// Notificacion al mentor en background; un fallo de correo no afecta la reserva.
	if mentor.Email != "" {
		go func(toEmail string, when time.Time) {
			if err := s.notifier.SendSessionBooked(context.Background(), toEmail, when); err != nil && s.logger != nil {
				s.logger.Warn("session booked notification failed", zap.Error(err), zap.String("alumni_id", alumniID))
			}
		}(mentor.Email, session.SessionDate)
	}

	return session, nil
}

// End marca una sesion como ended. Cerrar una sesion ya terminada es un no-op.
func (s *SessionService) End(ctx context.Context, sessionID string) (domain.MentorshipSession, error) {
	if s == nil || s.sessions == nil {
		return domain.MentorshipSession{}, ErrSessionServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.MentorshipSession{}, ErrSessionInvalidInput
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MentorshipSession{}, ErrSessionNotFound
		}
		return domain.MentorshipSession{}, err
	}
	if session.Status == domain.SessionStatusEnded {
		return session, nil
	}

	if err := s.sessions.UpdateStatus(ctx, sessionID, domain.SessionStatusEnded); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MentorshipSession{}, ErrSessionNotFound
		}
		return domain.MentorshipSession{}, err
	}
	session.Status = domain.SessionStatusEnded
	return session, nil
}

// ListForOwner ejecuta la limpieza de retencion (best effort) y devuelve las
// sesiones del mentor enriquecidas con datos del estudiante, ordenadas por
// prioridad de estado (active primero) y luego fecha descendente.
func (s *SessionService) ListForOwner(ctx context.Context, alumniID string) ([]domain.SessionView, error) {
	if s == nil || s.sessions == nil || s.users == nil {
		return nil, ErrSessionServiceNotConfigured
	}
	alumniID = strings.TrimSpace(alumniID)
	if alumniID == "" {
		return []domain.SessionView{}, nil
	}

	// La limpieza es advisory: si falla, la lectura continua sobre datos sin podar.
	if err := s.trimEnded(ctx, alumniID); err != nil && s.logger != nil {
		s.logger.Warn("session retention cleanup failed", zap.Error(err), zap.String("alumni_id", alumniID))
	}

	sessions, err := s.sessions.ListByOwner(ctx, alumniID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return []domain.SessionView{}, nil
	}

	students, err := s.studentIndex(ctx, sessions)
	if err != nil {
		return nil, err
	}

	views := make([]domain.SessionView, 0, len(sessions))
	for _, session := range sessions {
		view := domain.SessionView{Session: session}
		if student, ok := students[session.StudentID]; ok {
			view.StudentName = student.DisplayName
			view.StudentEmail = student.Email
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		a, b := views[i].Session, views[j].Session
		ra, rb := domain.SessionStatusRank(a.Status), domain.SessionStatusRank(b.Status)
		if ra != rb {
			return ra < rb
		}
		if !a.SessionDate.Equal(b.SessionDate) {
			return a.SessionDate.After(b.SessionDate)
		}
		return a.ID > b.ID
	})

	return views, nil
}

// trimEnded conserva las endedRetentionLimit sesiones terminadas mas recientes
// del mentor y borra el resto. Las sesiones activas nunca son elegibles.
// Es idempotente: sin escrituras intermedias, una segunda pasada no borra nada.
func (s *SessionService) trimEnded(ctx context.Context, alumniID string) error {
	ended, err := s.sessions.ListByOwnerAndStatus(ctx, alumniID, domain.SessionStatusEnded)
	if err != nil {
		return err
	}
	if len(ended) <= endedRetentionLimit {
		return nil
	}

	// El repo ya ordena por fecha descendente con desempate por id; todo lo
	// que quede despues del limite se elimina en una sola operacion.
	stale := make([]string, 0, len(ended)-endedRetentionLimit)
	for _, session := range ended[endedRetentionLimit:] {
		stale = append(stale, session.ID)
	}
	return s.sessions.DeleteByIDs(ctx, stale)
}

func (s *SessionService) studentIndex(ctx context.Context, sessions []domain.MentorshipSession) (map[string]domain.User, error) {
	seen := make(map[string]struct{}, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := seen[session.StudentID]; ok {
			continue
		}
		seen[session.StudentID] = struct{}{}
		ids = append(ids, session.StudentID)
	}

	students, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := make(map[string]domain.User, len(students))
	for _, student := range students {
		index[student.ID] = student
	}
	return index, nil
}
