package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skillconnect/internal/domain"
	"skillconnect/internal/repository"
)

var (
	ErrFeedbackServiceNotConfigured = errors.New("feedback service not configured")
	ErrFeedbackInvalidInput         = errors.New("feedback invalid input")
)

// FeedbackService maneja el registro y listado de feedback de estudiantes.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	users    repository.UserRepository
}

func NewFeedbackService(feedback repository.FeedbackRepository, users repository.UserRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback, users: users}
}

type SubmitFeedbackInput struct {
	StudentID string
	AlumniID  string
	Rating    int
	Comment   string
}

func (s *FeedbackService) Submit(ctx context.Context, input SubmitFeedbackInput) (domain.Feedback, error) {
	if s == nil || s.feedback == nil || s.users == nil {
		return domain.Feedback{}, ErrFeedbackServiceNotConfigured
	}

	studentID := strings.TrimSpace(input.StudentID)
	alumniID := strings.TrimSpace(input.AlumniID)
	if studentID == "" || alumniID == "" || input.Rating < 1 || input.Rating > 5 {
		return domain.Feedback{}, ErrFeedbackInvalidInput
	}

	for _, id := range []string{studentID, alumniID} {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Feedback{}, ErrUnknownUser
			}
			return domain.Feedback{}, err
		}
	}

	feedback := domain.Feedback{
		ID:        uuid.NewString(),
		StudentID: studentID,
		AlumniID:  alumniID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return domain.Feedback{}, err
	}
	return feedback, nil
}

// ListForMentor devuelve el feedback recibido por un mentor con el nombre del
// estudiante resuelto via directorio.
func (s *FeedbackService) ListForMentor(ctx context.Context, alumniID string) ([]domain.FeedbackView, error) {
	if s == nil || s.feedback == nil || s.users == nil {
		return nil, ErrFeedbackServiceNotConfigured
	}
	alumniID = strings.TrimSpace(alumniID)
	if alumniID == "" {
		return []domain.FeedbackView{}, nil
	}

	items, err := s.feedback.ListByAlumni(ctx, alumniID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []domain.FeedbackView{}, nil
	}

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.StudentID]; ok {
			continue
		}
		seen[item.StudentID] = struct{}{}
		ids = append(ids, item.StudentID)
	}
	students, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.ID] = student.DisplayName
	}

	views := make([]domain.FeedbackView, 0, len(items))
	for _, item := range items {
		views = append(views, domain.FeedbackView{
			Feedback:    item,
			StudentName: names[item.StudentID],
		})
	}
	return views, nil
}
