package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillconnect/internal/domain"
)

type mockFeedbackRepo struct {
	items     []domain.Feedback
	createErr error
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback domain.Feedback) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items = append(m.items, feedback)
	return nil
}

func (m *mockFeedbackRepo) ListByAlumni(_ context.Context, alumniID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for _, item := range m.items {
		if item.AlumniID == alumniID {
			out = append(out, item)
		}
	}
	return out, nil
}

func TestSubmitFeedbackValidatesInput(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "st1", "Student", "st1@example.com")
	seedUser(users, "al1", "Mentor", "al1@example.com")
	svc := NewFeedbackService(&mockFeedbackRepo{}, users)

	cases := []SubmitFeedbackInput{
		{StudentID: "st1", AlumniID: "al1", Rating: 0},
		{StudentID: "st1", AlumniID: "al1", Rating: 6},
		{StudentID: "", AlumniID: "al1", Rating: 3},
	}
	for i, c := range cases {
		if _, err := svc.Submit(context.Background(), c); !errors.Is(err, ErrFeedbackInvalidInput) {
			t.Fatalf("case %d: expected ErrFeedbackInvalidInput, got %v", i, err)
		}
	}

	if _, err := svc.Submit(context.Background(), SubmitFeedbackInput{
		StudentID: "st1", AlumniID: "ghost", Rating: 4,
	}); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestSubmitFeedbackPersists(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "st1", "Student", "st1@example.com")
	seedUser(users, "al1", "Mentor", "al1@example.com")
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo, users)

	feedback, err := svc.Submit(context.Background(), SubmitFeedbackInput{
		StudentID: "st1",
		AlumniID:  "al1",
		Rating:    5,
		Comment:   " great session ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if feedback.ID == "" || feedback.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", feedback)
	}
	if feedback.Comment != "great session" {
		t.Fatalf("expected trimmed comment, got %q", feedback.Comment)
	}
	if len(repo.items) != 1 {
		t.Fatalf("feedback not persisted")
	}
}

func TestListForMentorJoinsStudentNames(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "st1", "Ana Gomez", "st1@example.com")
	repo := &mockFeedbackRepo{items: []domain.Feedback{
		{ID: "f1", StudentID: "st1", AlumniID: "al1", Rating: 5, CreatedAt: time.Now().UTC()},
	}}
	svc := NewFeedbackService(repo, users)

	views, err := svc.ListForMentor(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 1 || views[0].StudentName != "Ana Gomez" {
		t.Fatalf("expected student name join, got %+v", views)
	}
}

func TestListForMentorEmpty(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, newMockUserRepo())
	views, err := svc.ListForMentor(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Fatalf("expected empty slice, got %+v", views)
	}
}
