package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"skillconnect/internal/domain"
)

type mockHTTPFeedbackRepo struct {
	items []domain.Feedback
}

func (m *mockHTTPFeedbackRepo) Create(_ context.Context, feedback domain.Feedback) error {
	m.items = append(m.items, feedback)
	return nil
}

func (m *mockHTTPFeedbackRepo) ListByAlumni(_ context.Context, alumniID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for _, item := range m.items {
		if item.AlumniID == alumniID {
			out = append(out, item)
		}
	}
	return out, nil
}

func TestFeedbackHandlerSubmit_Success(t *testing.T) {
	env := newTestEnv()
	student := env.seedUser(t, "st1", "Student", "st1@example.com", domain.RoleStudent)
	env.seedUser(t, "al1", "Mentor", "al1@example.com", domain.RoleAlumni)
	token := env.tokenFor(t, student)

	rec := performRequest(env.router, http.MethodPost, "/feedback", token, map[string]any{
		"alumni_id": "al1",
		"rating":    5,
		"comment":   "great mentor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(env.feedback.items) != 1 || env.feedback.items[0].StudentID != "st1" {
		t.Fatalf("feedback not persisted: %+v", env.feedback.items)
	}
}

func TestFeedbackHandlerSubmit_InvalidRating(t *testing.T) {
	env := newTestEnv()
	student := env.seedUser(t, "st1", "Student", "st1@example.com", domain.RoleStudent)
	env.seedUser(t, "al1", "Mentor", "al1@example.com", domain.RoleAlumni)
	token := env.tokenFor(t, student)

	rec := performRequest(env.router, http.MethodPost, "/feedback", token, map[string]any{
		"alumni_id": "al1",
		"rating":    9,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFeedbackHandlerList_JoinsStudentNames(t *testing.T) {
	env := newTestEnv()
	viewer := env.seedUser(t, "v1", "Viewer", "v1@example.com", domain.RoleStudent)
	env.seedUser(t, "st1", "Ana Gomez", "st1@example.com", domain.RoleStudent)
	token := env.tokenFor(t, viewer)
	env.feedback.items = []domain.Feedback{
		{ID: "f1", StudentID: "st1", AlumniID: "al1", Rating: 4, Comment: "ok", CreatedAt: time.Now().UTC()},
	}

	rec := performRequest(env.router, http.MethodGet, "/feedback/al1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	var views []domain.FeedbackView
	if err := json.Unmarshal(body["feedback"], &views); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if len(views) != 1 || views[0].StudentName != "Ana Gomez" {
		t.Fatalf("expected student name join, got %+v", views)
	}
}
