package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"skillconnect/internal/domain"
)

type mockSessionRepo struct {
	sessions map[string]domain.MentorshipSession

	listErr   error
	deleteErr error

	deleteCalls int
	lastDeleted []string
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.MentorshipSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.MentorshipSession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (domain.MentorshipSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return domain.MentorshipSession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) UpdateStatus(_ context.Context, id, status string) error {
	session, ok := m.sessions[id]
	if !ok {
		return pgx.ErrNoRows
	}
	session.Status = status
	m.sessions[id] = session
	return nil
}

func (m *mockSessionRepo) ListByOwner(_ context.Context, alumniID string) ([]domain.MentorshipSession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(alumniID, ""), nil
}

func (m *mockSessionRepo) ListByOwnerAndStatus(_ context.Context, alumniID, status string) ([]domain.MentorshipSession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(alumniID, status), nil
}

func (m *mockSessionRepo) DeleteByIDs(_ context.Context, ids []string) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.lastDeleted = ids
	for _, id := range ids {
		delete(m.sessions, id)
	}
	return nil
}

// sorted replica el orden del repo real: session_date DESC, id DESC.
func (m *mockSessionRepo) sorted(alumniID, status string) []domain.MentorshipSession {
	var out []domain.MentorshipSession
	for _, session := range m.sessions {
		if session.AlumniID != alumniID {
			continue
		}
		if status != "" && session.Status != status {
			continue
		}
		out = append(out, session)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SessionDate.Equal(out[j].SessionDate) {
			return out[i].SessionDate.After(out[j].SessionDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func newSessionFixture(t *testing.T) (*SessionService, *mockSessionRepo, *mockUserRepo) {
	t.Helper()
	sessions := newMockSessionRepo()
	users := newMockUserRepo()
	svc := NewSessionService(zap.NewNop(), sessions, users, nil)
	return svc, sessions, users
}

func seedUser(users *mockUserRepo, id, name, emailAddr string) {
	users.byID[id] = domain.User{ID: id, Email: emailAddr, DisplayName: name, Role: domain.RoleStudent}
	if emailAddr != "" {
		users.byEmail[emailAddr] = id
	}
}

func seedSession(repo *mockSessionRepo, id, alumniID, studentID, status string, day int) {
	repo.sessions[id] = domain.MentorshipSession{
		ID:          id,
		AlumniID:    alumniID,
		StudentID:   studentID,
		SessionDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Status:      status,
	}
}

func TestListForOwnerTrimsBeyondRetentionLimit(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")

	// 12 sesiones terminadas (dias 1..12) y una activa vieja (dia 0).
	for day := 1; day <= 12; day++ {
		seedSession(sessions, fmt.Sprintf("ended-%02d", day), "al1", "st1", domain.SessionStatusEnded, day)
	}
	seedSession(sessions, "active-00", "al1", "st1", domain.SessionStatusActive, 0)

	views, err := svc.ListForOwner(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 11 {
		t.Fatalf("expected 11 sessions (1 active + 10 retained), got %d", len(views))
	}
	if views[0].Session.ID != "active-00" {
		t.Fatalf("expected active session first, got %s", views[0].Session.ID)
	}
	for i := 0; i < 10; i++ {
		want := fmt.Sprintf("ended-%02d", 12-i)
		if got := views[i+1].Session.ID; got != want {
			t.Fatalf("position %d: expected %s, got %s", i+1, want, got)
		}
	}
	for _, id := range []string{"ended-01", "ended-02"} {
		if _, ok := sessions.sessions[id]; ok {
			t.Fatalf("expected %s to be trimmed", id)
		}
	}
}

func TestListForOwnerTrimNoopAtOrBelowLimit(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	for day := 1; day <= 10; day++ {
		seedSession(sessions, fmt.Sprintf("ended-%02d", day), "al1", "st1", domain.SessionStatusEnded, day)
	}

	views, err := svc.ListForOwner(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 10 {
		t.Fatalf("expected all 10 sessions retained, got %d", len(views))
	}
	if sessions.deleteCalls != 0 {
		t.Fatalf("expected no delete call, got %d", sessions.deleteCalls)
	}
}

func TestListForOwnerTrimIsIdempotent(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	for day := 1; day <= 13; day++ {
		seedSession(sessions, fmt.Sprintf("ended-%02d", day), "al1", "st1", domain.SessionStatusEnded, day)
	}

	if _, err := svc.ListForOwner(context.Background(), "al1"); err != nil {
		t.Fatalf("first list: %v", err)
	}
	afterFirst := len(sessions.sessions)
	firstDeletes := sessions.deleteCalls

	if _, err := svc.ListForOwner(context.Background(), "al1"); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(sessions.sessions) != afterFirst {
		t.Fatalf("expected store unchanged after second trim, %d -> %d", afterFirst, len(sessions.sessions))
	}
	if sessions.deleteCalls != firstDeletes {
		t.Fatalf("expected no further deletes, got %d extra", sessions.deleteCalls-firstDeletes)
	}
}

func TestTrimNeverRemovesActiveSessions(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	// Activas mas viejas que cualquier terminada: aun asi no son elegibles.
	for day := 1; day <= 15; day++ {
		seedSession(sessions, fmt.Sprintf("active-%02d", day), "al1", "st1", domain.SessionStatusActive, -day)
	}
	for day := 1; day <= 12; day++ {
		seedSession(sessions, fmt.Sprintf("ended-%02d", day), "al1", "st1", domain.SessionStatusEnded, day)
	}

	views, err := svc.ListForOwner(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 25 {
		t.Fatalf("expected 15 active + 10 ended, got %d", len(views))
	}
	for day := 1; day <= 15; day++ {
		if _, ok := sessions.sessions[fmt.Sprintf("active-%02d", day)]; !ok {
			t.Fatalf("active session %d was deleted", day)
		}
	}
}

func TestListForOwnerContinuesWhenTrimFails(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	for day := 1; day <= 12; day++ {
		seedSession(sessions, fmt.Sprintf("ended-%02d", day), "al1", "st1", domain.SessionStatusEnded, day)
	}
	sessions.deleteErr = errors.New("store unavailable")

	views, err := svc.ListForOwner(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected read to proceed despite trim failure, got %v", err)
	}
	if len(views) != 12 {
		t.Fatalf("expected un-trimmed set of 12, got %d", len(views))
	}
}

func TestListForOwnerOrdersActiveFirstThenRecency(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	seedSession(sessions, "ended-new", "al1", "st1", domain.SessionStatusEnded, 9)
	seedSession(sessions, "active-old", "al1", "st1", domain.SessionStatusActive, 1)
	seedSession(sessions, "ended-old", "al1", "st1", domain.SessionStatusEnded, 2)
	seedSession(sessions, "active-new", "al1", "st1", domain.SessionStatusActive, 5)

	views, err := svc.ListForOwner(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"active-new", "active-old", "ended-new", "ended-old"}
	for i, id := range want {
		if views[i].Session.ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, views[i].Session.ID)
		}
	}
}

func TestTrimTieBreakIsDeterministic(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	// 11 terminadas con la misma fecha: se retienen las 10 de id mayor.
	for i := 1; i <= 11; i++ {
		seedSession(sessions, fmt.Sprintf("tie-%02d", i), "al1", "st1", domain.SessionStatusEnded, 5)
	}

	if _, err := svc.ListForOwner(context.Background(), "al1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := sessions.sessions["tie-01"]; ok {
		t.Fatalf("expected lowest-id tied session to be trimmed")
	}
	for i := 2; i <= 11; i++ {
		if _, ok := sessions.sessions[fmt.Sprintf("tie-%02d", i)]; !ok {
			t.Fatalf("tie-%02d should have been retained", i)
		}
	}
}

func TestListForOwnerEnrichesStudentData(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Ana Gomez", "ana@example.com")
	seedSession(sessions, "s1", "al1", "st1", domain.SessionStatusActive, 1)

	views, err := svc.ListForOwner(context.Background(), "al1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if views[0].StudentName != "Ana Gomez" || views[0].StudentEmail != "ana@example.com" {
		t.Fatalf("expected student join, got %+v", views[0])
	}
}

func TestListForOwnerEmptyOwner(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	views, err := svc.ListForOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Fatalf("expected empty slice, got %+v", views)
	}
}

func TestBookValidatesUserReferences(t *testing.T) {
	svc, _, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")

	_, err := svc.Book(context.Background(), BookSessionInput{
		StudentID:   "st1",
		AlumniID:    "ghost",
		SessionDate: time.Now().UTC().Add(24 * time.Hour),
	})
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestBookCreatesActiveSession(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	seedUser(users, "al1", "Mentor One", "al1@example.com")

	when := time.Date(2025, time.April, 10, 15, 0, 0, 0, time.UTC)
	session, err := svc.Book(context.Background(), BookSessionInput{
		StudentID:      "st1",
		AlumniID:       "al1",
		SessionDate:    when,
		BookingDetails: " resume review ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session.ID == "" || session.Status != domain.SessionStatusActive {
		t.Fatalf("expected active session with id, got %+v", session)
	}
	if session.BookingDetails != "resume review" {
		t.Fatalf("expected trimmed details, got %q", session.BookingDetails)
	}
	if _, ok := sessions.sessions[session.ID]; !ok {
		t.Fatalf("session not persisted")
	}
}

func TestEndSessionTransitionsAndIsIdempotent(t *testing.T) {
	svc, sessions, users := newSessionFixture(t)
	seedUser(users, "st1", "Student One", "st1@example.com")
	seedSession(sessions, "s1", "al1", "st1", domain.SessionStatusActive, 1)

	ended, err := svc.End(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ended.Status != domain.SessionStatusEnded {
		t.Fatalf("expected ended status, got %s", ended.Status)
	}

	again, err := svc.End(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected ending twice to be a no-op, got %v", err)
	}
	if again.Status != domain.SessionStatusEnded {
		t.Fatalf("expected ended status on repeat, got %s", again.Status)
	}

	if _, err := svc.End(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
