package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"testing"
	"time"

	"skillconnect/internal/domain"
)

type mockHTTPMessageRepo struct {
	msgs []domain.Message
}

func (m *mockHTTPMessageRepo) Create(_ context.Context, message domain.Message) error {
	m.msgs = append(m.msgs, message)
	return nil
}

func (m *mockHTTPMessageRepo) ListBetween(_ context.Context, userA, userB string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.msgs {
		if (msg.SenderID == userA && msg.ReceiverID == userB) || (msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, msg)
		}
	}
	sortMessagesAsc(out)
	return out, nil
}

func (m *mockHTTPMessageRepo) ListInvolving(_ context.Context, userID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.msgs {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	sortMessagesAsc(out)
	return out, nil
}

func sortMessagesAsc(msgs []domain.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

func messageAt(sec int) time.Time {
	return time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC).Add(time.Duration(sec) * time.Second)
}

func TestChatHandlerPostMessage_Success(t *testing.T) {
	env := newTestEnv()
	sender := env.seedUser(t, "u1", "Sender", "u1@example.com", domain.RoleStudent)
	env.seedUser(t, "u2", "Receiver", "u2@example.com", domain.RoleAlumni)
	token := env.tokenFor(t, sender)

	rec := performRequest(env.router, http.MethodPost, "/messages", token, map[string]string{
		"receiver_id": "u2",
		"text":        "hola",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	var msg domain.Message
	if err := json.Unmarshal(body["message"], &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.ID == "" || msg.SenderID != "u1" || msg.ReceiverID != "u2" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(env.messages.msgs) != 1 {
		t.Fatalf("message not persisted")
	}
}

func TestChatHandlerPostMessage_UnknownReceiver(t *testing.T) {
	env := newTestEnv()
	sender := env.seedUser(t, "u1", "Sender", "u1@example.com", domain.RoleStudent)
	token := env.tokenFor(t, sender)

	rec := performRequest(env.router, http.MethodPost, "/messages", token, map[string]string{
		"receiver_id": "ghost",
		"text":        "hola",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandlerListMessages_AscendingHistory(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "u1", "User", "u1@example.com", domain.RoleStudent)
	env.seedUser(t, "u2", "Partner", "u2@example.com", domain.RoleAlumni)
	token := env.tokenFor(t, user)

	env.messages.msgs = []domain.Message{
		{ID: "m2", SenderID: "u2", ReceiverID: "u1", Text: "second", CreatedAt: messageAt(2)},
		{ID: "m1", SenderID: "u1", ReceiverID: "u2", Text: "first", CreatedAt: messageAt(1)},
	}

	rec := performRequest(env.router, http.MethodGet, "/messages/u2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	var msgs []domain.Message
	if err := json.Unmarshal(body["messages"], &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Fatalf("expected chronological order, got %+v", msgs)
	}
}

func TestChatHandlerListConversations_RanksByActivity(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "U", "User", "u@example.com", domain.RoleStudent)
	env.seedUser(t, "P", "Partner P", "p@example.com", domain.RoleAlumni)
	env.seedUser(t, "Q", "Partner Q", "q@example.com", domain.RoleAlumni)
	token := env.tokenFor(t, user)

	env.messages.msgs = []domain.Message{
		{ID: "m1", SenderID: "U", ReceiverID: "P", Text: "hi", CreatedAt: messageAt(1)},
		{ID: "m2", SenderID: "Q", ReceiverID: "U", Text: "hey there", CreatedAt: messageAt(2)},
		{ID: "m3", SenderID: "P", ReceiverID: "U", Text: "bye", CreatedAt: messageAt(3)},
	}

	rec := performRequest(env.router, http.MethodGet, "/conversations", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	var summaries []domain.ConversationSummary
	if err := json.Unmarshal(body["conversations"], &summaries); err != nil {
		t.Fatalf("decode conversations: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(summaries))
	}
	if summaries[0].PartnerID != "P" || summaries[0].LastMessage != "bye" {
		t.Fatalf("unexpected first summary: %+v", summaries[0])
	}
	if summaries[1].PartnerID != "Q" {
		t.Fatalf("unexpected second summary: %+v", summaries[1])
	}
}

func TestChatHandlerListConversations_EmptyIsOK(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(t, "U", "User", "u@example.com", domain.RoleStudent)
	token := env.tokenFor(t, user)

	rec := performRequest(env.router, http.MethodGet, "/conversations", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty inbox, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	var summaries []domain.ConversationSummary
	if err := json.Unmarshal(body["conversations"], &summaries); err != nil {
		t.Fatalf("decode conversations: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty list, got %+v", summaries)
	}
}
