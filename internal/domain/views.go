package domain

import "time"

// Vistas derivadas para presentacion; no se persisten.

// SessionView es una sesion enriquecida con los datos del estudiante.
type SessionView struct {
	Session      MentorshipSession `json:"session"`
	StudentName  string            `json:"student_name,omitempty"`
	StudentEmail string            `json:"student_email,omitempty"`
}

// ConversationSummary resume la conversacion con un partner: ultimo mensaje
// y timestamp de ultima actividad. Se recomputa en cada lectura.
type ConversationSummary struct {
	PartnerID    string    `json:"partner_id"`
	PartnerName  string    `json:"partner_name,omitempty"`
	LastMessage  string    `json:"last_message"`
	LastActivity time.Time `json:"last_activity"`
}

// FeedbackView es un feedback enriquecido con el nombre del estudiante.
type FeedbackView struct {
	Feedback    Feedback `json:"feedback"`
	StudentName string   `json:"student_name,omitempty"`
}
