package domain

import "time"

const (
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)

// MentorshipSession representa una sesion de mentoria entre un alumni y un estudiante.
// El estado solo transiciona active -> ended; el borrado ocurre unicamente via retencion.
type MentorshipSession struct {
	ID             string    `json:"id"`
	AlumniID       string    `json:"alumni_id"`
	StudentID      string    `json:"student_id"`
	SessionDate    time.Time `json:"session_date"`
	BookingDetails string    `json:"booking_details,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionStatusRank asigna prioridad explicita de orden: active antes que ended.
// Se evita comparar strings para no depender de collation.
func SessionStatusRank(status string) int {
	if status == SessionStatusActive {
		return 0
	}
	return 1
}
