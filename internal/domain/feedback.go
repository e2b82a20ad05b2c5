package domain

import "time"

type Feedback struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	AlumniID  string    `json:"alumni_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
