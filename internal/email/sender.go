package email

import (
	"context"
	"errors"
	"time"
)

// Sender define la interfaz para notificaciones por correo.
type Sender interface {
	SendSessionBooked(ctx context.Context, toEmail string, sessionDate time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendSessionBooked(_ context.Context, _ string, _ time.Time) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
