package domain

import "time"

// Message es inmutable una vez creado: no existe update ni delete.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// OtherParty devuelve el participante de la conversacion que no es userID.
func (m Message) OtherParty(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
