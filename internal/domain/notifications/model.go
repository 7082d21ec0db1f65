package notifications

import "time"

// Notification es inmutable: se crea una vez y no se edita.
type Notification struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Message es lo que recibe cada canal de entrega.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"-"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
