package models

import "time"

// Conversation groups messages between a customer and the office.
type Conversation struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
