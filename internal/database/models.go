package database

import (
	"time"

	"github.com/google/uuid"
)

type NewsPost struct {
	ID        uuid.UUID `json:"id"`
	Header    string    `json:"header"`
	Text      string    `json:"text"`
	Genre     string    `json:"genre"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
