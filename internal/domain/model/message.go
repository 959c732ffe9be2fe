package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// MaxContentLen caps message content, in characters. The boundary validator
// tags (max=2048) and the Content column size cannot reference a constant and
// must stay in agreement with it.
const MaxContentLen = 2048

// Message is immutable once created. Status transitions are handled by the
// REST layer, never by the realtime core.
type Message struct {
	ID        uuid.UUID     `gorm:"type:char(36);primaryKey" json:"id"`
	ChannelID uuid.UUID     `gorm:"type:char(36);index;not null" json:"channelId"`
	AuthorID  uuid.UUID     `gorm:"type:char(36);index;not null" json:"userId"`
	Content   string        `gorm:"size:2048;not null" json:"content"`
	Status    MessageStatus `gorm:"size:16;not null;default:sent" json:"status"`
	CreatedAt time.Time     `gorm:"index" json:"timestamp"`
}

// MessageRepository is the durable-store contract for messages.
// ListByChannel returns newest-first with page/limit as offset/limit.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	ListByChannel(ctx context.Context, channelID uuid.UUID, page, limit int) ([]*Message, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
