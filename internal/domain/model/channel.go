package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChannelKind string

const (
	ChannelPublic  ChannelKind = "public"
	ChannelPrivate ChannelKind = "private"
	ChannelDirect  ChannelKind = "direct"
)

// Channel is a named grouping that messages are scoped to. Persisted durably;
// the messaging core only ever touches the last-message pointer.
type Channel struct {
	ID            uuid.UUID   `gorm:"type:char(36);primaryKey" json:"id"`
	Name          string      `gorm:"size:128;not null" json:"name"`
	Kind          ChannelKind `gorm:"size:16;not null;default:public" json:"kind"`
	CreatorID     uuid.UUID   `gorm:"type:char(36);index;not null" json:"creatorId"`
	LastMessageID *uuid.UUID  `gorm:"type:char(36)" json:"lastMessageId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ChannelRepository is the durable-store contract for channels.
type ChannelRepository interface {
	Create(ctx context.Context, c *Channel) error
	Update(ctx context.Context, c *Channel) error
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*Channel, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Channel, error)
	SetLastMessage(ctx context.Context, channelID, messageID uuid.UUID) error
}
