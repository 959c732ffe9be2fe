package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Membership is the durable source of truth relating a user to a channel.
// The cache-resident member set is a best-effort view rebuilt by explicit
// join calls; authorization decisions always consult this record instead.
type Membership struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	ChannelID uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_channel_user;not null" json:"channelId"`
	UserID    uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_channel_user;index;not null" json:"userId"`
	Role      Role      `gorm:"size:16;not null;default:member" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// MembershipRepository is the durable-store contract for memberships.
// Get returns (nil, nil) when no record exists.
type MembershipRepository interface {
	Add(ctx context.Context, m *Membership) error
	Remove(ctx context.Context, channelID, userID uuid.UUID) error
	Get(ctx context.Context, channelID, userID uuid.UUID) (*Membership, error)
	ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*Membership, error)
}
