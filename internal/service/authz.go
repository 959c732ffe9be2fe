package service

import (
	"context"
	"fmt"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// memberGuard answers "what role does this user hold in this channel"
// against the durable record, with a small LRU in front of the hot path.
// Authorization never consults the ephemeral cache set.
type memberGuard struct {
	members model.MembershipRepository
	roles   *lru.Cache[string, model.Role]
}

func newMemberGuard(members model.MembershipRepository) *memberGuard {
	roles, _ := lru.New[string, model.Role](4096)
	return &memberGuard{
		members: members,
		roles:   roles,
	}
}

func guardKey(channelID, userID uuid.UUID) string {
	return channelID.String() + "|" + userID.String()
}

// role returns ErrNotMember when no durable membership record exists.
// Negative results are never cached so a fresh join is visible immediately.
func (g *memberGuard) role(ctx context.Context, channelID, userID uuid.UUID) (model.Role, error) {
	key := guardKey(channelID, userID)
	if cached, ok := g.roles.Get(key); ok {
		return cached, nil
	}

	m, err := g.members.Get(ctx, channelID, userID)
	if err != nil {
		return "", fmt.Errorf("membership lookup: %w", err)
	}
	if m == nil {
		return "", ErrNotMember
	}

	g.roles.Add(key, m.Role)
	return m.Role, nil
}

// forget drops a cached role after a membership mutation.
func (g *memberGuard) forget(channelID, userID uuid.UUID) {
	g.roles.Remove(guardKey(channelID, userID))
}
