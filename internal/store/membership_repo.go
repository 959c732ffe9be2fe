package store

import (
	"context"
	"errors"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ model.MembershipRepository = (*membershipRepo)(nil)

type membershipRepo struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) model.MembershipRepository {
	return &membershipRepo{db: db}
}

// Add is idempotent: re-adding an existing (channel, user) pair is a no-op
// thanks to the unique index plus DO NOTHING on conflict.
func (r *membershipRepo) Add(ctx context.Context, m *model.Membership) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m).Error
}

func (r *membershipRepo) Remove(ctx context.Context, channelID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&model.Membership{}).Error
}

// Get returns (nil, nil) when no record exists; membership checks treat that
// as "not a member" rather than an error.
func (r *membershipRepo) Get(ctx context.Context, channelID, userID uuid.UUID) (*model.Membership, error) {
	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepo) ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*model.Membership, error) {
	var list []*model.Membership
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
