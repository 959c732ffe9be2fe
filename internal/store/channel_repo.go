package store

import (
	"context"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ model.ChannelRepository = (*channelRepo)(nil)

type channelRepo struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) model.ChannelRepository {
	return &channelRepo{db: db}
}

func (r *channelRepo) Create(ctx context.Context, c *model.Channel) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *channelRepo) Update(ctx context.Context, c *model.Channel) error {
	return r.db.WithContext(ctx).Model(&model.Channel{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "kind": c.Kind}).Error
}

func (r *channelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Channel{}, "id = ?", id).Error
}

func (r *channelRepo) Get(ctx context.Context, id uuid.UUID) (*model.Channel, error) {
	var c model.Channel
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUser returns every channel the user holds a durable membership in.
func (r *channelRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Channel, error) {
	var list []*model.Channel
	err := r.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.channel_id = channels.id").
		Where("memberships.user_id = ?", userID).
		Order("channels.updated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SetLastMessage advances the channel's last-message pointer. This is the
// only channel mutation the messaging core performs.
func (r *channelRepo) SetLastMessage(ctx context.Context, channelID, messageID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Channel{}).
		Where("id = ?", channelID).
		Update("last_message_id", messageID).Error
}
