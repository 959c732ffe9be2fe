package store

import (
	"context"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var _ model.MessageRepository = (*messageRepo)(nil)

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) model.MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, m *model.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListByChannel returns messages newest-first. page is 1-based; out-of-range
// limits clamp to the default.
func (r *messageRepo) ListByChannel(ctx context.Context, channelID uuid.UUID, page, limit int) ([]*model.Message, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	var list []*model.Message
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *messageRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Message{}, "id = ?", id).Error
}
