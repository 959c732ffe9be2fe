package dto

import (
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

// MessageCreatedV1 is the wire payload riding the internal event pipeline
// between ingestion and fan-out.
type MessageCreatedV1 struct {
	MessageID  string `json:"message_id"`
	ChannelID  string `json:"channel_id"`
	AuthorID   string `json:"author_id"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	OccurredAt int64  `json:"occurred_at"`
}

func FromMessage(m *model.Message) *MessageCreatedV1 {
	return &MessageCreatedV1{
		MessageID:  m.ID.String(),
		ChannelID:  m.ChannelID.String(),
		AuthorID:   m.AuthorID.String(),
		Content:    m.Content,
		Status:     string(m.Status),
		OccurredAt: m.CreatedAt.UnixMilli(),
	}
}

func (d *MessageCreatedV1) ToDomain() *model.Message {
	return &model.Message{
		ID:        safeParseUUID(d.MessageID),
		ChannelID: safeParseUUID(d.ChannelID),
		AuthorID:  safeParseUUID(d.AuthorID),
		Content:   d.Content,
		Status:    model.MessageStatus(d.Status),
		CreatedAt: time.UnixMilli(d.OccurredAt),
	}
}

func safeParseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
