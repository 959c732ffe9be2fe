package wsmarshaller

import (
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
)

type WSMessage struct {
	ID        string `json:"id"`
	ChannelID string `json:"channelId"`
	AuthorID  string `json:"userId"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

func mapPayload(p any) any {
	if m, ok := p.(*model.Message); ok {
		return mapMessage(m)
	}
	// Typing, connected and error payloads already carry json tags.
	return p
}

func mapMessage(m *model.Message) *WSMessage {
	return &WSMessage{
		ID:        m.ID.String(),
		ChannelID: m.ChannelID.String(),
		AuthorID:  m.AuthorID.String(),
		Content:   m.Content,
		Status:    string(m.Status),
		Timestamp: m.CreatedAt.UnixMilli(),
	}
}
