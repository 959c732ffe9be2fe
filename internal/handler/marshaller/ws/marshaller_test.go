package wsmarshaller

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMarshallDeliveryEvent(t *testing.T) {
	channelID := uuid.New()
	userID := uuid.New()

	t.Run("should map a message event onto the wire shape", func(t *testing.T) {
		req := require.New(t)
		msg := &model.Message{
			ID:        uuid.New(),
			ChannelID: channelID,
			AuthorID:  userID,
			Content:   "hello",
			Status:    model.StatusSent,
			CreatedAt: time.Now(),
		}

		data, err := MarshallDeliveryEvent(event.NewMessageReceived(msg))
		req.NoError(err)

		var decoded struct {
			Event   string    `json:"event"`
			Payload WSMessage `json:"payload"`
		}
		req.NoError(json.Unmarshal(data, &decoded))
		req.Equal("message:received", decoded.Event)
		req.Equal(msg.ID.String(), decoded.Payload.ID)
		req.Equal(channelID.String(), decoded.Payload.ChannelID)
		req.Equal("hello", decoded.Payload.Content)
	})

	t.Run("should distinguish the sender acknowledgment", func(t *testing.T) {
		req := require.New(t)
		msg := &model.Message{ID: uuid.New(), ChannelID: channelID, AuthorID: userID}

		data, err := MarshallDeliveryEvent(event.NewMessageAck(msg))
		req.NoError(err)
		req.Contains(string(data), `"event":"message:sent"`)
	})

	t.Run("should pass typing payloads through untouched", func(t *testing.T) {
		req := require.New(t)

		data, err := MarshallDeliveryEvent(event.NewTypingStarted(channelID, userID))
		req.NoError(err)

		var decoded struct {
			Event   string              `json:"event"`
			Payload event.TypingPayload `json:"payload"`
		}
		req.NoError(json.Unmarshal(data, &decoded))
		req.Equal("typing:started", decoded.Event)
		req.Equal(userID.String(), decoded.Payload.UserID)
		req.Equal(channelID.String(), decoded.Payload.ChannelID)
	})

	t.Run("should map the handshake confirmation", func(t *testing.T) {
		req := require.New(t)

		data, err := MarshallDeliveryEvent(event.NewConnectedEvent(userID, "conn-1", "1.0"))
		req.NoError(err)
		req.Contains(string(data), `"event":"connected"`)
		req.Contains(string(data), `"connection_id":"conn-1"`)
	})
}
