package ws

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Inbound event names of the client protocol.
const (
	EventJoin        = "channel:join"
	EventLeave       = "channel:leave"
	EventSend        = "message:send"
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Inbound is the envelope every client frame must carry. Data stays raw until
// the event name selects the payload shape.
type Inbound struct {
	Event string          `json:"event" validate:"required"`
	Data  json.RawMessage `json:"data"`
}

type channelRef struct {
	ChannelID string `json:"channelId" validate:"required,uuid"`
}

// The content cap mirrors model.MaxContentLen.
type sendPayload struct {
	ChannelID string `json:"channelId" validate:"required,uuid"`
	Content   string `json:"content" validate:"required,max=2048"`
}

func parseInbound(raw []byte) (*Inbound, error) {
	in := new(Inbound)
	if err := json.Unmarshal(raw, in); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}
	return in, nil
}

// channel decodes the payload of join/leave/typing frames.
func (in *Inbound) channel() (uuid.UUID, error) {
	ref := new(channelRef)
	if err := json.Unmarshal(in.Data, ref); err != nil {
		return uuid.Nil, fmt.Errorf("malformed payload: %w", err)
	}
	if err := validate.Struct(ref); err != nil {
		return uuid.Nil, fmt.Errorf("invalid payload: %w", err)
	}
	return uuid.Parse(ref.ChannelID)
}

// sendBody decodes the payload of message:send frames.
func (in *Inbound) sendBody() (uuid.UUID, string, error) {
	body := new(sendPayload)
	if err := json.Unmarshal(in.Data, body); err != nil {
		return uuid.Nil, "", fmt.Errorf("malformed payload: %w", err)
	}
	if err := validate.Struct(body); err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid payload: %w", err)
	}

	channelID, err := uuid.Parse(body.ChannelID)
	if err != nil {
		return uuid.Nil, "", err
	}
	return channelID, body.Content, nil
}
