package ws

import (
	"strings"
	"testing"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseInbound(t *testing.T) {
	t.Run("should accept a well-formed envelope", func(t *testing.T) {
		req := require.New(t)

		in, err := parseInbound([]byte(`{"event":"channel:join","data":{"channelId":"x"}}`))

		req.NoError(err)
		req.Equal(EventJoin, in.Event)
	})

	t.Run("should reject invalid json", func(t *testing.T) {
		req := require.New(t)

		_, err := parseInbound([]byte(`{not json`))

		req.Error(err)
	})

	t.Run("should reject a missing event name", func(t *testing.T) {
		req := require.New(t)

		_, err := parseInbound([]byte(`{"data":{}}`))

		req.Error(err)
	})
}

func TestInbound_Channel(t *testing.T) {
	channelID := uuid.New()

	t.Run("should decode a valid channel reference", func(t *testing.T) {
		req := require.New(t)
		in, err := parseInbound([]byte(`{"event":"channel:join","data":{"channelId":"` + channelID.String() + `"}}`))
		req.NoError(err)

		got, err := in.channel()
		req.NoError(err)
		req.Equal(channelID, got)
	})

	t.Run("should reject a non-uuid channel id", func(t *testing.T) {
		req := require.New(t)
		in, err := parseInbound([]byte(`{"event":"channel:join","data":{"channelId":"general"}}`))
		req.NoError(err)

		_, err = in.channel()
		req.Error(err)
	})

	t.Run("should reject a missing payload", func(t *testing.T) {
		req := require.New(t)
		in, err := parseInbound([]byte(`{"event":"channel:join","data":{}}`))
		req.NoError(err)

		_, err = in.channel()
		req.Error(err)
	})
}

func TestInbound_SendBody(t *testing.T) {
	channelID := uuid.New()

	t.Run("should decode a valid message payload", func(t *testing.T) {
		req := require.New(t)
		in, err := parseInbound([]byte(`{"event":"message:send","data":{"channelId":"` + channelID.String() + `","content":"hello"}}`))
		req.NoError(err)

		got, content, err := in.sendBody()
		req.NoError(err)
		req.Equal(channelID, got)
		req.Equal("hello", content)
	})

	t.Run("should reject empty content", func(t *testing.T) {
		req := require.New(t)
		in, err := parseInbound([]byte(`{"event":"message:send","data":{"channelId":"` + channelID.String() + `","content":""}}`))
		req.NoError(err)

		_, _, err = in.sendBody()
		req.Error(err)
	})

	t.Run("should reject content longer than the storage limit", func(t *testing.T) {
		req := require.New(t)
		oversized := strings.Repeat("a", model.MaxContentLen+1)
		in, err := parseInbound([]byte(`{"event":"message:send","data":{"channelId":"` + channelID.String() + `","content":"` + oversized + `"}}`))
		req.NoError(err)

		_, _, err = in.sendBody()
		req.Error(err)
	})

	t.Run("should accept content exactly at the storage limit", func(t *testing.T) {
		req := require.New(t)
		maxed := strings.Repeat("a", model.MaxContentLen)
		in, err := parseInbound([]byte(`{"event":"message:send","data":{"channelId":"` + channelID.String() + `","content":"` + maxed + `"}}`))
		req.NoError(err)

		_, content, err := in.sendBody()
		req.NoError(err)
		req.Len(content, model.MaxContentLen)
	})
}
