package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	uid := int64(42)

	msg, err := encode(Event{
		Type:       TypeClickTracked,
		Key:        "100",
		OccurredAt: at,
		Payload:    ClickTracked{ClickID: 1, LinkID: 2, ChannelID: 100, UserID: &uid, DeviceType: "mobile"},
	})
	require.NoError(t, err)

	assert.Equal(t, "100", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeClickTracked, string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "click.tracked", decoded["type"])
	payload := decoded["payload"].(map[string]interface{})
	assert.Equal(t, float64(42), payload["user_id"])
	assert.Equal(t, "mobile", payload["device_type"])
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := encode(Event{Type: "bad", Payload: make(chan int)})
	assert.Error(t, err)
}
