package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeTimerEvent(t *testing.T) {
	event := &TimerEvent{
		RunID:          "run-1",
		Game:           "unleashed-recomp",
		Type:           EventTypeSplit,
		Timestamp:      1700000000000,
		GameTimeMillis: 90500,
		Stage:          3,
	}

	b, err := SerializeTimerEvent(event)
	require.NoError(t, err)

	got, err := DeserializeTimerEvent(b)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestDeserializeTimerEventInvalid(t *testing.T) {
	_, err := DeserializeTimerEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestStatusGameTime(t *testing.T) {
	status := &Status{GameTimeMillis: 90500}
	assert.Equal(t, 90*time.Second+500*time.Millisecond, status.GameTime())
}
