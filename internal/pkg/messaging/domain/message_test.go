package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessageDefaults(t *testing.T) {
	msg, err := NewMessage(Message{
		ConversationID: "15551234567",
		Direction:      DirectionOut,
		Body:           "hello",
	})
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)
	require.Equal(t, KindText, msg.Kind)
	require.Equal(t, StatusSent, msg.Status)
	require.False(t, msg.CreatedAt.IsZero())
}

func TestNewMessageValidation(t *testing.T) {
	url := "/uploads/pic.jpg"

	tests := []struct {
		name    string
		in      Message
		wantErr string
	}{
		{
			name:    "missing conversation id",
			in:      Message{Direction: DirectionOut, Body: "hi"},
			wantErr: "wa_id is required",
		},
		{
			name:    "missing direction",
			in:      Message{ConversationID: "111", Body: "hi"},
			wantErr: "invalid direction",
		},
		{
			name:    "text without body",
			in:      Message{ConversationID: "111", Direction: DirectionIn, Kind: KindText, Body: "   "},
			wantErr: "text required",
		},
		{
			name:    "image without media",
			in:      Message{ConversationID: "111", Direction: DirectionIn, Kind: KindImage},
			wantErr: "mediaUrl required",
		},
		{
			name:    "unknown kind",
			in:      Message{ConversationID: "111", Direction: DirectionIn, Kind: "video", Body: "x"},
			wantErr: "invalid message type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage(tt.in)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}

	msg, err := NewMessage(Message{ConversationID: "111", Direction: DirectionIn, Kind: KindImage, MediaURL: &url})
	require.NoError(t, err)
	require.Equal(t, url, *msg.MediaURL)
}

func TestDedupeKeySelection(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	withID, err := NewMessage(Message{
		ConversationID: "111",
		Direction:      DirectionIn,
		Body:           "hi",
		CreatedAt:      ts,
		ProviderMsgID:  "wamid.A1",
	})
	require.NoError(t, err)
	require.Equal(t, "wamid.A1", withID.DedupeKey)

	// No provider id: the composite key makes the same batch reprocessable.
	withoutID, err := NewMessage(Message{
		ConversationID: "111",
		Direction:      DirectionIn,
		Body:           "hi",
		CreatedAt:      ts,
	})
	require.NoError(t, err)

	again, err := NewMessage(Message{
		ConversationID: "111",
		Direction:      DirectionIn,
		Body:           "hi",
		CreatedAt:      ts,
	})
	require.NoError(t, err)
	require.Equal(t, withoutID.DedupeKey, again.DedupeKey)
	require.NotEqual(t, withoutID.ID, again.ID)
}
