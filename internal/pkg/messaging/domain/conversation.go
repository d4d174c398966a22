package messaging

// Conversation is the derived per-contact aggregate. It is created lazily by
// the first message that mentions its id and is never deleted.
type Conversation struct {
	ConversationID string `json:"wa_id" db:"conversation_id"`
	DisplayName    string `json:"name" db:"display_name"`
	UnreadCount    int    `json:"unreadCount" db:"unread_count"`
}

// ConversationSummary joins a conversation with its most recent message for
// the chat list. LastMessage is nil for a conversation with no messages.
type ConversationSummary struct {
	ConversationID string   `json:"wa_id"`
	DisplayName    string   `json:"name"`
	UnreadCount    int      `json:"unreadCount"`
	LastMessage    *Message `json:"lastMessage"`
}
