package usecase

import (
	"strconv"
	"time"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
)

// Provider webhook payload shape, as delivered by the messaging provider:
// a container with entry[].changes[].value, where value optionally carries
// messages[], statuses[] and contacts[].
type webhookPayload struct {
	Entry []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Contacts []webhookContact `json:"contacts"`
	Messages []webhookMessage `json:"messages"`
	Statuses []webhookStatus  `json:"statuses"`
}

type webhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type webhookMessage struct {
	From      string `json:"from"`
	Author    string `json:"author"`
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Button *struct {
		Text string `json:"text"`
	} `json:"button"`
	Order *struct {
		Title string `json:"title"`
	} `json:"order"`
	Caption string `json:"caption"`
	Image   *struct {
		Link    string `json:"link"`
		Caption string `json:"caption"`
	} `json:"image"`
	Context *struct {
		ID string `json:"id"`
	} `json:"context"`
	MetaMsgID string `json:"meta_msg_id"`
}

type webhookStatus struct {
	ID         string `json:"id"`
	MessageID  string `json:"message_id"`
	MetaMsgID  string `json:"meta_msg_id"`
	Status     string `json:"status"`
	StatusType string `json:"status_type"`
}

// The functions below are the ordered-fallback extraction stages over the
// loosely-shaped provider payload. Each fallback is an explicit branch so it
// stays visible and testable.

// senderID: from -> contacts[0].wa_id -> author.
func senderID(v webhookValue, m webhookMessage) string {
	if m.From != "" {
		return m.From
	}
	if len(v.Contacts) > 0 && v.Contacts[0].WaID != "" {
		return v.Contacts[0].WaID
	}
	return m.Author
}

// senderName: contacts[0].profile.name, or empty.
func senderName(v webhookValue) string {
	if len(v.Contacts) > 0 {
		return v.Contacts[0].Profile.Name
	}
	return ""
}

// bodyText: text.body -> button.text -> order.title -> caption.
func bodyText(m webhookMessage) string {
	if m.Text != nil && m.Text.Body != "" {
		return m.Text.Body
	}
	if m.Button != nil && m.Button.Text != "" {
		return m.Button.Text
	}
	if m.Order != nil && m.Order.Title != "" {
		return m.Order.Title
	}
	return m.Caption
}

// providerMsgID: id -> message_id.
func providerMsgID(m webhookMessage) string {
	if m.ID != "" {
		return m.ID
	}
	return m.MessageID
}

// contextMsgID: context.id -> meta_msg_id.
func contextMsgID(m webhookMessage) string {
	if m.Context != nil && m.Context.ID != "" {
		return m.Context.ID
	}
	return m.MetaMsgID
}

// entryTimestamp: epoch-seconds string -> now.
func entryTimestamp(m webhookMessage, now time.Time) time.Time {
	if m.Timestamp != "" {
		if secs, err := strconv.ParseInt(m.Timestamp, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC()
		}
	}
	return now
}

// statusKeys: primary is id -> message_id; secondary is meta_msg_id.
func statusKeys(s webhookStatus) (primary, secondary string) {
	primary = s.ID
	if primary == "" {
		primary = s.MessageID
	}
	return primary, s.MetaMsgID
}

// statusLabel: status -> status_type -> "unknown".
func statusLabel(s webhookStatus) messaging.Status {
	if s.Status != "" {
		return messaging.Status(s.Status)
	}
	if s.StatusType != "" {
		return messaging.Status(s.StatusType)
	}
	return messaging.StatusUnknown
}
