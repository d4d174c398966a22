package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
)

func contactValue(waID, name string) webhookValue {
	var v webhookValue
	v.Contacts = []webhookContact{{WaID: waID}}
	v.Contacts[0].Profile.Name = name
	return v
}

func TestSenderIDFallbackOrder(t *testing.T) {
	v := contactValue("222", "Alice")

	require.Equal(t, "111", senderID(v, webhookMessage{From: "111", Author: "333"}))
	require.Equal(t, "222", senderID(v, webhookMessage{Author: "333"}))
	require.Equal(t, "333", senderID(webhookValue{}, webhookMessage{Author: "333"}))
	require.Equal(t, "", senderID(webhookValue{}, webhookMessage{}))
}

func TestBodyTextFallbackOrder(t *testing.T) {
	m := webhookMessage{Caption: "caption text"}
	require.Equal(t, "caption text", bodyText(m))

	m.Order = &struct {
		Title string `json:"title"`
	}{Title: "order title"}
	require.Equal(t, "order title", bodyText(m))

	m.Button = &struct {
		Text string `json:"text"`
	}{Text: "button text"}
	require.Equal(t, "button text", bodyText(m))

	m.Text = &struct {
		Body string `json:"body"`
	}{Body: "primary body"}
	require.Equal(t, "primary body", bodyText(m))
}

func TestCorrelationKeyFallbacks(t *testing.T) {
	require.Equal(t, "a", providerMsgID(webhookMessage{ID: "a", MessageID: "b"}))
	require.Equal(t, "b", providerMsgID(webhookMessage{MessageID: "b"}))

	withCtx := webhookMessage{MetaMsgID: "meta"}
	require.Equal(t, "meta", contextMsgID(withCtx))
	withCtx.Context = &struct {
		ID string `json:"id"`
	}{ID: "ctx"}
	require.Equal(t, "ctx", contextMsgID(withCtx))
}

func TestEntryTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, time.Unix(1000, 0).UTC(), entryTimestamp(webhookMessage{Timestamp: "1000"}, now))
	require.Equal(t, now, entryTimestamp(webhookMessage{}, now))
	require.Equal(t, now, entryTimestamp(webhookMessage{Timestamp: "not-a-number"}, now))
}

func TestStatusEntryFallbacks(t *testing.T) {
	primary, secondary := statusKeys(webhookStatus{ID: "a", MessageID: "b", MetaMsgID: "m"})
	require.Equal(t, "a", primary)
	require.Equal(t, "m", secondary)

	primary, _ = statusKeys(webhookStatus{MessageID: "b"})
	require.Equal(t, "b", primary)

	require.Equal(t, messaging.Status("read"), statusLabel(webhookStatus{Status: "read", StatusType: "sent"}))
	require.Equal(t, messaging.Status("sent"), statusLabel(webhookStatus{StatusType: "sent"}))
	require.Equal(t, messaging.StatusUnknown, statusLabel(webhookStatus{}))
}
