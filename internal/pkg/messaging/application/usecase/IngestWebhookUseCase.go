package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// IngestOutcome summarizes one processed provider batch.
type IngestOutcome struct {
	MessagesCreated   int
	MessagesReplayed  int
	StatusesApplied   int
	StatusesUnmatched int
}

// IngestWebhookUseCase normalizes a raw provider payload into message-create
// and status-update commands and runs them through the store, the ledger and
// the broadcaster. Entries are processed strictly in array order; the first
// unrecoverable error aborts the rest of the batch and fails it as a whole.
// Replays are safe: the store absorbs duplicates, so a retried batch simply
// skips what it already wrote.
// One class per use case (own file).
type IngestWebhookUseCase struct {
	create *CreateMessageUseCase
	status *UpdateStatusUseCase
	logger zerolog.Logger
}

func NewIngestWebhookUseCase(repo repository.MessagingRepository, hub Broadcaster, logger zerolog.Logger) *IngestWebhookUseCase {
	return &IngestWebhookUseCase{
		create: NewCreateMessageUseCase(repo, hub),
		status: NewUpdateStatusUseCase(repo, hub),
		logger: logger,
	}
}

// Execute parses and processes one raw webhook payload.
func (uc *IngestWebhookUseCase) Execute(ctx context.Context, raw []byte) (IngestOutcome, error) {
	var out IngestOutcome

	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return out, fmt.Errorf("invalid webhook payload: %w", err)
	}

	now := time.Now().UTC()
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if err := uc.processValue(ctx, change.Value, now, &out); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

func (uc *IngestWebhookUseCase) processValue(ctx context.Context, v webhookValue, now time.Time, out *IngestOutcome) error {
	for _, m := range v.Messages {
		in := CreateMessageInput{
			ConversationID: senderID(v, m),
			SenderName:     senderName(v),
			Direction:      messaging.DirectionIn,
			Status:         messaging.StatusDelivered,
			Timestamp:      entryTimestamp(m, now),
			ProviderMsgID:  providerMsgID(m),
			ContextMsgID:   contextMsgID(m),
		}
		if m.Type == "image" && m.Image != nil {
			mime := "image/jpeg" // provider download step resolves the real type upstream
			in.Kind = messaging.KindImage
			in.MediaURL = &m.Image.Link
			in.MediaMime = &mime
			if m.Image.Caption != "" {
				caption := m.Image.Caption
				in.Caption = &caption
			}
		} else {
			in.Kind = messaging.KindText
			in.Body = bodyText(m)
		}

		stored, created, err := uc.create.Execute(ctx, in)
		if err != nil {
			return fmt.Errorf("message entry from %q: %w", in.ConversationID, err)
		}
		if created {
			out.MessagesCreated++
		} else {
			out.MessagesReplayed++
		}
		uc.logger.Debug().
			Str("wa_id", stored.ConversationID).
			Str("msg_id", stored.ProviderMsgID).
			Msg("message ingested")
	}

	for _, s := range v.Statuses {
		primary, secondary := statusKeys(s)
		if primary == "" && secondary == "" {
			// Nothing to correlate against; skip the entry.
			continue
		}
		updated, err := uc.status.Execute(ctx, UpdateStatusInput{
			ProviderMsgID: primary,
			ContextMsgID:  secondary,
			Status:        statusLabel(s),
		})
		if err != nil {
			return fmt.Errorf("status entry %q: %w", primary, err)
		}
		if updated == nil {
			out.StatusesUnmatched++
			uc.logger.Warn().
				Str("msg_id", primary).
				Str("meta_msg_id", secondary).
				Msg("status update: message not found")
			continue
		}
		out.StatusesApplied++
	}
	return nil
}
