package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/domain"
	repository "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/port"
)

// PgMessagingRepository implements the messaging repository on Postgres.
// Idempotency and counter atomicity lean on ON CONFLICT clauses so every
// operation is a single round trip with no read-then-write window.
type PgMessagingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessagingRepository(pool *pgxpool.Pool) *PgMessagingRepository {
	return &PgMessagingRepository{pool: pool}
}

// Ensure interface is satisfied
var _ repository.MessagingRepository = (*PgMessagingRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS message (
	id              uuid PRIMARY KEY,
	conversation_id text NOT NULL,
	sender_name     text NOT NULL DEFAULT '',
	direction       text NOT NULL,
	created_at      timestamptz NOT NULL,
	status          text NOT NULL,
	kind            text NOT NULL,
	body            text NOT NULL DEFAULT '',
	media_url       text,
	media_mime      text,
	caption         text,
	reply_to        uuid,
	provider_msg_id text NOT NULL DEFAULT '',
	context_msg_id  text NOT NULL DEFAULT '',
	dedupe_key      text NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS message_conversation_ts ON message (conversation_id, created_at);
CREATE INDEX IF NOT EXISTS message_provider_id ON message (provider_msg_id) WHERE provider_msg_id <> '';
CREATE INDEX IF NOT EXISTS message_context_id ON message (context_msg_id) WHERE context_msg_id <> '';

CREATE TABLE IF NOT EXISTS conversation (
	conversation_id text PRIMARY KEY,
	display_name    text NOT NULL DEFAULT '',
	unread_count    integer NOT NULL DEFAULT 0 CHECK (unread_count >= 0)
);
`

// Migrate creates the schema if it does not exist yet.
func (r *PgMessagingRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

const messageColumns = `id::text, conversation_id, sender_name, direction, created_at, status, kind, body,
	media_url, media_mime, caption, reply_to::text, provider_msg_id, context_msg_id, dedupe_key`

func scanMessage(row pgx.Row) (*messaging.Message, error) {
	var m messaging.Message
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderName, &m.Direction, &m.CreatedAt,
		&m.Status, &m.Kind, &m.Body,
		&m.MediaURL, &m.MediaMime, &m.Caption, &m.ReplyTo,
		&m.ProviderMsgID, &m.ContextMsgID, &m.DedupeKey,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgMessagingRepository) CreateMessage(ctx context.Context, m messaging.Message) (*messaging.Message, bool, error) {
	if r == nil || r.pool == nil {
		return nil, false, errors.New("PgMessagingRepository: nil pool")
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO message (
			id, conversation_id, sender_name, direction, created_at, status, kind, body,
			media_url, media_mime, caption, reply_to, provider_msg_id, context_msg_id, dedupe_key
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::uuid, $13, $14, $15)
		ON CONFLICT (dedupe_key) DO NOTHING
		RETURNING `+messageColumns,
		m.ID, m.ConversationID, m.SenderName, m.Direction, m.CreatedAt, m.Status, m.Kind, m.Body,
		m.MediaURL, m.MediaMime, m.Caption, m.ReplyTo, m.ProviderMsgID, m.ContextMsgID, m.DedupeKey,
	)
	stored, err := scanMessage(row)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Conflict: a record with this dedupe key already exists; return it unchanged.
	existing, err := scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM message WHERE dedupe_key = $1`, m.DedupeKey))
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PgMessagingRepository) GetMessage(ctx context.Context, id string) (*messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	m, err := scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM message WHERE id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *PgMessagingRepository) ListMessagesByConversation(ctx context.Context, conversationID string) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM message
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

func (r *PgMessagingRepository) UpdateMessageStatus(ctx context.Context, providerMsgID, contextMsgID string, status messaging.Status) (*messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}

	// Primary key wins; the context id is only a fallback.
	column, key := "provider_msg_id", providerMsgID
	if key == "" {
		column, key = "context_msg_id", contextMsgID
	}
	if key == "" {
		return nil, errors.New("PgMessagingRepository: no correlation key")
	}

	m, err := scanMessage(r.pool.QueryRow(ctx, `
		UPDATE message SET status = $2
		WHERE id = (
			SELECT id FROM message WHERE `+column+` = $1 ORDER BY created_at ASC LIMIT 1
		)
		RETURNING `+messageColumns,
		key, status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *PgMessagingRepository) TouchConversationInbound(ctx context.Context, conversationID, displayName string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	// Upsert-and-increment in one statement; display_name is set only on
	// insert so the first observed name sticks.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversation (conversation_id, display_name, unread_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (conversation_id)
		DO UPDATE SET unread_count = conversation.unread_count + 1
	`, conversationID, displayName)
	return err
}

func (r *PgMessagingRepository) TouchConversationOutbound(ctx context.Context, conversationID, displayName string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversation (conversation_id, display_name, unread_count)
		VALUES ($1, $2, 0)
		ON CONFLICT (conversation_id) DO NOTHING
	`, conversationID, displayName)
	return err
}

func (r *PgMessagingRepository) ResetUnread(ctx context.Context, conversationID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE conversation SET unread_count = 0 WHERE conversation_id = $1`, conversationID)
	return err
}

func (r *PgMessagingRepository) ListConversationSummaries(ctx context.Context) ([]messaging.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.conversation_id, c.display_name, c.unread_count,
		       m.id::text, m.conversation_id, m.sender_name, m.direction, m.created_at,
		       m.status, m.kind, m.body, m.media_url, m.media_mime, m.caption,
		       m.reply_to::text, m.provider_msg_id, m.context_msg_id, m.dedupe_key
		FROM conversation c
		LEFT JOIN LATERAL (
			SELECT * FROM message
			WHERE message.conversation_id = c.conversation_id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON true
		ORDER BY m.created_at DESC NULLS LAST, c.conversation_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []messaging.ConversationSummary
	for rows.Next() {
		var (
			s messaging.ConversationSummary
			// last-message columns are all nullable because of the outer join
			id, convID, senderName, direction *string
			ts                                *time.Time
			status, kind, body                *string
			mediaURL, mediaMime, caption      *string
			replyTo, providerID, contextID    *string
			dedupe                            *string
		)
		if err := rows.Scan(
			&s.ConversationID, &s.DisplayName, &s.UnreadCount,
			&id, &convID, &senderName, &direction, &ts,
			&status, &kind, &body, &mediaURL, &mediaMime, &caption,
			&replyTo, &providerID, &contextID, &dedupe,
		); err != nil {
			return nil, err
		}
		if id != nil {
			s.LastMessage = &messaging.Message{
				ID:             *id,
				ConversationID: *convID,
				SenderName:     *senderName,
				Direction:      messaging.Direction(*direction),
				CreatedAt:      *ts,
				Status:         messaging.Status(*status),
				Kind:           messaging.Kind(*kind),
				Body:           *body,
				MediaURL:       mediaURL,
				MediaMime:      mediaMime,
				Caption:        caption,
				ReplyTo:        replyTo,
				ProviderMsgID:  *providerID,
				ContextMsgID:   *contextID,
				DedupeKey:      *dedupe,
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
