package task

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/metrics"
	qport "github.com/Chandra-006/whatsapp-clone/internal/infrastructure/queue/port"
	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

// ProcessWebhookTaskType is the queue task name for processing one provider
// webhook batch. The payload is the raw webhook body, untouched: the ingest
// use case owns all parsing.
const ProcessWebhookTaskType = "webhook:process"

// RegisterProcessWebhookTask binds the webhook ingestion handler to the
// provided server. Returning an error retries the whole batch, which the
// idempotent store makes safe.
func RegisterProcessWebhookTask(srv qport.Server, pool *pgxpool.Pool, hub usecase.Broadcaster, logger zerolog.Logger) {
	srv.Register(ProcessWebhookTaskType, func(ctx context.Context, t qport.Task) error {
		repo := repoAdapter.NewPgMessagingRepository(pool)
		uc := usecase.NewIngestWebhookUseCase(repo, hub, logger)

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		outcome, err := uc.Execute(ctx, t.Payload)
		if err != nil {
			metrics.WebhookBatches.WithLabelValues("error").Inc()
			return err
		}
		metrics.WebhookBatches.WithLabelValues("ok").Inc()
		logger.Info().
			Int("messages_created", outcome.MessagesCreated).
			Int("messages_replayed", outcome.MessagesReplayed).
			Int("statuses_applied", outcome.StatusesApplied).
			Int("statuses_unmatched", outcome.StatusesUnmatched).
			Msg("webhook batch processed")
		return nil
	})
}
