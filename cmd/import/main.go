package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/database"
	"github.com/Chandra-006/whatsapp-clone/internal/infrastructure/realtime"
	"github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Chandra-006/whatsapp-clone/internal/pkg/messaging/persistence/repository/adapter"
)

// Offline importer: feeds saved provider payload files through the same
// ingest pipeline the webhook uses. Insert-if-absent semantics make re-runs
// over the same directory a no-op.
//
// Usage: import [payload-dir]   (default ./payloads)
func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dir := "payloads"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	repo := repoAdapter.NewPgMessagingRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// No websocket clients here; a fresh hub keeps the pipeline identical.
	uc := usecase.NewIngestWebhookUseCase(repo, realtime.NewHub(), logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", dir).Msg("failed to read payload directory")
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	logger.Info().Int("count", len(files)).Str("dir", dir).Msg("payload files found")

	for _, name := range files {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Error().Err(err).Str("file", name).Msg("skipping unreadable file")
			continue
		}

		outcome, err := uc.Execute(ctx, raw)
		if err != nil {
			logger.Error().Err(err).Str("file", name).Msg("batch failed")
			continue
		}
		logger.Info().
			Str("file", name).
			Int("messages_created", outcome.MessagesCreated).
			Int("messages_replayed", outcome.MessagesReplayed).
			Int("statuses_applied", outcome.StatusesApplied).
			Int("statuses_unmatched", outcome.StatusesUnmatched).
			Msg("batch processed")
	}
}
