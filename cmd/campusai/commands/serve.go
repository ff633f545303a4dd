package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/chat"
	"github.com/campusconnect/campusai-go/internal/logging"
	"github.com/campusconnect/campusai-go/internal/provider"
	"github.com/campusconnect/campusai-go/internal/server"
	"github.com/campusconnect/campusai-go/internal/store"
	"github.com/campusconnect/campusai-go/internal/tracing"
)

// NewServeCmd constructs the `campusai serve` command, which starts the HTTP
// server exposing the chat endpoint and the admin FAQ API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CampusConnect AI HTTP server",
		Long: `Start the CampusConnect AI HTTP server on localhost.

The server exposes POST /api/chat for grounded question answering, an
auth-gated admin API for managing the FAQ knowledge base, and health,
readiness, and Prometheus metrics endpoints.

Examples:
  campusai serve
  campusai serve --port 9090
  MODEL_PROVIDER=gemini RETRIEVER=semantic campusai serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Setup Langfuse tracing — opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			providerCfg := provider.ConfigFromEnv()
			chatModel, fallbackModel, err := provider.New(ctx, providerCfg)
			if err != nil {
				return fmt.Errorf("serve: failed to initialise model provider: %w", err)
			}
			log.Info("provider initialised", slog.String("provider", string(providerCfg.Backend)))

			kb, err := openKnowledge()
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			log.Info("knowledge store opened",
				slog.String("path", kb.Path()),
				slog.Int("records", kb.Len()),
			)

			// Open conversation history store. CAMPUSAI_HISTORY_DB overrides
			// the default path (~/.campusai/history.db). Set to "disabled"
			// to run stateless.
			var historyStore store.ConversationStore
			dbPath := os.Getenv("CAMPUSAI_HISTORY_DB")
			if dbPath != "disabled" {
				if dbPath == "" {
					dbPath, err = store.DefaultDBPath()
					if err != nil {
						log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
					}
				}
				if dbPath != "" {
					hs, hsErr := store.Open(dbPath)
					if hsErr != nil {
						log.Warn("history: failed to open store, disabling", slog.Any("error", hsErr))
					} else {
						historyStore = hs
						defer func() { _ = hs.Close() }()
						log.Info("history: store opened", slog.String("path", dbPath))
					}
				}
			} else {
				log.Info("history: disabled via CAMPUSAI_HISTORY_DB=disabled")
			}

			retriever, closeRetriever, qdrantClient, err := buildRetriever(ctx, log, kb)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer closeRetriever()

			assistant, err := chat.New(&chat.Config{
				ChatModel:     chatModel,
				FallbackModel: fallbackModel,
				Retriever:     retriever,
				TopK:          getEnvInt("CHAT_TOP_K", 5),
				History:       historyStore,
			})
			if err != nil {
				return fmt.Errorf("serve: failed to initialise assistant: %w", err)
			}

			var pingers []server.Pinger
			pingers = append(pingers, server.NewLLMPinger(chatModel, string(providerCfg.Backend)))
			if qdrantClient != nil {
				pingers = append(pingers, server.NewQdrantPinger(qdrantClient))
			}

			srv, err := server.New(assistant, kb, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: pingers,
				APIKey:  os.Getenv("CAMPUSAI_API_KEY"),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
