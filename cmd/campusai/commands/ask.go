package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusconnect/campusai-go/internal/chat"
	"github.com/campusconnect/campusai-go/internal/provider"
)

// NewAskCmd constructs the `campusai ask` command, which answers a single
// question on the CLI and exits.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the campus assistant a question",
		Long: `Ask CampusConnect AI a question about the university.

The answer is grounded strictly on the FAQ knowledge base; questions the
knowledge base cannot answer receive a polite referral to the official
university website.

Examples:
  campusai ask "what are the hostel admission requirements?"
  campusai ask "who is the vice chancellor?"
  RETRIEVER=semantic campusai ask "library opening hours"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := slog.Default()

			chatModel, fallbackModel, err := provider.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ask: failed to initialise model provider: %w", err)
			}

			kb, err := openKnowledge()
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			retriever, closeRetriever, _, err := buildRetriever(ctx, log, kb)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}
			defer closeRetriever()

			assistant, err := chat.New(&chat.Config{
				ChatModel:     chatModel,
				FallbackModel: fallbackModel,
				Retriever:     retriever,
				TopK:          getEnvInt("CHAT_TOP_K", 5),
			})
			if err != nil {
				return fmt.Errorf("ask: failed to initialise assistant: %w", err)
			}

			answer, err := assistant.Answer(ctx, "", strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer)
			return nil
		},
	}

	return cmd
}
