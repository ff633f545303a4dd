// Package chat implements the CampusConnect answering flow: retrieve FAQ
// context for the user's question, ground the LLM on that context, and
// produce a friendly answer. The assistant degrades rather than fails: a
// question with no matching context still gets a polite apology response.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/campusconnect/campusai-go/internal/budget"
	"github.com/campusconnect/campusai-go/internal/logging"
	"github.com/campusconnect/campusai-go/internal/rag"
	"github.com/campusconnect/campusai-go/internal/store"
)

// ApologyMessage is the canonical response when no grounded answer can be
// produced, either because the knowledge base has no relevant context or
// because every configured model failed.
const ApologyMessage = "I'm sorry, I could not find a specific answer to your question in the knowledge base. For more details, you may visit the official SVU website at https://svuniversity.edu.in/."

// noContextPlaceholder is injected in place of retrieved snippets when the
// retriever returns nothing, so the model is explicitly told to apologise
// rather than improvise.
const noContextPlaceholder = "No relevant information found in the knowledge base."

// systemPromptTemplate grounds the model on the retrieved FAQ context. The
// %s placeholder receives the joined context snippets.
const systemPromptTemplate = `You are 'CampusConnect AI', a friendly and helpful assistant for Sri Venkateswara University.
Your task is to answer the user's question based *only* on the provided context.
The context contains relevant Questions and Answers from the university's knowledge base.

- Answer clearly and concisely.
- If the context does not contain the answer, you MUST state:
  "` + ApologyMessage + `"
- Do not invent information or answer based on your general knowledge.
- Be friendly and professional.

Provided Context:
---
%s
---`

// Config holds the dependencies required to construct an Assistant.
type Config struct {
	// ChatModel is the LLM backend constructed by the provider factory.
	ChatModel model.BaseChatModel

	// FallbackModel is tried when ChatModel fails. May be nil.
	FallbackModel model.BaseChatModel

	// Retriever supplies FAQ context for each question.
	Retriever rag.Retriever

	// TopK controls how many context snippets are injected per question.
	// Defaults to 5 if zero.
	TopK int

	// History is the optional conversation store used to persist and replay
	// prior turns. If nil, each question is stateless.
	History store.ConversationStore

	// HistoryDepth is the number of prior turns (user+assistant pairs) to
	// inject per question. Defaults to 10 if zero.
	HistoryDepth int

	// MaxContextTokens is the estimated token budget for the full input
	// context. History is trimmed oldest-first to fit. Defaults to
	// budget.DefaultMaxContextTokens if zero.
	MaxContextTokens int
}

// Assistant answers university questions grounded on the FAQ knowledge base.
type Assistant struct {
	chatModel     model.BaseChatModel
	fallbackModel model.BaseChatModel
	retriever     rag.Retriever
	topK          int

	history      store.ConversationStore
	historyDepth int

	maxContextTokens int
}

// New constructs an Assistant from the provided Config.
func New(cfg *Config) (*Assistant, error) {
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("chat: ChatModel must not be nil")
	}
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("chat: Retriever must not be nil")
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	depth := cfg.HistoryDepth
	if depth <= 0 {
		depth = 10
	}
	maxCtx := cfg.MaxContextTokens
	if maxCtx <= 0 {
		maxCtx = budget.DefaultMaxContextTokens
	}

	return &Assistant{
		chatModel:        cfg.ChatModel,
		fallbackModel:    cfg.FallbackModel,
		retriever:        cfg.Retriever,
		topK:             topK,
		history:          cfg.History,
		historyDepth:     depth,
		maxContextTokens: maxCtx,
	}, nil
}

// Answer produces a grounded response for the user's question. A question
// with no matching context, or a total model failure, yields the apology
// message rather than an error; only an empty question is rejected.
func (a *Assistant) Answer(ctx context.Context, sessionID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("chat: question must not be empty")
	}
	log := logging.FromContext(ctx)

	messages := a.buildMessages(ctx, sessionID, question)

	answer, err := a.generate(ctx, messages)
	if err != nil {
		log.Warn("all chat models failed, returning apology", slog.Any("error", err))
		answer = ApologyMessage
	}

	// Persist the turn (non-fatal on error).
	if a.history != nil && sessionID != "" {
		if err := a.history.Append(ctx, sessionID, store.RoleUser, question); err != nil {
			log.Warn("history: failed to persist user message", slog.Any("error", err))
		}
		if err := a.history.Append(ctx, sessionID, store.RoleAssistant, answer); err != nil {
			log.Warn("history: failed to persist assistant message", slog.Any("error", err))
		}
	}

	return answer, nil
}

// generate runs the primary model, falling back to the secondary model when
// the primary fails.
func (a *Assistant) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	log := logging.FromContext(ctx)

	resp, err := a.chatModel.Generate(ctx, messages)
	if err == nil {
		return resp.Content, nil
	}
	if a.fallbackModel == nil {
		return "", fmt.Errorf("chat: generation failed: %w", err)
	}

	log.Warn("primary chat model failed, trying fallback", slog.Any("error", err))
	resp, fallbackErr := a.fallbackModel.Generate(ctx, messages)
	if fallbackErr != nil {
		return "", fmt.Errorf("chat: generation failed (primary: %v): %w", err, fallbackErr)
	}
	return resp.Content, nil
}

// buildMessages assembles the LLM input: grounded system prompt, trimmed
// conversation history, then the current question.
func (a *Assistant) buildMessages(ctx context.Context, sessionID, question string) []*schema.Message {
	log := logging.FromContext(ctx)

	contextStr := noContextPlaceholder
	docs, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		// Retrieval failure is non-fatal, the model is told there is no context.
		log.Warn("context retrieval failed, continuing without context", slog.Any("error", err))
	} else if len(docs) > 0 {
		snippets := make([]string, len(docs))
		for i, doc := range docs {
			snippets[i] = doc.Content
		}
		contextStr = strings.Join(snippets, "\n\n")
	}

	system := schema.SystemMessage(fmt.Sprintf(systemPromptTemplate, contextStr))
	user := schema.UserMessage(question)

	var historyMsgs []*schema.Message
	if a.history != nil && sessionID != "" {
		prior, err := a.history.Recent(ctx, sessionID, a.historyDepth*2)
		if err != nil {
			log.Warn("history: failed to load prior messages", slog.Any("error", err))
		} else {
			for _, m := range prior {
				switch m.Role {
				case store.RoleUser:
					historyMsgs = append(historyMsgs, schema.UserMessage(m.Content))
				case store.RoleAssistant:
					historyMsgs = append(historyMsgs, schema.AssistantMessage(m.Content, nil))
				}
			}
		}
	}

	fixed := []*schema.Message{system, user}
	before := len(historyMsgs)
	historyMsgs = budget.TrimHistory(fixed, historyMsgs, a.maxContextTokens)
	if dropped := before - len(historyMsgs); dropped > 0 {
		log.Warn("budget: dropped history messages to fit context window",
			slog.Int("dropped", dropped),
			slog.Int("retained", len(historyMsgs)),
			slog.Int("max_tokens", a.maxContextTokens),
		)
	}

	result := make([]*schema.Message, 0, 2+len(historyMsgs))
	result = append(result, system)
	result = append(result, historyMsgs...)
	result = append(result, user)
	return result
}
