package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fiscalchat-backend/internal/models"
	"fiscalchat-backend/internal/openai"
	"fiscalchat-backend/internal/sanitize"
	"fiscalchat-backend/internal/store"
	"fiscalchat-backend/internal/usage"

	"github.com/google/uuid"
)

// ErrValidation is returned for malformed turn input before anything is persisted.
var ErrValidation = errors.New("input validation failed")

// Provider is the completion boundary consumed by the orchestrator. The
// two-branch result (completion vs. error) is the whole failure contract:
// exactly one attempt per turn, and an error never reaches the caller as a
// failed turn.
type Provider interface {
	Complete(ctx context.Context, req openai.CompletionRequest) (*openai.Completion, error)
}

// ChatService owns the end-to-end conversation turn: persist the user
// message, assemble provider input from session history, invoke the provider,
// sanitize the reply and persist it.
type ChatService struct {
	store    store.Store
	provider Provider
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store, provider Provider) *ChatService {
	return &ChatService{
		store:    s,
		provider: provider,
	}
}

// HandleTurn runs one conversation turn for the session and returns the
// persisted user and assistant messages. The user message is persisted
// unconditionally before the provider is called; every provider failure is
// absorbed into a fallback assistant reply, so past validation the turn
// always yields exactly two store appends.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, content string) (*models.ChatResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId cannot be empty", ErrValidation)
	}

	userMsg, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	history, err := s.store.ListMessagesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}

	answer := s.generateAnswer(ctx, sessionID, buildProviderInput(history, content))

	assistantMsg, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   answer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	return &models.ChatResponse{
		UserMessage: *userMsg,
		AiMessage:   *assistantMsg,
	}, nil
}

// generateAnswer invokes the provider once and post-processes the reply.
// Provider failures degrade into the fallback answer instead of surfacing:
// a flaky provider may cost answer quality, never availability.
func (s *ChatService) generateAnswer(ctx context.Context, sessionID string, input any) string {
	completion, err := s.provider.Complete(ctx, openai.CompletionRequest{
		Instructions:    fiscalAssistantInstructions,
		Input:           input,
		EnableWebSearch: true,
	})
	if err != nil {
		log.Printf("ERROR [ChatService] Provider call failed for session %s: %v", sessionID, err)
		return fmt.Sprintf(providerErrorFallback, err)
	}

	usage.Report(sessionID, completion.Usage)

	text := completion.Text
	if strings.TrimSpace(text) == "" {
		log.Printf("WARN [ChatService] Provider returned empty text for session %s", sessionID)
		return emptyAnswerFallback
	}

	// Flag-only policy: an off-list citation is logged, the answer still ships.
	for _, host := range sanitize.CheckReferenceDomains(text) {
		log.Printf("WARN [ChatService] Untrusted reference domain %q in reply for session %s", host, sessionID)
	}

	return sanitize.StripReferences(text)
}

// ListMessages returns the full ordered history for a session.
func (s *ChatService) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId cannot be empty", ErrValidation)
	}
	messages, err := s.store.ListMessagesBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
