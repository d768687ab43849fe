package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fiscalchat-backend/internal/models"
	"fiscalchat-backend/internal/openai"
	"fiscalchat-backend/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockStore struct {
	messages    []models.Message
	appendCalls int
	appendErr   error
	listErr     error
}

func (m *mockStore) AppendMessage(_ context.Context, arg store.AppendMessageParams) (*models.Message, error) {
	m.appendCalls++
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	msg := models.Message{
		ID:        arg.ID,
		SessionID: arg.SessionID,
		Role:      arg.Role,
		Content:   arg.Content,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *mockStore) ListMessagesBySession(_ context.Context, sessionID string) ([]models.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Message, 0)
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockProvider struct {
	completion *openai.Completion
	err        error
	calls      int
	captured   openai.CompletionRequest
}

func (m *mockProvider) Complete(_ context.Context, req openai.CompletionRequest) (*openai.Completion, error) {
	m.calls++
	m.captured = req
	if m.err != nil {
		return nil, m.err
	}
	return m.completion, nil
}

func seedMessage(s *mockStore, sessionID, role, content string) {
	s.messages = append(s.messages, models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// ---------------------------------------------------------------------------
// HandleTurn
// ---------------------------------------------------------------------------

func TestHandleTurn_HappyPathStripsReferences(t *testing.T) {
	st := &mockStore{}
	provider := &mockProvider{completion: &openai.Completion{
		Text:  "6920 activități de contabilitate.\nhttps://anaf.ro/coduri",
		Usage: &openai.Usage{InputTokens: 100, OutputTokens: 40},
	}}
	svc := NewChatService(st, provider)

	resp, err := svc.HandleTurn(context.Background(), "s1", "Ce cod CAEN pentru contabilitate?")
	require.NoError(t, err)

	require.Equal(t, models.RoleUser, resp.UserMessage.Role)
	require.Equal(t, "Ce cod CAEN pentru contabilitate?", resp.UserMessage.Content)
	require.Equal(t, "s1", resp.UserMessage.SessionID)

	require.Equal(t, models.RoleAssistant, resp.AiMessage.Role)
	require.Equal(t, "6920 activități de contabilitate.", resp.AiMessage.Content)
	require.Equal(t, "s1", resp.AiMessage.SessionID)

	require.Equal(t, 2, st.appendCalls)
	require.Equal(t, 1, provider.calls)
	require.True(t, provider.captured.EnableWebSearch)
	require.NotEmpty(t, provider.captured.Instructions)
}

func TestHandleTurn_FirstTurnSendsBareString(t *testing.T) {
	st := &mockStore{}
	provider := &mockProvider{completion: &openai.Completion{Text: "răspuns"}}
	svc := NewChatService(st, provider)

	_, err := svc.HandleTurn(context.Background(), "s1", "prima întrebare")
	require.NoError(t, err)

	// No prior history: the provider input degenerates to the content itself.
	require.Equal(t, "prima întrebare", provider.captured.Input)
}

func TestHandleTurn_WithHistorySendsSequence(t *testing.T) {
	st := &mockStore{}
	seedMessage(st, "s1", models.RoleUser, "prima")
	seedMessage(st, "s1", models.RoleAssistant, "răspuns unu")
	seedMessage(st, "s2", models.RoleUser, "altă sesiune")
	provider := &mockProvider{completion: &openai.Completion{Text: "răspuns doi"}}
	svc := NewChatService(st, provider)

	_, err := svc.HandleTurn(context.Background(), "s1", "a doua")
	require.NoError(t, err)

	input, ok := provider.captured.Input.([]openai.InputMessage)
	require.True(t, ok, "expected a structured input sequence, got %T", provider.captured.Input)
	// Two prior messages plus the current turn; the just-persisted duplicate
	// is excluded and other sessions never leak in.
	require.Len(t, input, 3)
	require.Equal(t, openai.InputMessage{Role: models.RoleUser, Content: "prima"}, input[0])
	require.Equal(t, openai.InputMessage{Role: models.RoleAssistant, Content: "răspuns unu"}, input[1])
	require.Equal(t, openai.InputMessage{Role: models.RoleUser, Content: "a doua"}, input[2])
}

func TestHandleTurn_ProviderFailureProducesFallbackTurn(t *testing.T) {
	st := &mockStore{}
	provider := &mockProvider{err: errors.New("connection refused")}
	svc := NewChatService(st, provider)

	resp, err := svc.HandleTurn(context.Background(), "s1", "Ce cod CAEN?")
	require.NoError(t, err, "provider failure must not fail the turn")

	require.Equal(t, "Ce cod CAEN?", resp.UserMessage.Content)
	require.NotEmpty(t, resp.AiMessage.Content)
	require.Contains(t, resp.AiMessage.Content, "connection refused")
	require.Equal(t, 2, st.appendCalls, "both messages must be persisted on the fallback path")
	require.Equal(t, 1, provider.calls, "no retry on provider failure")
}

func TestHandleTurn_EmptyProviderTextUsesPlaceholder(t *testing.T) {
	st := &mockStore{}
	provider := &mockProvider{completion: &openai.Completion{Text: "  \n"}}
	svc := NewChatService(st, provider)

	resp, err := svc.HandleTurn(context.Background(), "s1", "întrebare")
	require.NoError(t, err)
	require.Equal(t, emptyAnswerFallback, resp.AiMessage.Content)
	require.Equal(t, 2, st.appendCalls)
}

func TestHandleTurn_MissingUsageBlockIsTolerated(t *testing.T) {
	st := &mockStore{}
	provider := &mockProvider{completion: &openai.Completion{Text: "răspuns fără usage"}}
	svc := NewChatService(st, provider)

	resp, err := svc.HandleTurn(context.Background(), "s1", "întrebare")
	require.NoError(t, err)
	require.Equal(t, "răspuns fără usage", resp.AiMessage.Content)
}

func TestHandleTurn_ValidationRejectsBeforePersistence(t *testing.T) {
	st := &mockStore{}
	provider := &mockProvider{completion: &openai.Completion{Text: "n/a"}}
	svc := NewChatService(st, provider)

	_, err := svc.HandleTurn(context.Background(), "s1", "   ")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.HandleTurn(context.Background(), "", "întrebare")
	require.ErrorIs(t, err, ErrValidation)

	require.Zero(t, st.appendCalls, "validation failures must not persist anything")
	require.Zero(t, provider.calls)
}

func TestHandleTurn_StoreAppendFailure(t *testing.T) {
	st := &mockStore{appendErr: errors.New("db down")}
	provider := &mockProvider{completion: &openai.Completion{Text: "n/a"}}
	svc := NewChatService(st, provider)

	_, err := svc.HandleTurn(context.Background(), "s1", "întrebare")
	require.Error(t, err)
	require.Zero(t, provider.calls, "provider must not be called if the user message was not persisted")
}

// ---------------------------------------------------------------------------
// buildProviderInput
// ---------------------------------------------------------------------------

func TestBuildProviderInput_NoHistory(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "curenta"}, // just-persisted current message
	}
	got := buildProviderInput(history, "curenta")
	require.Equal(t, "curenta", got)
}

func TestBuildProviderInput_EmptyHistory(t *testing.T) {
	require.Equal(t, "curenta", buildProviderInput(nil, "curenta"))
}

func TestBuildProviderInput_PriorTurns(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "q1"},
		{Role: models.RoleAssistant, Content: "a1"},
		{Role: models.RoleUser, Content: "q2"},
		{Role: models.RoleAssistant, Content: "a2"},
		{Role: models.RoleUser, Content: "q3"}, // just-persisted current message
	}
	got := buildProviderInput(history, "q3")

	input, ok := got.([]openai.InputMessage)
	require.True(t, ok)
	require.Len(t, input, 5) // 4 prior entries + the current turn
	require.Equal(t, openai.InputMessage{Role: models.RoleUser, Content: "q3"}, input[4])
	require.Equal(t, "a2", input[3].Content)
}

// ---------------------------------------------------------------------------
// ListMessages
// ---------------------------------------------------------------------------

func TestListMessages(t *testing.T) {
	st := &mockStore{}
	seedMessage(st, "s1", models.RoleUser, "q1")
	seedMessage(st, "s1", models.RoleAssistant, "a1")
	seedMessage(st, "s9", models.RoleUser, "other")
	svc := NewChatService(st, &mockProvider{})

	msgs, err := svc.ListMessages(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	_, err = svc.ListMessages(context.Background(), " ")
	require.ErrorIs(t, err, ErrValidation)
}
