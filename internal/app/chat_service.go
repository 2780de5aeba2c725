package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"visaguide/internal/ai"
)

// FallbackReply is returned when the upstream answers with empty content.
const FallbackReply = "I apologize, but I couldn't generate a response. Please try again."

type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// TurnHistory stores prior turns of a chat session. Append must write the
// user and assistant messages atomically.
type TurnHistory interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]ai.ChatMessage, error)
	Append(ctx context.Context, sessionID string, user, assistant ai.ChatMessage) error
}

type ChatService struct {
	completer    Completer
	history      TurnHistory
	llm          ai.ChatConfig
	historyTurns int
	logger       logrus.FieldLogger
}

type SendMessageInput struct {
	Message   string
	SessionID string
	UserID    uint
	UserEmail string
}

type SendMessageResult struct {
	Response  string
	SessionID string
	UserID    uint
	UserEmail string
}

// NewChatService builds the gateway. history may be nil; prior turns are only
// replayed when history is set and historyTurns is positive.
func NewChatService(completer Completer, history TurnHistory, llm ai.ChatConfig, historyTurns int, logger logrus.FieldLogger) *ChatService {
	if historyTurns < 0 {
		historyTurns = 0
	}
	return &ChatService{
		completer:    completer,
		history:      history,
		llm:          llm,
		historyTurns: historyTurns,
		logger:       logger,
	}
}

func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrMessageEmpty
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	entry := s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"user_id":    userIDField(input.UserID),
		"user_email": emailField(input.UserEmail),
	})
	entry.Info("chat turn received")

	// The completion runs to the end even if the client goes away.
	callCtx := context.WithoutCancel(ctx)

	messages := s.buildMessages(callCtx, entry, sessionID, input.Message)
	content, err := s.completer.Complete(callCtx, s.llm, messages)
	if err != nil {
		entry.WithError(err).Error("chat completion failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if content == "" {
		content = FallbackReply
	}

	if s.historyEnabled() {
		userTurn := ai.ChatMessage{Role: "user", Content: input.Message}
		assistantTurn := ai.ChatMessage{Role: "assistant", Content: content}
		if err := s.history.Append(callCtx, sessionID, userTurn, assistantTurn); err != nil {
			entry.WithError(err).Warn("append session history failed")
		}
	}

	return &SendMessageResult{
		Response:  content,
		SessionID: sessionID,
		UserID:    input.UserID,
		UserEmail: input.UserEmail,
	}, nil
}

func (s *ChatService) historyEnabled() bool {
	return s.history != nil && s.historyTurns > 0
}

func (s *ChatService) buildMessages(ctx context.Context, entry logrus.FieldLogger, sessionID, message string) []ai.ChatMessage {
	messages := []ai.ChatMessage{{Role: "system", Content: SystemPrompt}}
	if s.historyEnabled() {
		prior, err := s.history.Recent(ctx, sessionID, 2*s.historyTurns)
		if err != nil {
			entry.WithError(err).Warn("load session history failed")
		}
		messages = append(messages, prior...)
	}
	return append(messages, ai.ChatMessage{Role: "user", Content: message})
}

func userIDField(id uint) interface{} {
	if id == 0 {
		return "anonymous"
	}
	return id
}

func emailField(email string) string {
	if email == "" {
		return "anonymous"
	}
	return email
}
