package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"visaguide/internal/ai"
	"visaguide/internal/logging"
)

type stubCompleter struct {
	mu       sync.Mutex
	calls    int
	lastMsgs []ai.ChatMessage
	lastCtx  context.Context
	reply    string
	err      error
}

func (s *stubCompleter) Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastMsgs = messages
	s.lastCtx = ctx
	return s.reply, s.err
}

type memoryHistory struct {
	turns map[string][]ai.ChatMessage
}

func (h *memoryHistory) Recent(ctx context.Context, sessionID string, limit int) ([]ai.ChatMessage, error) {
	turns := h.turns[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (h *memoryHistory) Append(ctx context.Context, sessionID string, user, assistant ai.ChatMessage) error {
	h.turns[sessionID] = append(h.turns[sessionID], user, assistant)
	return nil
}

var testLLM = ai.ChatConfig{Model: "llama-3.3-70b-versatile", Temperature: 0.6, MaxTokens: 1000}

func TestSendMessage_EmptyMessageNeverCallsUpstream(t *testing.T) {
	stub := &stubCompleter{reply: "hi"}
	svc := NewChatService(stub, nil, testLLM, 0, logging.Discard())

	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := svc.SendMessage(context.Background(), SendMessageInput{Message: msg}); !errors.Is(err, ErrMessageEmpty) {
			t.Errorf("SendMessage(%q): err = %v, want ErrMessageEmpty", msg, err)
		}
	}
	if stub.calls != 0 {
		t.Errorf("upstream calls = %d, want 0", stub.calls)
	}
}

func TestSendMessage_SendsSystemPromptAndUserMessage(t *testing.T) {
	stub := &stubCompleter{reply: "You need a job offer."}
	svc := NewChatService(stub, &memoryHistory{turns: map[string][]ai.ChatMessage{}}, testLLM, 0, logging.Discard())

	res, err := svc.SendMessage(context.Background(), SendMessageInput{
		Message:   "What do I need for a Canadian work visa?",
		UserID:    7,
		UserEmail: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Response != "You need a job offer." {
		t.Errorf("response = %q", res.Response)
	}
	if res.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if res.UserID != 7 || res.UserEmail != "ana@example.com" {
		t.Errorf("identity = (%d, %q)", res.UserID, res.UserEmail)
	}
	if len(stub.lastMsgs) != 2 {
		t.Fatalf("messages sent = %d, want 2 with history disabled", len(stub.lastMsgs))
	}
	if stub.lastMsgs[0].Role != "system" || stub.lastMsgs[0].Content != SystemPrompt {
		t.Errorf("first message = %+v", stub.lastMsgs[0])
	}
	if stub.lastMsgs[1].Role != "user" || stub.lastMsgs[1].Content != "What do I need for a Canadian work visa?" {
		t.Errorf("second message = %+v", stub.lastMsgs[1])
	}
}

func TestSendMessage_KeepsGivenSessionID(t *testing.T) {
	stub := &stubCompleter{reply: "ok"}
	svc := NewChatService(stub, nil, testLLM, 0, logging.Discard())

	res, err := svc.SendMessage(context.Background(), SendMessageInput{Message: "hello", SessionID: "abc-123"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.SessionID != "abc-123" {
		t.Errorf("session id = %q, want abc-123", res.SessionID)
	}
}

func TestSendMessage_EmptyReplyUsesFallback(t *testing.T) {
	svc := NewChatService(&stubCompleter{reply: ""}, nil, testLLM, 0, logging.Discard())

	res, err := svc.SendMessage(context.Background(), SendMessageInput{Message: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.Response != FallbackReply {
		t.Errorf("response = %q, want fallback", res.Response)
	}
}

func TestSendMessage_UpstreamErrorIsWrapped(t *testing.T) {
	svc := NewChatService(&stubCompleter{err: ai.ErrMalformedCompletion}, nil, testLLM, 0, logging.Discard())

	_, err := svc.SendMessage(context.Background(), SendMessageInput{Message: "hello"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestSendMessage_UpstreamContextOutlivesClient(t *testing.T) {
	stub := &stubCompleter{reply: "ok"}
	svc := NewChatService(stub, nil, testLLM, 0, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.SendMessage(ctx, SendMessageInput{Message: "hello"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if stub.lastCtx.Err() != nil {
		t.Errorf("upstream context err = %v, want nil", stub.lastCtx.Err())
	}
}

func TestSendMessage_ReplaysHistoryWhenEnabled(t *testing.T) {
	stub := &stubCompleter{reply: "second answer"}
	history := &memoryHistory{turns: map[string][]ai.ChatMessage{
		"s1": {
			{Role: "user", Content: "first question"},
			{Role: "assistant", Content: "first answer"},
		},
	}}
	svc := NewChatService(stub, history, testLLM, 1, logging.Discard())

	if _, err := svc.SendMessage(context.Background(), SendMessageInput{Message: "second question", SessionID: "s1"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(stub.lastMsgs) != 4 {
		t.Fatalf("messages sent = %d, want 4", len(stub.lastMsgs))
	}
	if stub.lastMsgs[1].Content != "first question" || stub.lastMsgs[3].Content != "second question" {
		t.Errorf("messages = %+v", stub.lastMsgs)
	}
	if got := len(history.turns["s1"]); got != 4 {
		t.Errorf("stored turns = %d, want 4", got)
	}
}
