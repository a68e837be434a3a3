package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/boxy-ai/pkg/llm"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// scriptedProvider отдает заранее заданные ответы по порядку.
type scriptedProvider struct {
	responses []llm.Message
	err       error

	// seen — снимки messages каждого вызова Generate
	seen [][]llm.Message
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	p.seen = append(p.seen, snapshot)

	if p.err != nil {
		return llm.Message{}, p.err
	}
	if len(p.seen) > len(p.responses) {
		return llm.Message{}, fmt.Errorf("no scripted response for call %d", len(p.seen))
	}
	return p.responses[len(p.seen)-1], nil
}

// scriptedStreamer дополнительно эмулирует потоковую выдачу.
type scriptedStreamer struct {
	scriptedProvider
}

func (p *scriptedStreamer) GenerateStream(ctx context.Context, messages []llm.Message, callback func(llm.StreamChunk), opts ...any) (llm.Message, error) {
	msg, err := p.Generate(ctx, messages, opts...)
	if err != nil {
		return llm.Message{}, err
	}
	if msg.Content != "" {
		callback(llm.StreamChunk{Type: llm.ChunkContent, Content: msg.Content, Delta: msg.Content})
	}
	return msg, nil
}

// echoTool возвращает свои аргументы как результат.
type echoTool struct{ name string }

func (t *echoTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        t.name,
		Description: "echoes arguments",
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	}
}

func (t *echoTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return "echo:" + argsJSON, nil
}

func newRegistry(t *testing.T, toolNames ...string) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry()
	for _, name := range toolNames {
		require.NoError(t, registry.Register(&echoTool{name: name}))
	}
	return registry
}

func assistantText(content string) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, Content: content}
}

func assistantToolCall(id, name, args string) llm.Message {
	return llm.Message{
		Role:      llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{{ID: id, Name: name, Args: args}},
	}
}

func TestSession_PlainResponse(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{assistantText("Hi there")}}
	session := NewSession(provider, newRegistry(t), Options{})

	result, err := session.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", result)

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, llm.RoleUser, history[0].Role)
	assert.Equal(t, llm.RoleAssistant, history[1].Role)
}

func TestSession_ToolLoop(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		assistantToolCall("call_1", "echo", `{"x":1}`),
		assistantText("done"),
	}}
	session := NewSession(provider, newRegistry(t, "echo"), Options{})

	result, err := session.Send(context.Background(), "use the tool")
	require.NoError(t, err)
	assert.Equal(t, "[Tool: echo -> echo:{\"x\":1}]\ndone", result)

	// user -> assistant(tool_calls) -> tool -> assistant
	history := session.History()
	require.Len(t, history, 4)
	assert.Equal(t, llm.RoleUser, history[0].Role)
	assert.Equal(t, llm.RoleAssistant, history[1].Role)
	assert.Equal(t, llm.RoleTool, history[2].Role)
	assert.Equal(t, "call_1", history[2].ToolCallID)
	assert.Equal(t, "echo", history[2].Name)
	assert.Equal(t, `echo:{"x":1}`, history[2].Content)
	assert.Equal(t, llm.RoleAssistant, history[3].Role)

	// Второй запрос к модели содержит результат инструмента
	require.Len(t, provider.seen, 2)
	last := provider.seen[1][len(provider.seen[1])-1]
	assert.Equal(t, llm.RoleTool, last.Role)
}

func TestSession_UnknownToolFedBackToModel(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		assistantToolCall("call_1", "no_such_tool", "{}"),
		assistantText("recovered"),
	}}
	session := NewSession(provider, newRegistry(t), Options{})

	result, err := session.Send(context.Background(), "try it")
	require.NoError(t, err)
	assert.Contains(t, result, "[Tool: no_such_tool -> Error: Unknown tool 'no_such_tool']")
	assert.Contains(t, result, "recovered")

	history := session.History()
	assert.Equal(t, "Error: Unknown tool 'no_such_tool'", history[2].Content)
}

func TestSession_RoundLimitExceeded(t *testing.T) {
	// Модель зациклилась на вызовах инструмента
	provider := &scriptedProvider{responses: []llm.Message{
		assistantToolCall("c1", "echo", "{}"),
		assistantToolCall("c2", "echo", "{}"),
		assistantToolCall("c3", "echo", "{}"),
		assistantToolCall("c4", "echo", "{}"),
	}}
	session := NewSession(provider, newRegistry(t, "echo"), Options{MaxToolRounds: 2})

	_, err := session.Send(context.Background(), "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool round limit exceeded (2)")

	// Лимит точный: ровно 2 запроса к модели, не 3
	assert.Len(t, provider.seen, 2)
}

func TestSession_RoundLimitAllowsFinalAnswerOnLastRound(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		assistantToolCall("c1", "echo", "{}"),
		assistantText("made it"),
	}}
	session := NewSession(provider, newRegistry(t, "echo"), Options{MaxToolRounds: 2})

	result, err := session.Send(context.Background(), "one tool then answer")
	require.NoError(t, err)
	assert.Contains(t, result, "made it")
	assert.Len(t, provider.seen, 2)
}

func TestSessionStream_RoundLimitExceeded(t *testing.T) {
	provider := &scriptedStreamer{scriptedProvider{responses: []llm.Message{
		assistantToolCall("c1", "echo", "{}"),
		assistantToolCall("c2", "echo", "{}"),
		assistantToolCall("c3", "echo", "{}"),
	}}}
	session := NewSession(provider, newRegistry(t, "echo"), Options{MaxToolRounds: 2})

	_, err := session.SendStream(context.Background(), "loop forever", func(llm.StreamChunk) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool round limit exceeded (2)")
	assert.Len(t, provider.seen, 2)
}

func TestSession_SystemPromptFirst(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{assistantText("ok")}}
	session := NewSession(provider, newRegistry(t), Options{SystemPrompt: "Be terse."})

	_, err := session.Send(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, provider.seen, 1)
	first := provider.seen[0][0]
	assert.Equal(t, llm.RoleSystem, first.Role)
	assert.Equal(t, "Be terse.", first.Content)

	// Системный промпт не попадает в историю
	for _, msg := range session.History() {
		assert.NotEqual(t, llm.RoleSystem, msg.Role)
	}
}

func TestSession_GenerateError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	session := NewSession(provider, newRegistry(t), Options{})

	_, err := session.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm request failed")
}

func TestSession_Reset(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		assistantText("one"),
		assistantText("two"),
	}}
	session := NewSession(provider, newRegistry(t), Options{})

	_, err := session.Send(context.Background(), "first")
	require.NoError(t, err)
	session.Reset()

	_, err = session.Send(context.Background(), "second")
	require.NoError(t, err)

	// После reset история начинается заново
	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Content)
}

func TestSession_MultiTurnHistoryGrows(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{
		assistantText("one"),
		assistantText("two"),
	}}
	session := NewSession(provider, newRegistry(t), Options{})

	_, err := session.Send(context.Background(), "first")
	require.NoError(t, err)
	_, err = session.Send(context.Background(), "second")
	require.NoError(t, err)

	// Второй запрос несет весь предыдущий диалог
	require.Len(t, provider.seen, 2)
	assert.Len(t, provider.seen[1], 3)
	assert.Len(t, session.History(), 4)
}

func TestSessionStream_ToolMarkers(t *testing.T) {
	provider := &scriptedStreamer{scriptedProvider{responses: []llm.Message{
		assistantToolCall("c1", "echo", "{}"),
		assistantText("streamed answer"),
	}}}
	session := NewSession(provider, newRegistry(t, "echo"), Options{})

	var chunks []llm.StreamChunk
	result, err := session.SendStream(context.Background(), "go", func(c llm.StreamChunk) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)
	assert.Equal(t, "[Tool: echo -> echo:{}]\nstreamed answer", result)

	var sawToolMarker, sawDone bool
	for _, c := range chunks {
		switch c.Type {
		case llm.ChunkToolCall:
			sawToolMarker = true
			assert.Contains(t, c.Delta, "[Tool: echo ->")
		case llm.ChunkDone:
			sawDone = true
		}
	}
	assert.True(t, sawToolMarker)
	assert.True(t, sawDone)
}

func TestSessionStream_FallbackWithoutStreaming(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Message{assistantText("plain")}}
	session := NewSession(provider, newRegistry(t), Options{})

	var chunks []llm.StreamChunk
	result, err := session.SendStream(context.Background(), "go", func(c llm.StreamChunk) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)
	assert.Equal(t, "plain", result)
	require.Len(t, chunks, 2)
	assert.Equal(t, llm.ChunkContent, chunks[0].Type)
	assert.Equal(t, llm.ChunkDone, chunks[1].Type)
}

func TestSession_TruncatesToolDisplayOnly(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}

	provider := &scriptedProvider{responses: []llm.Message{
		assistantToolCall("c1", "echo", string(long)),
		assistantText("ok"),
	}}
	session := NewSession(provider, newRegistry(t, "echo"), Options{})

	result, err := session.Send(context.Background(), "big")
	require.NoError(t, err)
	assert.Contains(t, result, "...]")

	// В истории результат полный, обрезка только для отображения
	history := session.History()
	assert.Len(t, history[2].Content, len("echo:")+500)
}
