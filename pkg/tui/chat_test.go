package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/boxy-ai/pkg/chat"
	"github.com/ilkoid/boxy-ai/pkg/llm"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

type staticProvider struct{ reply string }

func (p *staticProvider) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	return llm.Message{Role: llm.RoleAssistant, Content: p.reply}, nil
}

func newTestModel(t *testing.T) ChatModel {
	t.Helper()
	session := chat.NewSession(&staticProvider{reply: "hi"}, tools.NewRegistry(), chat.Options{})
	return NewChatModel(session, "test-model")
}

func TestChatModel_NotReadyBeforeResize(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "Initializing UI...", m.View())
}

func TestChatModel_ResizeMakesReady(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(ChatModel)
	require.True(t, ok)

	assert.True(t, model.ready)
	view := model.View()
	assert.Contains(t, view, "BOXY AI | MODEL: test-model")
}

func TestChatModel_ResponseRendering(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model := updated.(ChatModel)

	updated, _ = model.Update(responseMsg{text: "[Tool: current_time -> 12:00]\nIt is noon."})
	model = updated.(ChatModel)

	assert.False(t, model.loading)
	view := model.View()
	assert.Contains(t, view, "[Tool: current_time -> 12:00]")
	assert.Contains(t, view, "It is noon.")
}

func TestChatModel_ErrorRendering(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model := updated.(ChatModel)

	updated, _ = model.Update(errorMsg{err: assert.AnError})
	model = updated.(ChatModel)

	assert.False(t, model.loading)
	assert.Contains(t, model.View(), assert.AnError.Error())
}

func TestChatModel_QuitKeys(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
