// TUI модель чата: viewport с историей, textarea ввода, spinner.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/ilkoid/boxy-ai/pkg/chat"
)

// teaMsg типы для коммуникации внутри Update цикла
type responseMsg struct{ text string }
type errorMsg struct{ err error }

// ChatModel — Bubble Tea модель чат-интерфейса поверх chat.Session.
//
// Каждый Enter запускает полный ход сессии (включая tool-цикл) в
// tea.Cmd; ответ приходит одним responseMsg вместе со строками
// "[Tool: ...]".
type ChatModel struct {
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles

	session   *chat.Session
	modelName string

	// logLines — оригинальные строки лога без переносов.
	// Перенос пересчитывается от текущей ширины при каждом resize.
	logLines []string

	loading bool
	ready   bool
}

// NewChatModel создает модель чата для указанной сессии.
func NewChatModel(session *chat.Session, modelName string) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.SetHeight(3)
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter отправляет, не переносит строку

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := ChatModel{
		textarea:  ta,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		styles:    newStyles(DefaultScheme),
		session:   session,
		modelName: modelName,
	}
	m.appendLog(m.styles.system.Render("Boxy AI — chat with tools"))
	m.appendLog(m.styles.system.Render("Enter to send, Ctrl+R to reset, Ctrl+C to quit"))
	return m
}

// Init инициализирует TUI.
func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update обрабатывает события терминала и ответы сессии.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlR:
			m.session.Reset()
			m.logLines = nil
			m.appendLog(m.styles.system.Render("Conversation reset"))
			return m, nil

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" || m.loading {
				return m, nil
			}
			m.textarea.Reset()
			m.appendLog(m.styles.user.Render("You: ") + input)
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.sendCmd(input))

		case tea.KeyCtrlU:
			m.textarea.Reset()
			return m, nil
		}

	case responseMsg:
		m.loading = false
		for _, line := range strings.Split(msg.text, "\n") {
			if strings.HasPrefix(line, "[Tool: ") {
				m.appendLog(m.styles.tool.Render(line))
			} else {
				m.appendLog(m.styles.ai.Render("AI: ") + line)
			}
		}

	case errorMsg:
		m.loading = false
		m.appendLog(m.styles.errMsg.Render("Error: ") + msg.err.Error())
	}

	if m.loading {
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, spCmd)
	}
	return m, tea.Batch(tiCmd, vpCmd)
}

// View рендерит интерфейс: header, viewport, разделитель, ввод.
func (m ChatModel) View() string {
	if !m.ready {
		return "Initializing UI..."
	}

	header := m.styles.header.
		Width(m.viewport.Width).
		Render(fmt.Sprintf(" BOXY AI | MODEL: %s ", m.modelName))

	border := m.styles.border.
		Width(m.viewport.Width).
		Render(strings.Repeat("─", max(m.viewport.Width, 1)))

	view := fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.viewport.View(),
		border,
		m.textarea.View(),
	)

	if m.loading {
		view += "\n" + m.spinner.View() + " Thinking..."
	}
	return view
}

// sendCmd выполняет ход сессии в фоне.
func (m ChatModel) sendCmd(input string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		result, err := session.Send(context.Background(), input)
		if err != nil {
			return errorMsg{err: err}
		}
		return responseMsg{text: result}
	}
}

// handleResize пересчитывает размеры и переносы строк лога.
//
// wasAtBottom вычисляется до изменения высоты, иначе автоскролл
// ломается при уменьшении окна.
func (m *ChatModel) handleResize(msg tea.WindowSizeMsg) {
	headerHeight := 1
	footerHeight := m.textarea.Height() + 2

	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := msg.Width
	if vpWidth < 20 {
		vpWidth = 20
	}

	wasAtBottom := m.viewport.YOffset+m.viewport.Height >= m.viewport.TotalLineCount()

	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.textarea.SetWidth(msg.Width)
	m.ready = true

	m.reflow()
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}

// appendLog добавляет строку в лог и прокручивает вниз.
func (m *ChatModel) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	m.reflow()
	m.viewport.GotoBottom()
}

// reflow пересобирает контент viewport с переносом под текущую ширину.
func (m *ChatModel) reflow() {
	width := m.viewport.Width
	if width <= 0 {
		m.viewport.SetContent(strings.Join(m.logLines, "\n"))
		return
	}
	var wrapped []string
	for _, line := range m.logLines {
		wrapped = append(wrapped, strings.Split(wrap.String(line, width), "\n")...)
	}
	m.viewport.SetContent(strings.Join(wrapped, "\n"))
}
