// Package chat реализует диалоговый цикл с LLM и инструментами.
//
// Session держит историю сообщений и выполняет tool-цикл: пока модель
// отвечает вызовами инструментов, они исполняются через Registry,
// результаты возвращаются модели, и так до финального текстового ответа
// либо до исчерпания лимита раундов.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ilkoid/boxy-ai/pkg/debug"
	"github.com/ilkoid/boxy-ai/pkg/llm"
	"github.com/ilkoid/boxy-ai/pkg/tools"
	"github.com/ilkoid/boxy-ai/pkg/utils"
)

// maxToolDisplay ограничивает длину результата инструмента в строке
// "[Tool: ...]" пользовательского вывода. Полный результат модель
// получает всегда, это только отображение.
const maxToolDisplay = 200

// Session — одна чат-сессия с накапливаемой историей.
//
// Thread-safe: Send/SendStream сериализуются мьютексом, история
// не может перемешаться между параллельными ходами.
type Session struct {
	mu sync.Mutex

	provider llm.Provider
	registry *tools.Registry

	// recorder опционален — nil когда debug-дамп выключен
	recorder *debug.Recorder

	history       []llm.Message
	systemPrompt  string
	maxToolRounds int
}

// Options — настройки создаваемой сессии.
type Options struct {
	// SystemPrompt подставляется первым сообщением каждого запроса.
	SystemPrompt string

	// MaxToolRounds — верхняя граница раундов инструментов на один ход.
	// Защита от бесконечного цикла модель-инструмент.
	MaxToolRounds int

	// Recorder пишет JSON-трейс сессии. Может быть nil.
	Recorder *debug.Recorder
}

// NewSession создает сессию поверх провайдера и реестра инструментов.
func NewSession(provider llm.Provider, registry *tools.Registry, opts Options) *Session {
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = 10
	}
	return &Session{
		provider:      provider,
		registry:      registry,
		recorder:      opts.Recorder,
		systemPrompt:  opts.SystemPrompt,
		maxToolRounds: opts.MaxToolRounds,
	}
}

// Send отправляет сообщение пользователя и выполняет полный tool-цикл.
//
// Возвращает текст для показа пользователю: строки "[Tool: ...]" для
// каждого вызова инструмента и финальный ответ модели.
func (s *Session) Send(ctx context.Context, userInput string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.StartTurn(userInput)
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: userInput})

	var display []string
	for round := 0; round < s.maxToolRounds; round++ {
		assistant, err := s.provider.Generate(ctx, s.messages(), s.registry.GetDefinitions())
		if err != nil {
			return "", s.finishTurn("", fmt.Errorf("llm request failed: %w", err))
		}
		s.history = append(s.history, assistant)

		if len(assistant.ToolCalls) == 0 {
			// Финальный текстовый ответ — цикл завершен
			display = append(display, assistant.Content)
			result := strings.Join(display, "\n")
			return result, s.finishTurn(result, nil)
		}

		if assistant.Content != "" {
			display = append(display, assistant.Content)
		}
		display = append(display, s.runToolCalls(ctx, assistant.ToolCalls)...)
	}

	err := fmt.Errorf("tool round limit exceeded (%d)", s.maxToolRounds)
	return "", s.finishTurn("", err)
}

// SendStream — потоковый вариант Send.
//
// Текст модели приходит в callback чанками по мере генерации; вызовы
// инструментов отмечаются чанками ChunkToolCall. Если провайдер не
// умеет стриминг, ход выполняется синхронно и отдается одним чанком.
func (s *Session) SendStream(ctx context.Context, userInput string, callback func(llm.StreamChunk)) (string, error) {
	streamer, ok := s.provider.(llm.StreamingProvider)
	if !ok {
		utils.Debug("Provider does not support streaming, falling back to sync")
		result, err := s.Send(ctx, userInput)
		if err != nil {
			callback(llm.StreamChunk{Type: llm.ChunkError, Error: err})
			return "", err
		}
		callback(llm.StreamChunk{Type: llm.ChunkContent, Content: result, Delta: result})
		callback(llm.StreamChunk{Type: llm.ChunkDone, Done: true})
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.StartTurn(userInput)
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: userInput})

	var display []string
	for round := 0; round < s.maxToolRounds; round++ {
		assistant, err := streamer.GenerateStream(ctx, s.messages(), callback, s.registry.GetDefinitions())
		if err != nil {
			callback(llm.StreamChunk{Type: llm.ChunkError, Error: err})
			return "", s.finishTurn("", fmt.Errorf("llm request failed: %w", err))
		}
		s.history = append(s.history, assistant)

		if len(assistant.ToolCalls) == 0 {
			display = append(display, assistant.Content)
			result := strings.Join(display, "\n")
			callback(llm.StreamChunk{Type: llm.ChunkDone, Done: true})
			return result, s.finishTurn(result, nil)
		}

		if assistant.Content != "" {
			display = append(display, assistant.Content)
		}
		for _, line := range s.runToolCalls(ctx, assistant.ToolCalls) {
			display = append(display, line)
			callback(llm.StreamChunk{Type: llm.ChunkToolCall, Delta: line + "\n"})
		}
	}

	err := fmt.Errorf("tool round limit exceeded (%d)", s.maxToolRounds)
	callback(llm.StreamChunk{Type: llm.ChunkError, Error: err})
	return "", s.finishTurn("", err)
}

// runToolCalls исполняет вызовы инструментов одного раунда и добавляет
// tool-результаты в историю. Возвращает строки для отображения.
func (s *Session) runToolCalls(ctx context.Context, calls []llm.ToolCall) []string {
	lines := make([]string, 0, len(calls))
	for _, tc := range calls {
		start := time.Now()
		result := s.registry.Execute(ctx, tc.Name, tc.Args)
		elapsed := time.Since(start)

		utils.Debug("Tool executed", "tool", tc.Name, "duration", elapsed)
		if s.recorder != nil {
			s.recorder.RecordToolExecution(tc.Name, tc.Args, result, elapsed)
		}

		s.history = append(s.history, llm.Message{
			Role:       llm.RoleTool,
			Content:    result,
			ToolCallID: tc.ID,
			Name:       tc.Name,
		})
		lines = append(lines, fmt.Sprintf("[Tool: %s -> %s]", tc.Name, truncate(result, maxToolDisplay)))
	}
	if s.recorder != nil {
		s.recorder.RecordToolRound()
	}
	return lines
}

// finishTurn закрывает ход в рекордере и возвращает turnErr как есть.
func (s *Session) finishTurn(result string, turnErr error) error {
	if s.recorder != nil {
		if path, err := s.recorder.EndTurn(result, s.historyCopy(), turnErr); err != nil {
			utils.Warn("Failed to write debug log", "error", err)
		} else {
			utils.Debug("Debug log written", "path", path)
		}
	}
	return turnErr
}

// messages собирает запрос к модели: системный промпт + история.
func (s *Session) messages() []llm.Message {
	msgs := make([]llm.Message, 0, len(s.history)+1)
	if s.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: s.systemPrompt})
	}
	return append(msgs, s.history...)
}

// Reset очищает историю диалога. Системный промпт сохраняется.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// History возвращает копию истории сообщений.
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyCopy()
}

func (s *Session) historyCopy() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
