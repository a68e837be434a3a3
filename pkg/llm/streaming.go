// Абстракции для потоковой передачи (streaming) ответов от LLM.

package llm

import "context"

// StreamingProvider — интерфейс для LLM провайдеров с поддержкой стриминга.
//
// Отдельный интерфейс от Provider: провайдеры могут реализовать оба
// или только базовый Provider.
//
// Все методы уважают context.Context и прерывают операцию при отмене.
type StreamingProvider interface {
	Provider

	// GenerateStream выполняет запрос к API с потоковой передачей ответа.
	//
	// Callback вызывается для каждой порции данных:
	//   - ChunkContent: инкрементальный текстовый контент
	//   - ChunkError: ошибка стриминга
	//   - ChunkDone: завершение стриминга
	//
	// Возвращает финальное собранное сообщение после завершения стриминга,
	// включая tool calls, если модель решила вызвать инструменты.
	GenerateStream(ctx context.Context, messages []Message, callback func(StreamChunk), opts ...any) (Message, error)
}

// StreamChunk представляет одну порцию данных из потокового ответа.
type StreamChunk struct {
	// Type определяет тип чанка
	Type ChunkType

	// Content содержит накопленный текстовый контент на данный момент
	Content string

	// Delta — инкрементальное изменение (для вывода в реальном времени)
	Delta string

	// Done — флаг завершения стриминга
	Done bool

	// Error — ошибка если произошла (только когда Type == ChunkError)
	Error error
}

// ChunkType определяет тип стримингового чанка.
type ChunkType string

const (
	// ChunkContent — обычный контент ответа.
	// Накапливается по мере поступления от LLM.
	ChunkContent ChunkType = "content"

	// ChunkToolCall — маркер вызова инструмента посреди потока.
	// Delta содержит отображаемую строку вида "[Tool: name -> result]".
	ChunkToolCall ChunkType = "tool_call"

	// ChunkError — ошибка стриминга.
	ChunkError ChunkType = "error"

	// ChunkDone — завершение стриминга.
	ChunkDone ChunkType = "done"
)
