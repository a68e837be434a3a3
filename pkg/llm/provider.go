// Интерфейс Провайдера через который работает всё приложение.

package llm

import "context"

// Provider — абстракция над LLM API.
//
// Конкретные реализации (OpenAI-совместимые API и т.д.) скрыты
// за этим интерфейсом.
type Provider interface {
	// Generate принимает контекст и историю сообщений.
	// Возвращает ответ модели в унифицированном формате Message.
	// opts — опциональные параметры; []tools.ToolDefinition включает
	// Function Calling, если провайдер его поддерживает.
	Generate(ctx context.Context, messages []Message, opts ...any) (Message, error)
}
