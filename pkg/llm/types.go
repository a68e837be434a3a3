// Базовые типы - определяем универсальный язык общения с моделями.
package llm

// Role — роль участника диалога.
type Role string

// Константы ролей.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message — один ход диалога.
//
// История чата — это упорядоченный срез Message, которым владеет
// одна сессия. Поля ToolCalls/ToolCallID заполняются только для
// соответствующих ролей.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls — запросы модели на вызов инструментов (Role == assistant).
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID — идентификатор вызова, на который отвечает это сообщение
	// (Role == tool). Должен существовать в предыдущем assistant-сообщении.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Name — имя инструмента для tool-результата.
	Name string `json:"name,omitempty"`
}

// ToolCall — запрос модели на выполнение инструмента.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args"` // Сырой JSON аргументов от модели
}
