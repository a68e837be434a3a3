// Инструмент получения текущего времени.

package std

import (
	"context"
	"time"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// CurrentTimeTool возвращает текущее локальное время.
//
// У моделей нет часов; этот инструмент — единственный источник
// актуальной даты в диалоге.
type CurrentTimeTool struct {
	description string
	// now подменяется в тестах
	now func() time.Time
}

// NewCurrentTimeTool создает инструмент текущего времени.
func NewCurrentTimeTool(cfg config.ToolConfig) *CurrentTimeTool {
	return &CurrentTimeTool{
		description: pickDescription(cfg, "Get the current date and time"),
		now:         time.Now,
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *CurrentTimeTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_current_time",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *CurrentTimeTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return t.now().Format("2006-01-02 15:04:05 MST"), nil
}

// Ensure CurrentTimeTool implements Tool
var _ tools.Tool = (*CurrentTimeTool)(nil)
