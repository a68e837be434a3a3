// Инструмент удаления файла из песочницы.

package std

import (
	"context"
	"fmt"
	"os"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// DeleteFileTool удаляет файл внутри песочницы.
//
// Отсутствующий файл — ошибка: операция не идемпотентна намеренно,
// модель должна видеть расхождение своих ожиданий с реальностью.
type DeleteFileTool struct {
	box         *sandbox.Dir
	description string
}

// NewDeleteFileTool создает инструмент удаления файла.
func NewDeleteFileTool(box *sandbox.Dir, cfg config.ToolConfig) *DeleteFileTool {
	return &DeleteFileTool{
		box:         box,
		description: pickDescription(cfg, "Delete a file from the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *DeleteFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "delete_file",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the file to delete (must be within %s)", t.box.Root()),
				},
			},
			"required": []string{"file_path"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *DeleteFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FilePath string `json:"file_path"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.FilePath == "" {
		return "Error: file_path parameter is required", nil
	}

	absPath, err := t.box.Resolve(args.FilePath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only delete files within %s", t.box.Root()), nil
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: File not found - %s", args.FilePath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to delete file - %v", err), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file - %s", args.FilePath), nil
	}

	if err := os.Remove(absPath); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied deleting file - %s", args.FilePath), nil
		}
		return fmt.Sprintf("Error: Failed to delete file - %v", err), nil
	}

	return fmt.Sprintf("Success: Deleted file '%s'", t.box.Rel(absPath)), nil
}

// Ensure DeleteFileTool implements Tool
var _ tools.Tool = (*DeleteFileTool)(nil)
