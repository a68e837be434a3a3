// Инструмент переименования файла внутри песочницы.

package std

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// RenameFileTool переименовывает файл внутри песочницы.
//
// Занятое имя назначения — ошибка, молчаливой перезаписи нет.
type RenameFileTool struct {
	box         *sandbox.Dir
	description string
}

// NewRenameFileTool создает инструмент переименования файла.
func NewRenameFileTool(box *sandbox.Dir, cfg config.ToolConfig) *RenameFileTool {
	return &RenameFileTool{
		box:         box,
		description: pickDescription(cfg, "Rename a file within the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *RenameFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "rename_file",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"old_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Current path of the file (must be within %s)", t.box.Root()),
				},
				"new_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("New path for the file (must be within %s)", t.box.Root()),
				},
			},
			"required": []string{"old_path", "new_path"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *RenameFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		OldPath string `json:"old_path"`
		NewPath string `json:"new_path"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.OldPath == "" {
		return "Error: old_path parameter is required", nil
	}
	if args.NewPath == "" {
		return "Error: new_path parameter is required", nil
	}

	absOld, err := t.box.Resolve(args.OldPath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only rename files within %s", t.box.Root()), nil
	}
	absNew, err := t.box.Resolve(args.NewPath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only rename files within %s", t.box.Root()), nil
	}

	info, err := os.Stat(absOld)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: File not found - %s", args.OldPath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to rename file - %v", err), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file - %s", args.OldPath), nil
	}

	if _, err := os.Stat(absNew); err == nil {
		return fmt.Sprintf("Error: Destination already exists - %s", args.NewPath), nil
	}

	// Назначение может лежать в ещё не существующей поддиректории
	if err := os.MkdirAll(filepath.Dir(absNew), 0755); err != nil {
		return fmt.Sprintf("Error: Failed to rename file - %v", err), nil
	}

	if err := os.Rename(absOld, absNew); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied renaming file - %s", args.OldPath), nil
		}
		return fmt.Sprintf("Error: Failed to rename file - %v", err), nil
	}

	return fmt.Sprintf("Success: Renamed file '%s' to '%s'", t.box.Rel(absOld), t.box.Rel(absNew)), nil
}

// Ensure RenameFileTool implements Tool
var _ tools.Tool = (*RenameFileTool)(nil)
