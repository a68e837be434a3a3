// Инструмент переименования директории внутри песочницы.

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

// RenameDirectoryTool переименовывает директорию внутри песочницы.
//
// Корень песочницы переименовать нельзя; занятое назначение — ошибка.
type RenameDirectoryTool struct {
	box         *sandbox.Dir
	description string
}

// NewRenameDirectoryTool создает инструмент переименования директории.
func NewRenameDirectoryTool(box *sandbox.Dir, cfg config.ToolConfig) *RenameDirectoryTool {
	return &RenameDirectoryTool{
		box:         box,
		description: pickDescription(cfg, "Rename a directory within the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *RenameDirectoryTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "rename_directory",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"old_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Current path of the directory (must be within %s)", t.box.Root()),
				},
				"new_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("New path for the directory (must be within %s)", t.box.Root()),
				},
			},
			"required": []string{"old_path", "new_path"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *RenameDirectoryTool) Execute(ctx context.Context, argsJSON string) (string, error) {
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
		return fmt.Sprintf("Error: Access denied. Can only rename directories within %s", t.box.Root()), nil
	}
	absNew, err := t.box.Resolve(args.NewPath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only rename directories within %s", t.box.Root()), nil
	}

	if t.box.IsRoot(absOld) {
		return "Error: Cannot rename the sandbox root directory", nil
	}

	info, err := os.Stat(absOld)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: Directory not found - %s", args.OldPath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to rename directory - %v", err), nil
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: Path is not a directory - %s", args.OldPath), nil
	}

	if _, err := os.Stat(absNew); err == nil {
		return fmt.Sprintf("Error: Destination already exists - %s", args.NewPath), nil
	}

	if err := os.MkdirAll(filepath.Dir(absNew), 0755); err != nil {
		return fmt.Sprintf("Error: Failed to rename directory - %v", err), nil
	}

	if err := os.Rename(absOld, absNew); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied renaming directory - %s", args.OldPath), nil
		}
		return fmt.Sprintf("Error: Failed to rename directory - %v", err), nil
	}

	return fmt.Sprintf("Success: Renamed directory '%s' to '%s'", t.box.Rel(absOld), t.box.Rel(absNew)), nil
}

// Ensure RenameDirectoryTool implements Tool
var _ tools.Tool = (*RenameDirectoryTool)(nil)
