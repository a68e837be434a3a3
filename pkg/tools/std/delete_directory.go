// Инструмент удаления директории из песочницы.

package std

import (
	"context"
	"fmt"
	"os"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// DeleteDirectoryTool удаляет директорию внутри песочницы.
//
// Непустая директория удаляется только с force=true. Корень песочницы
// не удаляется никогда.
type DeleteDirectoryTool struct {
	box         *sandbox.Dir
	description string
}

// NewDeleteDirectoryTool создает инструмент удаления директории.
func NewDeleteDirectoryTool(box *sandbox.Dir, cfg config.ToolConfig) *DeleteDirectoryTool {
	return &DeleteDirectoryTool{
		box:         box,
		description: pickDescription(cfg, "Delete a directory within the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *DeleteDirectoryTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "delete_directory",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"directory_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the directory to delete (must be within %s)", t.box.Root()),
				},
				"force": map[string]any{
					"type":        "boolean",
					"description": "Delete the directory even if it is not empty (defaults to false)",
				},
			},
			"required": []string{"directory_path"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *DeleteDirectoryTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		DirectoryPath string `json:"directory_path"`
		Force         bool   `json:"force"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.DirectoryPath == "" {
		return "Error: directory_path parameter is required", nil
	}

	absDir, err := t.box.Resolve(args.DirectoryPath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only delete directories within %s", t.box.Root()), nil
	}
	if t.box.IsRoot(absDir) {
		return "Error: Cannot delete the sandbox root directory", nil
	}

	info, err := os.Stat(absDir)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: Directory not found - %s", args.DirectoryPath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to delete directory - %v", err), nil
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: Path is not a directory - %s", args.DirectoryPath), nil
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied deleting directory - %s", args.DirectoryPath), nil
		}
		return fmt.Sprintf("Error: Failed to delete directory - %v", err), nil
	}

	if len(entries) > 0 && !args.Force {
		return fmt.Sprintf("Error: Directory not empty - %s (use force=true to delete anyway)", args.DirectoryPath), nil
	}

	if err := os.RemoveAll(absDir); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied deleting directory - %s", args.DirectoryPath), nil
		}
		return fmt.Sprintf("Error: Failed to delete directory - %v", err), nil
	}

	return fmt.Sprintf("Success: Deleted directory '%s'", t.box.Rel(absDir)), nil
}

// Ensure DeleteDirectoryTool implements Tool
var _ tools.Tool = (*DeleteDirectoryTool)(nil)
