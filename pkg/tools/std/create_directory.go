// Инструмент создания директории в песочнице.

package std

import (
	"context"
	"fmt"
	"os"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// CreateDirectoryTool создает директорию внутри песочницы.
//
// Существующая директория — ошибка, не молчаливый успех.
type CreateDirectoryTool struct {
	box         *sandbox.Dir
	description string
}

// NewCreateDirectoryTool создает инструмент создания директории.
func NewCreateDirectoryTool(box *sandbox.Dir, cfg config.ToolConfig) *CreateDirectoryTool {
	return &CreateDirectoryTool{
		box:         box,
		description: pickDescription(cfg, "Create a directory within the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *CreateDirectoryTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "create_directory",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"directory_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the directory to create (must be within %s)", t.box.Root()),
				},
			},
			"required": []string{"directory_path"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *CreateDirectoryTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		DirectoryPath string `json:"directory_path"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.DirectoryPath == "" {
		return "Error: directory_path parameter is required", nil
	}

	absDir, err := t.box.Resolve(args.DirectoryPath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only create directories within %s", t.box.Root()), nil
	}

	if info, err := os.Stat(absDir); err == nil {
		if info.IsDir() {
			return fmt.Sprintf("Error: Directory already exists - %s", args.DirectoryPath), nil
		}
		return fmt.Sprintf("Error: Path exists but is not a directory - %s", args.DirectoryPath), nil
	}

	if err := os.MkdirAll(absDir, 0755); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied creating directory - %s", args.DirectoryPath), nil
		}
		return fmt.Sprintf("Error: Failed to create directory - %v", err), nil
	}

	return fmt.Sprintf("Success: Created directory '%s'", t.box.Rel(absDir)), nil
}

// Ensure CreateDirectoryTool implements Tool
var _ tools.Tool = (*CreateDirectoryTool)(nil)
