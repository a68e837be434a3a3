// Инструмент чтения файла из песочницы.

package std

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// ReadFileTool читает полное содержимое файла внутри песочницы.
type ReadFileTool struct {
	box         *sandbox.Dir
	description string
}

// NewReadFileTool создает инструмент чтения файла.
func NewReadFileTool(box *sandbox.Dir, cfg config.ToolConfig) *ReadFileTool {
	return &ReadFileTool{
		box:         box,
		description: pickDescription(cfg, "Read the full contents of a file from the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *ReadFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "read_file",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the file to read (must be within %s)", t.box.Root()),
				},
			},
			"required": []string{"file_path"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *ReadFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
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
		return fmt.Sprintf("Error: Access denied. Can only read files within %s", t.box.Root()), nil
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: File not found - %s", args.FilePath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to read file - %v", err), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file - %s", args.FilePath), nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied reading file - %s", args.FilePath), nil
		}
		return fmt.Sprintf("Error: Failed to read file - %v", err), nil
	}

	// Бинарные файлы отдавать модели бессмысленно
	if !utf8.Valid(content) {
		return fmt.Sprintf("Error: Cannot decode file as UTF-8 - %s", args.FilePath), nil
	}

	return string(content), nil
}

// Ensure ReadFileTool implements Tool
var _ tools.Tool = (*ReadFileTool)(nil)
