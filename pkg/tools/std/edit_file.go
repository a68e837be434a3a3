// Инструмент редактирования файла заменой подстрок.

package std

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// EditFileTool заменяет вхождения строки в файле внутри песочницы.
//
// По умолчанию заменяется только первое вхождение; replace_all=true
// заменяет все. Отсутствие old_string в файле — ошибка.
type EditFileTool struct {
	box         *sandbox.Dir
	description string
}

// NewEditFileTool создает инструмент редактирования файла.
func NewEditFileTool(box *sandbox.Dir, cfg config.ToolConfig) *EditFileTool {
	return &EditFileTool{
		box:         box,
		description: pickDescription(cfg, "Edit a file by replacing text strings in the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *EditFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "edit_file",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the file to edit (must be within %s)", t.box.Root()),
				},
				"old_string": map[string]any{
					"type":        "string",
					"description": "Text to search for and replace",
				},
				"new_string": map[string]any{
					"type":        "string",
					"description": "Text to replace with",
				},
				"replace_all": map[string]any{
					"type":        "boolean",
					"description": "Replace all occurrences (default: false - replace only first)",
				},
			},
			"required": []string{"file_path", "old_string", "new_string"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *EditFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FilePath   string  `json:"file_path"`
		OldString  *string `json:"old_string"`
		NewString  *string `json:"new_string"`
		ReplaceAll bool    `json:"replace_all"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.FilePath == "" {
		return "Error: file_path parameter is required", nil
	}
	if args.OldString == nil {
		return "Error: old_string parameter is required", nil
	}
	if args.NewString == nil {
		return "Error: new_string parameter is required", nil
	}

	absPath, err := t.box.Resolve(args.FilePath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only edit files within %s", t.box.Root()), nil
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: File not found - %s", args.FilePath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to edit file - %v", err), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file - %s", args.FilePath), nil
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied editing file - %s", args.FilePath), nil
		}
		return fmt.Sprintf("Error: Failed to edit file - %v", err), nil
	}
	if !utf8.Valid(raw) {
		return fmt.Sprintf("Error: Cannot decode file as UTF-8 - %s", args.FilePath), nil
	}
	content := string(raw)

	count := strings.Count(content, *args.OldString)
	if count == 0 {
		return fmt.Sprintf("Error: String '%s' not found in %s", *args.OldString, args.FilePath), nil
	}

	var newContent string
	var replacements int
	if args.ReplaceAll {
		newContent = strings.ReplaceAll(content, *args.OldString, *args.NewString)
		replacements = count
	} else {
		newContent = strings.Replace(content, *args.OldString, *args.NewString, 1)
		replacements = 1
	}

	if err := os.WriteFile(absPath, []byte(newContent), info.Mode().Perm()); err != nil {
		return fmt.Sprintf("Error: Failed to edit file - %v", err), nil
	}

	return fmt.Sprintf("Success: Replaced %d occurrence(s) in %s", replacements, args.FilePath), nil
}

// Ensure EditFileTool implements Tool
var _ tools.Tool = (*EditFileTool)(nil)
