// Инструмент записи файла в песочницу.

package std

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// WriteFileTool записывает содержимое в файл внутри песочницы.
//
// Режим "w" перезаписывает файл, "a" дописывает в конец. Перезапись
// всегда явная — через mode, молчаливых столкновений тут нет по
// определению операции.
type WriteFileTool struct {
	box         *sandbox.Dir
	description string
}

// NewWriteFileTool создает инструмент записи файла.
func NewWriteFileTool(box *sandbox.Dir, cfg config.ToolConfig) *WriteFileTool {
	return &WriteFileTool{
		box:         box,
		description: pickDescription(cfg, "Write content to a file in the sandbox directory"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *WriteFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "write_file",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the file to write (must be within %s)", t.box.Root()),
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Content to write to the file",
				},
				"mode": map[string]any{
					"type":        "string",
					"description": "Write mode: 'w' to overwrite (default) or 'a' to append",
					"enum":        []string{"w", "a"},
				},
			},
			"required": []string{"file_path", "content"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *WriteFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		FilePath string  `json:"file_path"`
		Content  *string `json:"content"`
		Mode     string  `json:"mode"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.FilePath == "" {
		return "Error: file_path parameter is required", nil
	}
	if args.Content == nil {
		return "Error: content parameter is required", nil
	}
	if args.Mode == "" {
		args.Mode = "w"
	}
	if args.Mode != "w" && args.Mode != "a" {
		return "Error: mode must be 'w' (write/overwrite) or 'a' (append)", nil
	}

	absPath, err := t.box.Resolve(args.FilePath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only write files within %s", t.box.Root()), nil
	}

	// Создаём родительскую директорию если её нет
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Sprintf("Error: Failed to create directory or write file - %v", err), nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	action := "written to"
	if args.Mode == "a" {
		flags |= os.O_APPEND
		action = "appended to"
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(absPath, flags, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied writing to file - %s", args.FilePath), nil
		}
		return fmt.Sprintf("Error: Failed to write file - %v", err), nil
	}
	defer f.Close()

	if _, err := f.WriteString(*args.Content); err != nil {
		return fmt.Sprintf("Error: Failed to write file - %v", err), nil
	}

	size := humanize.Bytes(uint64(len(*args.Content)))
	return fmt.Sprintf("Success: Content %s %s (%s)", action, args.FilePath, size), nil
}

// Ensure WriteFileTool implements Tool
var _ tools.Tool = (*WriteFileTool)(nil)
