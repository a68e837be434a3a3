// Инструмент перемещения файла в другую директорию песочницы.

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

// MoveFileTool перемещает файл в директорию назначения внутри песочницы.
//
// Отличие от rename_file: назначение — директория; имя файла
// сохраняется, если не задано new_name. Отсутствующая директория
// назначения создается.
type MoveFileTool struct {
	box         *sandbox.Dir
	description string
}

// NewMoveFileTool создает инструмент перемещения файла.
func NewMoveFileTool(box *sandbox.Dir, cfg config.ToolConfig) *MoveFileTool {
	return &MoveFileTool{
		box:         box,
		description: pickDescription(cfg, "Move a file from one directory to another within the sandbox"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *MoveFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "move_file",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"source_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the file to move (must be within %s)", t.box.Root()),
				},
				"destination_dir": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Directory to move the file to (must be within %s, created if missing)", t.box.Root()),
				},
				"new_name": map[string]any{
					"type":        "string",
					"description": "Optional: New name for the file. If not provided, keeps original name",
				},
			},
			"required": []string{"source_path", "destination_dir"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *MoveFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		SourcePath     string `json:"source_path"`
		DestinationDir string `json:"destination_dir"`
		NewName        string `json:"new_name"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.SourcePath == "" {
		return "Error: source_path parameter is required", nil
	}
	if args.DestinationDir == "" {
		return "Error: destination_dir parameter is required", nil
	}

	absSrc, err := t.box.Resolve(args.SourcePath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Source file must be within %s", t.box.Root()), nil
	}
	absDestDir, err := t.box.Resolve(args.DestinationDir)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Destination must be within %s", t.box.Root()), nil
	}

	info, err := os.Stat(absSrc)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: File not found - %s", args.SourcePath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to move file - %v", err), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: Path is not a file - %s", args.SourcePath), nil
	}

	destName := args.NewName
	if destName == "" {
		destName = filepath.Base(absSrc)
	}
	absDest := filepath.Join(absDestDir, destName)

	if _, err := os.Stat(absDest); err == nil {
		return fmt.Sprintf("Error: Destination file already exists - %s", absDest), nil
	}

	if destInfo, err := os.Stat(absDestDir); err == nil {
		if !destInfo.IsDir() {
			return fmt.Sprintf("Error: Destination path exists but is not a directory - %s", args.DestinationDir), nil
		}
	} else if err := os.MkdirAll(absDestDir, 0755); err != nil {
		return fmt.Sprintf("Error: Failed to move file - %v", err), nil
	}

	if err := os.Rename(absSrc, absDest); err != nil {
		if os.IsPermission(err) {
			return fmt.Sprintf("Error: Permission denied moving file - %s", args.SourcePath), nil
		}
		return fmt.Sprintf("Error: Failed to move file - %v", err), nil
	}

	return fmt.Sprintf("Success: Moved file '%s' to '%s'", t.box.Rel(absSrc), t.box.Rel(absDest)), nil
}

// Ensure MoveFileTool implements Tool
var _ tools.Tool = (*MoveFileTool)(nil)
