// Инструмент рекурсивного списка файлов песочницы.

package std

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// ListFilesTool рекурсивно перечисляет файлы в директории песочницы.
//
// Скрытые файлы и директории (с точкой) по умолчанию фильтруются.
type ListFilesTool struct {
	box         *sandbox.Dir
	description string
}

// NewListFilesTool создает инструмент списка файлов.
func NewListFilesTool(box *sandbox.Dir, cfg config.ToolConfig) *ListFilesTool {
	return &ListFilesTool{
		box:         box,
		description: pickDescription(cfg, "Recursively list all files in a directory within the sandbox"),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *ListFilesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "list_files",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"directory_path": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Path to the directory to list (must be within %s, defaults to the sandbox root)", t.box.Root()),
				},
				"show_hidden": map[string]any{
					"type":        "boolean",
					"description": "Whether to show hidden files and directories (defaults to false)",
				},
			},
			"required": []string{},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *ListFilesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		DirectoryPath string `json:"directory_path"`
		ShowHidden    bool   `json:"show_hidden"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	// Без пути показываем корень песочницы
	if args.DirectoryPath == "" {
		args.DirectoryPath = t.box.Root()
	}

	absDir, err := t.box.Resolve(args.DirectoryPath)
	if err != nil {
		return fmt.Sprintf("Error: Access denied. Can only list files within %s", t.box.Root()), nil
	}

	info, err := os.Stat(absDir)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Error: Directory not found - %s", args.DirectoryPath), nil
	}
	if err != nil {
		return fmt.Sprintf("Error: Failed to list files - %v", err), nil
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: Path is not a directory - %s", args.DirectoryPath), nil
	}

	var allFiles []string
	walkErr := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(d.Name(), ".") && path != absDir
		if d.IsDir() {
			if hidden && !args.ShowHidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden && !args.ShowHidden {
			return nil
		}
		allFiles = append(allFiles, path)
		return nil
	})

	if walkErr != nil {
		if os.IsPermission(walkErr) {
			return fmt.Sprintf("Error: Permission denied accessing directory - %s", args.DirectoryPath), nil
		}
		return fmt.Sprintf("Error: Failed to list files - %v", walkErr), nil
	}

	if len(allFiles) == 0 {
		return fmt.Sprintf("No files found in %s", args.DirectoryPath), nil
	}

	sort.Strings(allFiles)

	plural := "s"
	if len(allFiles) == 1 {
		plural = ""
	}
	result := fmt.Sprintf("Found %d file%s in %s:\n\n", len(allFiles), plural, args.DirectoryPath)
	result += strings.Join(allFiles, "\n")
	return result, nil
}

// Ensure ListFilesTool implements Tool
var _ tools.Tool = (*ListFilesTool)(nil)
