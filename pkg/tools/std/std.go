// Package std содержит стандартные инструменты Boxy AI.
//
// Все файловые инструменты работают через общую песочницу sandbox.Dir:
// любой путь за её пределами отклоняется с "Error: Access denied".
// Контракт "Raw In, String Out": ошибки валидации и файловых операций
// возвращаются строками с префиксом "Error:", успехи — "Success:".
package std

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// decodeArgs парсит сырой JSON аргументов в типизированную структуру.
//
// Пустая строка трактуется как пустой объект — инструменты без
// обязательных параметров можно вызывать без аргументов.
func decodeArgs(argsJSON string, v any) error {
	if argsJSON == "" {
		argsJSON = "{}"
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(argsJSON)))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// pickDescription возвращает описание из конфига или дефолтное.
//
// Описания инструментов можно переопределить в секции tools config.yaml.
func pickDescription(cfg config.ToolConfig, fallback string) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return fallback
}

// RegisterAll регистрирует все встроенные инструменты в реестре.
//
// Явный список вместо динамического сканирования: в статически
// типизированном мире каждый инструмент — конкретная реализация
// tools.Tool, собираемая на старте процесса. Инструменты, выключенные
// в конфиге (enabled: false), пропускаются.
func RegisterAll(registry *tools.Registry, box *sandbox.Dir, cfg *config.AppConfig) error {
	toolCfg := func(name string) config.ToolConfig {
		return cfg.Tools[name]
	}

	all := []tools.Tool{
		NewReadFileTool(box, toolCfg("read_file")),
		NewWriteFileTool(box, toolCfg("write_file")),
		NewEditFileTool(box, toolCfg("edit_file")),
		NewListFilesTool(box, toolCfg("list_files")),
		NewCreateDirectoryTool(box, toolCfg("create_directory")),
		NewDeleteDirectoryTool(box, toolCfg("delete_directory")),
		NewDeleteFileTool(box, toolCfg("delete_file")),
		NewRenameFileTool(box, toolCfg("rename_file")),
		NewRenameDirectoryTool(box, toolCfg("rename_directory")),
		NewMoveFileTool(box, toolCfg("move_file")),
		NewSortDataTool(toolCfg("sort_data")),
		NewCurrentTimeTool(toolCfg("get_current_time")),
	}

	for _, t := range all {
		name := t.Definition().Name
		if !cfg.ToolEnabled(name) {
			continue
		}
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("failed to register tool '%s': %w", name, err)
		}
	}
	return nil
}
