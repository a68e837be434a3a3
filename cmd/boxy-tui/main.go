// Boxy AI TUI — интерактивный чат-интерфейс на Bubble Tea.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/boxy-ai/pkg/chat"
	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/debug"
	"github.com/ilkoid/boxy-ai/pkg/llm/openai"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
	"github.com/ilkoid/boxy-ai/pkg/tools/std"
	"github.com/ilkoid/boxy-ai/pkg/tui"
	"github.com/ilkoid/boxy-ai/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
	modelName := flag.String("model", "", "model name from config (default: default_chat)")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	defer utils.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	modelDef, ok := cfg.GetChatModel(*modelName)
	if !ok {
		return fmt.Errorf("model %q is not defined in config", *modelName)
	}
	name := *modelName
	if name == "" {
		name = cfg.Models.DefaultChat
	}

	provider := openai.NewClient(modelDef)

	box, err := sandbox.New(cfg.Sandbox.Root)
	if err != nil {
		return fmt.Errorf("invalid sandbox root: %w", err)
	}
	if err := os.MkdirAll(box.Root(), 0755); err != nil {
		return fmt.Errorf("failed to create sandbox directory: %w", err)
	}

	registry := tools.NewRegistry()
	if err := std.RegisterAll(registry, box, cfg); err != nil {
		return err
	}

	var recorder *debug.Recorder
	if cfg.DebugLog.Enabled {
		recorder, err = debug.NewRecorder(cfg.DebugLog, modelDef.ModelName)
		if err != nil {
			return fmt.Errorf("failed to create debug recorder: %w", err)
		}
	}

	session := chat.NewSession(provider, registry, chat.Options{
		SystemPrompt:  cfg.App.SystemPrompt,
		MaxToolRounds: cfg.App.MaxToolRounds,
		Recorder:      recorder,
	})

	utils.Info("Starting TUI", "model", name)

	// Без AltScreen — позволяет выделять текст мышкой и копировать
	p := tea.NewProgram(tui.NewChatModel(session, name))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
