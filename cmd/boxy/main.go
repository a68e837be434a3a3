// Boxy AI — чат с LLM и файловыми инструментами в терминале.
// Точка входа для REPL и одиночных сообщений.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilkoid/boxy-ai/pkg/chat"
	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/debug"
	"github.com/ilkoid/boxy-ai/pkg/llm"
	"github.com/ilkoid/boxy-ai/pkg/llm/openai"
	"github.com/ilkoid/boxy-ai/pkg/sandbox"
	"github.com/ilkoid/boxy-ai/pkg/tools"
	"github.com/ilkoid/boxy-ai/pkg/tools/std"
	"github.com/ilkoid/boxy-ai/pkg/utils"
)

// chatApp — собранные компоненты одного запуска.
type chatApp struct {
	cfg       *config.AppConfig
	session   *chat.Session
	registry  *tools.Registry
	modelName string
	timeout   time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
	modelName := flag.String("model", "", "model name from config (default: default_chat)")
	debugOn := flag.Bool("debug", false, "force debug log on")
	debugOff := flag.Bool("no-debug", false, "force debug log off")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	defer utils.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	utils.Info("Config loaded", "path", *configPath, "default_model", cfg.Models.DefaultChat)

	// Флаги перебивают config
	if *debugOn {
		cfg.DebugLog.Enabled = true
	}
	if *debugOff {
		cfg.DebugLog.Enabled = false
	}

	app, err := buildApp(cfg, *modelName)
	if err != nil {
		return err
	}

	// Одиночное сообщение: boxy "what time is it"
	if flag.NArg() > 0 {
		return app.sendOne(strings.Join(flag.Args(), " "))
	}

	return app.repl()
}

// buildApp собирает приложение: провайдер, песочница, инструменты, рекордер.
func buildApp(cfg *config.AppConfig, modelName string) (*chatApp, error) {
	modelDef, ok := cfg.GetChatModel(modelName)
	if !ok {
		return nil, fmt.Errorf("model %q is not defined in config", modelName)
	}
	name := modelName
	if name == "" {
		name = cfg.Models.DefaultChat
	}

	provider := openai.NewClient(modelDef)

	box, err := sandbox.New(cfg.Sandbox.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid sandbox root: %w", err)
	}
	if err := os.MkdirAll(box.Root(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create sandbox directory: %w", err)
	}

	registry := tools.NewRegistry()
	if err := std.RegisterAll(registry, box, cfg); err != nil {
		return nil, err
	}
	utils.Info("Tools registered", "count", len(registry.List()), "sandbox", box.Root())

	var recorder *debug.Recorder
	if cfg.DebugLog.Enabled {
		recorder, err = debug.NewRecorder(cfg.DebugLog, modelDef.ModelName)
		if err != nil {
			return nil, fmt.Errorf("failed to create debug recorder: %w", err)
		}
		utils.Info("Debug log enabled", "run_id", recorder.RunID())
	}

	session := chat.NewSession(provider, registry, chat.Options{
		SystemPrompt:  cfg.App.SystemPrompt,
		MaxToolRounds: cfg.App.MaxToolRounds,
		Recorder:      recorder,
	})

	return &chatApp{
		cfg:       cfg,
		session:   session,
		registry:  registry,
		modelName: name,
		timeout:   modelDef.Timeout,
	}, nil
}

// sendOne отправляет одно сообщение и печатает ответ.
func (a *chatApp) sendOne(message string) error {
	ctx := context.Background()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if a.cfg.App.Streaming.Enabled {
		_, err := a.session.SendStream(ctx, message, printChunk)
		fmt.Println()
		return err
	}

	result, err := a.session.Send(ctx, message)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

// repl запускает интерактивный цикл чтения сообщений.
func (a *chatApp) repl() error {
	fmt.Printf("Boxy AI — model %s, sandbox %s\n", a.modelName, a.cfg.Sandbox.Root)
	fmt.Printf("Tools: %s\n", strings.Join(a.registry.List(), ", "))
	fmt.Println("Commands: 'reset' clears history, 'exit' quits")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit", "q":
			return nil
		case "reset":
			a.session.Reset()
			fmt.Println("Conversation history cleared.")
			continue
		}

		if err := a.sendOne(input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
	}
}

// printChunk печатает потоковые чанки по мере поступления.
func printChunk(chunk llm.StreamChunk) {
	switch chunk.Type {
	case llm.ChunkContent:
		fmt.Print(chunk.Delta)
	case llm.ChunkToolCall:
		fmt.Print("\n" + chunk.Delta)
	}
}
