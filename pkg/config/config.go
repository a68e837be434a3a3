package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models   ModelsConfig          `yaml:"models"`
	Tools    map[string]ToolConfig `yaml:"tools"`
	Sandbox  SandboxConfig         `yaml:"sandbox"`
	DebugLog DebugLogConfig        `yaml:"debug_log"`
	App      AppSpecific           `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас модели для чата по умолчанию
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "zai" и т.д.
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL     string        `yaml:"base_url"`   // Custom endpoint для OpenAI-совместимых API
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`     // Go умеет парсить строки вида "60s", "1m"
	RateLimit   int           `yaml:"rate_limit"`  // Запросов в минуту (0 = без лимита)
	BurstLimit  int           `yaml:"burst_limit"` // Burst для rate limiter
}

// ToolConfig — настройки инструментов.
//
// Enabled — указатель: отсутствие поля в YAML не то же самое что
// enabled: false, иначе запись с одним description выключала бы инструмент.
type ToolConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	Description string `yaml:"description"` // Override описания для LLM (опционально)
}

// SandboxConfig — песочница для файловых инструментов.
//
// Все file-инструменты работают только внутри Root.
type SandboxConfig struct {
	Root string `yaml:"root"`
}

// DebugLogConfig — настройки JSON дампа истории диалога.
type DebugLogConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Dir                string `yaml:"dir"`
	IncludeToolArgs    bool   `yaml:"include_tool_args"`
	IncludeToolResults bool   `yaml:"include_tool_results"`
	MaxResultSize      int    `yaml:"max_result_size"` // 0 = без ограничений
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug         bool            `yaml:"debug"`
	SystemPrompt  string          `yaml:"system_prompt"`
	MaxToolRounds int             `yaml:"max_tool_rounds"` // Лимит tool-раундов за один ход (защита от бесконечного цикла)
	Streaming     StreamingConfig `yaml:"streaming"`
}

// StreamingConfig — настройки потокового вывода.
type StreamingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Дефолты для незаполненных полей.
const (
	DefaultSandboxRoot   = "/app/sandbox"
	DefaultMaxToolRounds = 10
	DefaultSystemPrompt  = "You are a helpful AI assistant. Be concise and clear in your responses."
	DefaultDebugLogDir   = "logs"
)

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Заполняем дефолты и валидируем критические настройки
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults заполняет незаданные поля дефолтными значениями.
func (c *AppConfig) applyDefaults() {
	if c.Sandbox.Root == "" {
		c.Sandbox.Root = DefaultSandboxRoot
	}
	if c.App.MaxToolRounds == 0 {
		c.App.MaxToolRounds = DefaultMaxToolRounds
	}
	if c.App.SystemPrompt == "" {
		c.App.SystemPrompt = DefaultSystemPrompt
	}
	if c.DebugLog.Dir == "" {
		c.DebugLog.Dir = DefaultDebugLogDir
	}
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat == "" {
		return fmt.Errorf("models.default_chat is required")
	}
	if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
		return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
	}
	return nil
}

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// ToolEnabled проверяет включен ли инструмент.
//
// Инструменты без записи в секции tools считаются включенными —
// выключение всегда явное (enabled: false).
func (c *AppConfig) ToolEnabled(name string) bool {
	tc, ok := c.Tools[name]
	if !ok || tc.Enabled == nil {
		return true
	}
	return *tc.Enabled
}
