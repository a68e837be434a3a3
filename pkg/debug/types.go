package debug

import (
	"time"

	"github.com/ilkoid/boxy-ai/pkg/llm"
)

// SessionLog — полный трейс одной чат-сессии для пост-анализа.
//
// Сериализуется в JSON после каждого завершенного хода, чтобы лог
// оставался полезным даже при аварийном завершении процесса.
type SessionLog struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`

	// Turns — завершенные ходы диалога
	Turns []Turn `json:"turns"`

	// History — полная история сообщений на момент последнего дампа
	History []llm.Message `json:"history"`

	Summary Summary `json:"summary"`
}

// Turn — один ход диалога: запрос пользователя, циклы инструментов, ответ.
type Turn struct {
	Number    int    `json:"number"`
	UserInput string `json:"user_input"`

	// ToolRounds — сколько раундов вызова инструментов потребовалось
	ToolRounds int `json:"tool_rounds"`

	// ToolsExecuted — вызовы инструментов в порядке выполнения
	ToolsExecuted []ToolExecution `json:"tools_executed,omitempty"`

	FinalResponse string `json:"final_response"`
	Duration      int64  `json:"duration_ms"`
	Error         string `json:"error,omitempty"`
}

// ToolExecution — один вызов инструмента внутри хода.
type ToolExecution struct {
	Name            string `json:"name"`
	Args            string `json:"args,omitempty"`
	Result          string `json:"result,omitempty"`
	ResultTruncated bool   `json:"result_truncated,omitempty"`
	Duration        int64  `json:"duration_ms"`
}

// Summary — агрегированная статистика по сессии.
type Summary struct {
	TotalTurns         int      `json:"total_turns"`
	TotalToolsExecuted int      `json:"total_tools_executed"`
	VisitedTools       []string `json:"visited_tools"`
	Errors             []string `json:"errors,omitempty"`
}
