// Package debug записывает JSON-трейс чат-сессии для пост-анализа.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/llm"
)

// Recorder накапливает трейс чат-сессии и сбрасывает его в JSON файл
// после каждого завершенного хода.
//
// Потокобезопасен — может использоваться из разных горутин.
type Recorder struct {
	mu sync.Mutex

	// config — конфигурация записи
	config config.DebugLogConfig

	// log — накапливаемый трейс сессии
	log SessionLog

	// currentTurn — текущий ход (заполняется по мере выполнения)
	currentTurn *Turn

	// turnStart — момент начала текущего хода
	turnStart time.Time

	// visitedTools — множество уникальных инструментов
	visitedTools map[string]struct{}

	// errors — накопленные ошибки выполнения
	errors []string
}

// NewRecorder создает Recorder согласно конфигурации.
//
// Если директория логов не существует, пытается создать её.
func NewRecorder(cfg config.DebugLogConfig, model string) (*Recorder, error) {
	if cfg.Dir == "" {
		cfg.Dir = config.DefaultDebugLogDir
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create debug log directory: %w", err)
	}

	// Timestamp для сортировки по имени, uuid-суффикс против коллизий
	// параллельных запусков
	runID := fmt.Sprintf("chat_%s_%s",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8])

	return &Recorder{
		config: cfg,
		log: SessionLog{
			RunID:     runID,
			Timestamp: time.Now(),
			Model:     model,
		},
		visitedTools: make(map[string]struct{}),
	}, nil
}

// StartTurn начинает запись нового хода диалога.
func (r *Recorder) StartTurn(userInput string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentTurn = &Turn{
		Number:    len(r.log.Turns) + 1,
		UserInput: userInput,
	}
	r.turnStart = time.Now()
}

// RecordToolExecution записывает один вызов инструмента в текущем ходе.
func (r *Recorder) RecordToolExecution(name, args, result string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentTurn == nil {
		return
	}

	exec := ToolExecution{
		Name:     name,
		Duration: duration.Milliseconds(),
	}
	if r.config.IncludeToolArgs {
		exec.Args = args
	}
	if r.config.IncludeToolResults {
		exec.Result = result
		if r.config.MaxResultSize > 0 && len(exec.Result) > r.config.MaxResultSize {
			exec.Result = exec.Result[:r.config.MaxResultSize] + "... (truncated)"
			exec.ResultTruncated = true
		}
	}

	r.currentTurn.ToolsExecuted = append(r.currentTurn.ToolsExecuted, exec)
	r.visitedTools[name] = struct{}{}
}

// RecordToolRound отмечает завершение одного раунда вызова инструментов.
func (r *Recorder) RecordToolRound() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentTurn != nil {
		r.currentTurn.ToolRounds++
	}
}

// EndTurn завершает ход и сбрасывает весь трейс на диск.
//
// History дампится целиком — это снимок состояния диалога, а не дельта.
func (r *Recorder) EndTurn(finalResponse string, history []llm.Message, turnErr error) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentTurn == nil {
		return "", fmt.Errorf("no turn in progress")
	}

	r.currentTurn.FinalResponse = finalResponse
	r.currentTurn.Duration = time.Since(r.turnStart).Milliseconds()
	if turnErr != nil {
		r.currentTurn.Error = turnErr.Error()
		r.errors = append(r.errors, fmt.Sprintf("turn %d: %s", r.currentTurn.Number, turnErr))
	}

	r.log.Turns = append(r.log.Turns, *r.currentTurn)
	r.currentTurn = nil
	r.log.History = history
	r.buildSummary()

	data, err := json.MarshalIndent(r.log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal debug log: %w", err)
	}

	filePath := filepath.Join(r.config.Dir, r.log.RunID+".json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write debug log: %w", err)
	}
	return filePath, nil
}

// buildSummary пересчитывает агрегированную статистику.
func (r *Recorder) buildSummary() {
	summary := Summary{
		TotalTurns:   len(r.log.Turns),
		VisitedTools: make([]string, 0, len(r.visitedTools)),
		Errors:       r.errors,
	}

	for tool := range r.visitedTools {
		summary.VisitedTools = append(summary.VisitedTools, tool)
	}
	sort.Strings(summary.VisitedTools)

	for _, turn := range r.log.Turns {
		summary.TotalToolsExecuted += len(turn.ToolsExecuted)
	}

	r.log.Summary = summary
}

// RunID возвращает идентификатор текущей сессии.
func (r *Recorder) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.RunID
}
