package debug

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/llm"
)

func newRecorder(t *testing.T, cfg config.DebugLogConfig) *Recorder {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = t.TempDir()
	}
	r, err := NewRecorder(cfg, "test-model")
	require.NoError(t, err)
	return r
}

func TestRecorder_FullTurn(t *testing.T) {
	r := newRecorder(t, config.DebugLogConfig{
		IncludeToolArgs:    true,
		IncludeToolResults: true,
	})

	r.StartTurn("what time is it")
	r.RecordToolRound()
	r.RecordToolExecution("get_current_time", "{}", "2026-08-26 12:00:00 UTC", 5*time.Millisecond)

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "what time is it"},
		{Role: llm.RoleAssistant, Content: "It is noon."},
	}
	path, err := r.EndTurn("It is noon.", history, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var log SessionLog
	require.NoError(t, json.Unmarshal(data, &log))

	assert.Equal(t, r.RunID(), log.RunID)
	assert.Equal(t, "test-model", log.Model)
	require.Len(t, log.Turns, 1)
	assert.Equal(t, 1, log.Turns[0].Number)
	assert.Equal(t, "what time is it", log.Turns[0].UserInput)
	assert.Equal(t, 1, log.Turns[0].ToolRounds)
	require.Len(t, log.Turns[0].ToolsExecuted, 1)
	assert.Equal(t, "get_current_time", log.Turns[0].ToolsExecuted[0].Name)
	assert.Equal(t, "{}", log.Turns[0].ToolsExecuted[0].Args)
	assert.Len(t, log.History, 2)
	assert.Equal(t, 1, log.Summary.TotalTurns)
	assert.Equal(t, 1, log.Summary.TotalToolsExecuted)
	assert.Equal(t, []string{"get_current_time"}, log.Summary.VisitedTools)
}

func TestRecorder_ExcludesArgsAndResults(t *testing.T) {
	r := newRecorder(t, config.DebugLogConfig{})

	r.StartTurn("read my secrets")
	r.RecordToolExecution("read_file", `{"file_path":"/app/sandbox/secret"}`, "hunter2", time.Millisecond)
	path, err := r.EndTurn("done", nil, nil)
	require.NoError(t, err)

	data, _ := os.ReadFile(path)
	var log SessionLog
	require.NoError(t, json.Unmarshal(data, &log))

	exec := log.Turns[0].ToolsExecuted[0]
	assert.Empty(t, exec.Args)
	assert.Empty(t, exec.Result)
}

func TestRecorder_TruncatesLargeResults(t *testing.T) {
	r := newRecorder(t, config.DebugLogConfig{
		IncludeToolResults: true,
		MaxResultSize:      10,
	})

	r.StartTurn("q")
	r.RecordToolExecution("read_file", "", strings.Repeat("x", 100), time.Millisecond)
	path, err := r.EndTurn("done", nil, nil)
	require.NoError(t, err)

	data, _ := os.ReadFile(path)
	var log SessionLog
	require.NoError(t, json.Unmarshal(data, &log))

	exec := log.Turns[0].ToolsExecuted[0]
	assert.Equal(t, strings.Repeat("x", 10)+"... (truncated)", exec.Result)
	assert.True(t, exec.ResultTruncated)
}

func TestRecorder_TurnError(t *testing.T) {
	r := newRecorder(t, config.DebugLogConfig{})

	r.StartTurn("q")
	path, err := r.EndTurn("", nil, errors.New("tool round limit exceeded"))
	require.NoError(t, err)

	data, _ := os.ReadFile(path)
	var log SessionLog
	require.NoError(t, json.Unmarshal(data, &log))

	assert.Equal(t, "tool round limit exceeded", log.Turns[0].Error)
	require.Len(t, log.Summary.Errors, 1)
	assert.Contains(t, log.Summary.Errors[0], "turn 1")
}

func TestRecorder_EndTurnWithoutStart(t *testing.T) {
	r := newRecorder(t, config.DebugLogConfig{})

	_, err := r.EndTurn("x", nil, nil)
	assert.Error(t, err)
}

func TestRecorder_UniqueRunIDs(t *testing.T) {
	dir := t.TempDir()
	a := newRecorder(t, config.DebugLogConfig{Dir: dir})
	b := newRecorder(t, config.DebugLogConfig{Dir: dir})

	assert.NotEqual(t, a.RunID(), b.RunID())
}
