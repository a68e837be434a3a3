package openai

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/llm"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

func TestMapToOpenAI_ToolResult(t *testing.T) {
	msg := mapToOpenAI(llm.Message{
		Role:       llm.RoleTool,
		Content:    "Success: done",
		ToolCallID: "call_1",
		Name:       "read_file",
	})

	assert.Equal(t, "tool", msg.Role)
	assert.Equal(t, "call_1", msg.ToolCallID)
	assert.Equal(t, "read_file", msg.Name)
	assert.Equal(t, "Success: done", msg.Content)
}

func TestMapToOpenAI_AssistantToolCalls(t *testing.T) {
	msg := mapToOpenAI(llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "sort_data", Args: `{"data":"1,2"}`},
		},
	})

	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, openai.ToolTypeFunction, msg.ToolCalls[0].Type)
	assert.Equal(t, "sort_data", msg.ToolCalls[0].Function.Name)
	assert.Equal(t, `{"data":"1,2"}`, msg.ToolCalls[0].Function.Arguments)
}

func TestMapFromOpenAI_ToolCalls(t *testing.T) {
	result := mapFromOpenAI(openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_9",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "read_file",
					Arguments: `{"file_path":"/app/sandbox/a.txt"}`,
				},
			},
		},
	})

	assert.Equal(t, llm.RoleAssistant, result.Role)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_9", result.ToolCalls[0].ID)
	assert.Equal(t, "read_file", result.ToolCalls[0].Name)
}

func TestConvertToolsToOpenAI(t *testing.T) {
	defs := []tools.ToolDefinition{
		{
			Name:        "get_current_time",
			Description: "Get the current date and time",
			Parameters: tools.JSONSchema{
				"type":       "object",
				"properties": map[string]any{},
				"required":   []string{},
			},
		},
	}

	converted := convertToolsToOpenAI(defs)
	require.Len(t, converted, 1)
	assert.Equal(t, openai.ToolTypeFunction, converted[0].Type)
	assert.Equal(t, "get_current_time", converted[0].Function.Name)
}

func TestBuildRequest(t *testing.T) {
	c := NewClient(config.ModelDef{
		ModelName:   "gpt-4o-mini",
		APIKey:      "key",
		MaxTokens:   1000,
		Temperature: 0.5,
	})

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "be helpful"},
		{Role: llm.RoleUser, Content: "hi"},
	}

	req, err := c.buildRequest(messages, []tools.ToolDefinition{
		{Name: "t", Description: "d", Parameters: tools.JSONSchema{"type": "object"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, 1000, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "auto", req.ToolChoice)
}

func TestBuildRequest_InvalidToolsType(t *testing.T) {
	c := NewClient(config.ModelDef{ModelName: "m", APIKey: "key"})

	_, err := c.buildRequest(nil, "not a tools slice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tools type")
}

func TestNewClient_RateLimiter(t *testing.T) {
	// Без rate_limit лимитер не создаётся
	c := NewClient(config.ModelDef{ModelName: "m", APIKey: "key"})
	assert.Nil(t, c.limiter)

	c = NewClient(config.ModelDef{ModelName: "m", APIKey: "key", RateLimit: 60, BurstLimit: 5})
	require.NotNil(t, c.limiter)
	assert.Equal(t, 5, c.limiter.Burst())
}
