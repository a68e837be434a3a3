// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Поддерживает Function Calling (tools) и потоковую передачу ответа.
// Работает только через интерфейсы llm.Provider / llm.StreamingProvider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/llm"
	"github.com/ilkoid/boxy-ai/pkg/tools"
	"github.com/ilkoid/boxy-ai/pkg/utils"
)

// Client реализует интерфейсы llm.Provider и llm.StreamingProvider
// для OpenAI-совместимых API.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float64

	// limiter ограничивает частоту запросов к API (nil = без лимита)
	limiter *rate.Limiter
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов.
// Все настройки из конфигурации, никакого хардкода.
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров (Zai, DeepSeek и т.д.)
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	client := &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       modelDef.ModelName,
		maxTokens:   modelDef.MaxTokens,
		temperature: modelDef.Temperature,
	}

	// rate_limit задаётся в запросах/минуту
	if modelDef.RateLimit > 0 {
		burst := modelDef.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		ratePerSec := float64(modelDef.RateLimit) / 60.0
		client.limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}

	return client
}

// Generate выполняет запрос к API и возвращает ответ модели.
//
// Поддерживает опциональную передачу definitions инструментов для
// Function Calling: opts[0] должен быть []tools.ToolDefinition.
//
// Алгоритм:
//  1. Конвертирует внутренние сообщения в формат OpenAI SDK
//  2. Если переданы tools — добавляет их в запрос (tool_choice=auto)
//  3. Вызывает API
//  4. Конвертирует ответ обратно в наш формат
//  5. Извлекает ToolCalls если модель решила вызвать функции
//
// Ошибки API возвращаются обёрнутыми, никаких panic.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts ...any) (llm.Message, error) {
	startTime := time.Now()

	req, err := c.buildRequest(messages, opts...)
	if err != nil {
		return llm.Message{}, err
	}

	if err := c.wait(ctx); err != nil {
		return llm.Message{}, err
	}

	utils.Debug("LLM request started",
		"model", c.model,
		"messages_count", len(messages),
		"tools_count", len(req.Tools))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", c.model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	result := mapFromOpenAI(resp.Choices[0].Message)

	utils.Info("LLM response received",
		"model", c.model,
		"tool_calls_count", len(result.ToolCalls),
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// GenerateStream выполняет запрос с потоковой передачей ответа.
//
// Текстовые дельты отдаются в callback по мере поступления. Фрагменты
// tool calls накапливаются по индексу и попадают в финальное сообщение —
// стриминговый и обычный путь изоморфны, отличается только способ
// выдачи текста.
func (c *Client) GenerateStream(ctx context.Context, messages []llm.Message, callback func(llm.StreamChunk), opts ...any) (llm.Message, error) {
	startTime := time.Now()

	req, err := c.buildRequest(messages, opts...)
	if err != nil {
		return llm.Message{}, err
	}
	req.Stream = true

	if err := c.wait(ctx); err != nil {
		return llm.Message{}, err
	}

	utils.Debug("LLM stream started",
		"model", c.model,
		"messages_count", len(messages),
		"tools_count", len(req.Tools))

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return llm.Message{}, fmt.Errorf("openai stream error: %w", err)
	}
	defer stream.Close()

	var (
		accumulated string
		// Фрагменты tool calls приходят частями, индекс склеивает их
		toolCalls []llm.ToolCall
	)

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			callback(llm.StreamChunk{Type: llm.ChunkError, Error: err})
			return llm.Message{}, fmt.Errorf("openai stream recv error: %w", err)
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta

		if delta.Content != "" {
			accumulated += delta.Content
			callback(llm.StreamChunk{
				Type:    llm.ChunkContent,
				Content: accumulated,
				Delta:   delta.Content,
			})
		}

		for _, tc := range delta.ToolCalls {
			idx := 0
			if tc.Index != nil {
				idx = *tc.Index
			}
			for len(toolCalls) <= idx {
				toolCalls = append(toolCalls, llm.ToolCall{})
			}
			if tc.ID != "" {
				toolCalls[idx].ID = tc.ID
			}
			if tc.Function.Name != "" {
				toolCalls[idx].Name = tc.Function.Name
			}
			toolCalls[idx].Args += tc.Function.Arguments
		}
	}

	result := llm.Message{
		Role:      llm.RoleAssistant,
		Content:   accumulated,
		ToolCalls: toolCalls,
	}

	utils.Info("LLM stream finished",
		"model", c.model,
		"tool_calls_count", len(result.ToolCalls),
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// buildRequest собирает ChatCompletionRequest из истории и опций.
func (c *Client) buildRequest(messages []llm.Message, opts ...any) (openai.ChatCompletionRequest, error) {
	openaiMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		openaiMsgs[i] = mapToOpenAI(m)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openaiMsgs,
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	}

	// Ожидаем opts[0] = []tools.ToolDefinition
	if len(opts) > 0 {
		toolDefs, ok := opts[0].([]tools.ToolDefinition)
		if !ok {
			return openai.ChatCompletionRequest{}, fmt.Errorf("invalid tools type: expected []tools.ToolDefinition, got %T", opts[0])
		}

		req.Tools = convertToolsToOpenAI(toolDefs)

		// Автоматический режим — LLM сама решает когда вызывать tools
		if len(req.Tools) > 0 {
			req.ToolChoice = "auto"
		}
	}

	return req, nil
}

// wait блокируется на rate limiter, если он настроен.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}

	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make([]openai.ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			msg.ToolCalls[i] = openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Args,
				},
			}
		}
	}

	return msg
}

// mapFromOpenAI конвертирует ответ SDK обратно в наш формат.
func mapFromOpenAI(choice openai.ChatCompletionMessage) llm.Message {
	result := llm.Message{
		Role:    llm.Role(choice.Role),
		Content: choice.Content,
	}

	if len(choice.ToolCalls) > 0 {
		result.ToolCalls = make([]llm.ToolCall, len(choice.ToolCalls))
		for i, tc := range choice.ToolCalls {
			result.ToolCalls[i] = llm.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: tc.Function.Arguments,
			}
		}
	}

	return result
}

// convertToolsToOpenAI конвертирует определения инструментов во внутреннем
// формате в формат OpenAI Function Calling.
//
// Поскольку ToolDefinition.Parameters уже является JSON Schema объектом,
// он напрямую передаётся в OpenAI SDK.
func convertToolsToOpenAI(defs []tools.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(defs))

	for i, def := range defs {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}

	return result
}

// Ensure Client implements both provider interfaces
var (
	_ llm.Provider          = (*Client)(nil)
	_ llm.StreamingProvider = (*Client)(nil)
)
