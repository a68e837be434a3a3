// Инструмент сортировки списков чисел и строк.

package std

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ilkoid/boxy-ai/pkg/config"
	"github.com/ilkoid/boxy-ai/pkg/tools"
)

// SortDataTool сортирует переданный список чисел или строк.
//
// Вход принимается в трех формах: JSON-массив, строка с запятыми,
// строка с переводами строк. numeric=true требует, чтобы числами были
// все элементы; иначе это ошибка, а не тихий откат к текстовому
// сравнению.
type SortDataTool struct {
	description string
}

// NewSortDataTool создает инструмент сортировки данных.
func NewSortDataTool(cfg config.ToolConfig) *SortDataTool {
	return &SortDataTool{
		description: pickDescription(cfg, "Sort data in ascending or descending order. Supports numbers, text, JSON arrays, and comma/newline separated values."),
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *SortDataTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "sort_data",
		Description: t.description,
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"data": map[string]any{
					"type":        "string",
					"description": "Data to sort - can be JSON array, comma-separated values, or newline-separated values",
				},
				"order": map[string]any{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order: 'asc' for ascending, 'desc' for descending",
				},
				"numeric": map[string]any{
					"type":        "boolean",
					"description": "Whether to sort as numbers (true) or text (false)",
				},
				"case_sensitive": map[string]any{
					"type":        "boolean",
					"description": "Whether sorting should be case-sensitive",
				},
			},
			"required": []string{"data"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *SortDataTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Data          string `json:"data"`
		Order         string `json:"order"`
		Numeric       bool   `json:"numeric"`
		CaseSensitive bool   `json:"case_sensitive"`
	}
	if err := decodeArgs(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if args.Data == "" {
		return "Error: No data provided to sort", nil
	}
	// Любое значение кроме "desc" трактуется как возрастание
	desc := strings.ToLower(args.Order) == "desc"

	items, errStr := splitItems(args.Data)
	if errStr != "" {
		return errStr, nil
	}
	if len(items) == 0 {
		return "Error: No data to sort", nil
	}

	if args.Numeric {
		numbers := make([]float64, len(items))
		for i, item := range items {
			n, err := strconv.ParseFloat(strings.TrimSpace(item), 64)
			if err != nil {
				return "Error: Could not convert data to numbers for numeric sorting", nil
			}
			numbers[i] = n
		}
		sort.Float64s(numbers)
		if desc {
			reverse(numbers)
		}
		return formatNumbers(numbers), nil
	}

	sorted := make([]string, len(items))
	copy(sorted, items)
	if args.CaseSensitive {
		sort.Strings(sorted)
	} else {
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
		})
	}
	if desc {
		reverse(sorted)
	}
	return strings.Join(sorted, ", "), nil
}

// splitItems разбирает входные данные. Сначала пробуем JSON: валидный
// JSON-массив принимается, валидный JSON другого типа — ошибка.
// Невалидный JSON трактуется как список с запятыми или переводами строк.
func splitItems(data string) ([]string, string) {
	var parsed any
	if err := json.Unmarshal([]byte(data), &parsed); err == nil {
		raw, ok := parsed.([]any)
		if !ok {
			return nil, "Error: JSON data must be a list/array"
		}
		items := make([]string, 0, len(raw))
		for _, v := range raw {
			switch x := v.(type) {
			case string:
				items = append(items, x)
			case float64:
				items = append(items, strconv.FormatFloat(x, 'f', -1, 64))
			default:
				items = append(items, fmt.Sprint(x))
			}
		}
		return items, ""
	}

	sep := "\n"
	if strings.Contains(data, ",") {
		sep = ","
	}

	var items []string
	for _, part := range strings.Split(data, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items, ""
}

// formatNumbers выводит числа JSON-массивом, целые без дробной части.
func formatNumbers(numbers []float64) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Ensure SortDataTool implements Tool
var _ tools.Tool = (*SortDataTool)(nil)
