package openaicompat

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/spetersoncode/polli"
)

func convertTools(tools []polli.Tool) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		var params shared.FunctionParameters
		if len(t.Parameters) > 0 {
			// Schemas come from tool.SchemaFor and are always objects.
			_ = json.Unmarshal(t.Parameters, &params)
		}
		fn := shared.FunctionDefinitionParam{
			Name:       t.Name,
			Parameters: params,
		}
		if t.Description != "" {
			fn.Description = openai.String(t.Description)
		}
		result[i] = openai.ChatCompletionToolParam{Function: fn}
	}
	return result
}

func convertToolChoice(choice any) openai.ChatCompletionToolChoiceOptionUnionParam {
	switch v := choice.(type) {
	case polli.ToolChoice:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String(string(v))}
	case string:
		return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String(v)}
	case map[string]any:
		fn, _ := v["function"].(map[string]any)
		if name, ok := fn["name"].(string); ok {
			return openai.ChatCompletionToolChoiceOptionUnionParam{
				OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
					Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: name},
				},
			}
		}
	}
	return openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String(string(polli.ToolChoiceAuto))}
}

func extractToolCalls(msg openai.ChatCompletionMessage) []polli.ToolCall {
	if len(msg.ToolCalls) == 0 {
		return nil
	}
	result := make([]polli.ToolCall, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		result[i] = polli.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	}
	return result
}
