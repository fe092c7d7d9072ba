package openaicompat

import (
	"fmt"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/polli"
)

func convertMessages(messages []polli.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	var result []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case polli.RoleUser:
			if msg.HasParts() {
				parts, err := convertParts(msg.Parts)
				if err != nil {
					return nil, err
				}
				result = append(result, openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfArrayOfContentParts: parts,
						},
					},
				})
			} else {
				result = append(result, openai.UserMessage(msg.Content))
			}
		case polli.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				result = append(result, openai.AssistantMessage(msg.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCalls}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case polli.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case polli.RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			return nil, fmt.Errorf("openai: unsupported message role %q", msg.Role)
		}
	}
	return result, nil
}

func convertParts(parts []polli.ContentPart) ([]openai.ChatCompletionContentPartUnionParam, error) {
	result := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case polli.ContentPartTypeText:
			result = append(result, openai.TextContentPart(part.Text))
		case polli.ContentPartTypeImageURL:
			if part.ImageURL == nil {
				return nil, fmt.Errorf("openai: image_url part without url")
			}
			result = append(result, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: part.ImageURL.URL,
			}))
		case polli.ContentPartTypeInputAudio:
			if part.InputAudio == nil {
				return nil, fmt.Errorf("openai: input_audio part without data")
			}
			result = append(result, openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
				Data:   part.InputAudio.Data,
				Format: part.InputAudio.Format,
			}))
		default:
			return nil, fmt.Errorf("openai: unsupported content part %q", part.Type)
		}
	}
	return result, nil
}
