package client

import (
	"context"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/event"
	"github.com/spetersoncode/polli/tool"
)

// ChatWithTools runs a bounded tool-calling conversation. Each round posts
// the history with the tool specs; when the model requests tools, every
// call is executed through exec and answered with a tool message before the
// next round. The loop ends when the model stops calling tools or after
// polli.WithMaxRounds rounds (default 1), returning the last response.
//
// Handler failures are reported to the model, never to the caller. exec
// may be a *tool.Registry or a tool.Handlers map; nil answers every call
// with a "no handler" error.
func (c *Client) ChatWithTools(ctx context.Context, messages []polli.Message, tools []polli.Tool, exec tool.Executor, opts ...polli.Option) (*polli.Response, error) {
	return c.ChatWithToolsEvents(ctx, messages, tools, exec, nil, opts...)
}

// ChatWithToolsEvents is ChatWithTools reporting progress on events.
// Sends never block; a full channel drops events.
func (c *Client) ChatWithToolsEvents(ctx context.Context, messages []polli.Message, tools []polli.Tool, exec tool.Executor, events chan<- event.Event, opts ...polli.Option) (*polli.Response, error) {
	if len(messages) == 0 {
		return nil, polli.NewUserInputError("chat_tools", polli.ErrEmptyMessages)
	}
	if len(tools) == 0 {
		return nil, polli.NewUserInputError("chat_tools", polli.ErrEmptyTools)
	}
	if exec == nil {
		exec = tool.Handlers{}
	}

	o := c.options(opts)
	seed := seedOr(o.Seed)
	o.Seed = &seed
	maxRounds := 1
	if o.MaxRounds != nil {
		maxRounds = max(*o.MaxRounds, 0)
	}
	var choice any = polli.ToolChoiceAuto
	if o.ToolChoice != nil {
		choice = o.ToolChoice
	}

	event.Emit(events, event.Event{Type: event.RunStart})
	history := append([]polli.Message(nil), messages...)

	for round := 0; ; round++ {
		r, err := c.chatRequest("chat_tools", history, o)
		if err != nil {
			event.Emit(events, event.Event{Type: event.RunError, Error: err})
			return nil, err
		}
		r.body["tools"] = tools
		r.body["tool_choice"] = choice

		resp, err := c.doChat(ctx, r)
		if err != nil {
			event.Emit(events, event.Event{Type: event.RunError, Error: err})
			return nil, err
		}

		if len(resp.ToolCalls) == 0 || round >= maxRounds {
			emitFinal(events, resp)
			return resp, nil
		}

		step := round + 1
		event.Emit(events, event.Event{Type: event.StepStart, Step: step, StepName: "tools"})
		history = append(history, polli.Message{
			Role:      polli.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			event.Emit(events, event.Event{Type: event.ToolCallStart, ToolCall: &call, Step: step})
			event.Emit(events, event.Event{Type: event.ToolCallArgs, ToolCall: &call, Step: step})
			event.Emit(events, event.Event{Type: event.ToolCallEnd, ToolCall: &call, Step: step})

			res := exec.Execute(ctx, call)
			if res.IsError {
				c.logger.Debug("tool call failed", "tool", call.Name, "error", res.Err)
			}
			event.Emit(events, event.Event{
				Type:     event.ToolCallResult,
				ToolCall: &call,
				Result:   res.Content,
				IsError:  res.IsError,
				Step:     step,
			})
			history = append(history, res.Message())
		}
		event.Emit(events, event.Event{Type: event.StepEnd, Step: step, StepName: "tools"})
	}
}

func emitFinal(events chan<- event.Event, resp *polli.Response) {
	if events == nil {
		return
	}
	messageID := polli.GenerateMessageID()
	event.Emit(events, event.Event{Type: event.MessageStart, MessageID: messageID})
	if resp.Content != "" {
		event.Emit(events, event.Event{Type: event.MessageDelta, MessageID: messageID, Delta: resp.Content})
	}
	event.Emit(events, event.Event{Type: event.MessageEnd, MessageID: messageID, Response: resp})
	event.Emit(events, event.Event{Type: event.RunEnd, Response: resp})
}
