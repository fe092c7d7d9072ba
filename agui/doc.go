// Package agui connects polli chat streams to AG-UI frontends.
//
// AG-UI (Agent-User Interface) is an event-based protocol for streaming
// agent output to user-facing applications. The package converts polli
// stream events to AG-UI events and AG-UI messages to polli messages. It
// does not provide a transport; cmd/polli serve writes the mapped events
// with the AG-UI SDK's SSE writer.
//
// # Usage
//
//	var in agui.RunAgentInput
//	json.NewDecoder(r.Body).Decode(&in)
//	prepared, err := in.Prepare()
//
//	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
//	for e := range c.ChatStreamEvents(ctx, prepared.Messages, prepared.Options()...) {
//	    if ev := mapper.MapEvent(e); ev != nil {
//	        writeEvent(ev)
//	    }
//	}
//
// # Event Mapping
//
//   - RunStart, RunEnd, RunError map to RUN_STARTED, RUN_FINISHED, RUN_ERROR
//   - StepStart, StepEnd map to STEP_STARTED, STEP_FINISHED
//   - MessageStart, MessageDelta, MessageEnd map to the TEXT_MESSAGE events
//   - ToolCallStart, ToolCallArgs, ToolCallEnd, ToolCallResult map to the
//     TOOL_CALL events
//
// The Mapper is not safe for concurrent use. Message conversion functions
// are stateless.
package agui
