// Package tool provides the tool registry used by client.ChatWithTools.
//
// Tools are declared with a parameters schema and a Handler. Func reflects
// the schema from an argument struct:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name"`
//	    Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Get current weather",
//	        func(ctx context.Context, args WeatherArgs) (any, error) {
//	            return map[string]any{"temp": 21, "location": args.Location}, nil
//	        }),
//	)
//
//	resp, err := c.ChatWithTools(ctx, messages, registry.Tools(), registry)
//
// A plain Handlers map works as well when the tool specs are built by hand.
//
// Handler failures never abort the conversation: a missing handler, an
// error or a panic is sent back to the model as {"error": "..."}.
package tool
