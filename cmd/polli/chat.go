package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/client"
	"github.com/spetersoncode/polli/mcp"
	"github.com/spetersoncode/polli/tool"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a chat message",
	Long: `Send a chat message and print the reply.

--stream prints the reply as it arrives. --tools lets the model call the
built-in Pollinations tools (image URLs, model lists, speech), and
--mcp-command lets it call the tools of an MCP server started as a
subprocess. --openai sends the request to the OpenAI-compatible endpoint.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	addTextFlags(chatCmd)
	f := chatCmd.Flags()
	f.Bool("stream", false, "Stream the reply")
	f.Bool("raw", false, "With --stream, print raw SSE payloads")
	f.Bool("openai", false, "Use the OpenAI-compatible endpoint")
	f.Bool("tools", false, "Enable the built-in Pollinations tools")
	f.String("mcp-command", "", "Command line of an MCP server whose tools the model may call")
	f.Int("max-rounds", 3, "Maximum tool-calling rounds")
	f.Int("max-tokens", 0, "Maximum tokens in the reply")
	f.Float64("temperature", -1, "Sampling temperature (server default when negative)")
	rootCmd.AddCommand(chatCmd)
}

func chatOptions(cmd *cobra.Command) []polli.Option {
	f := cmd.Flags()
	opts := textOptions(cmd)
	if n, _ := f.GetInt("max-tokens"); n > 0 {
		opts = append(opts, polli.WithMaxTokens(n))
	}
	if t, _ := f.GetFloat64("temperature"); t >= 0 {
		opts = append(opts, polli.WithTemperature(t))
	}
	return opts
}

func runChat(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := cmd.Context()
	f := cmd.Flags()
	messages := []polli.Message{polli.NewUserMessage(strings.Join(args, " "))}
	opts := chatOptions(cmd)
	out := cmd.OutOrStdout()

	exec, tools, closeTools, err := chatTools(ctx, cmd, c)
	if err != nil {
		return err
	}
	defer closeTools()

	useOpenAI, _ := f.GetBool("openai")
	stream, _ := f.GetBool("stream")

	switch {
	case len(tools) > 0 && useOpenAI:
		resp, err := c.OpenAIChatWithTools(ctx, messages, tools, opts...)
		if err != nil {
			return err
		}
		return printReply(cmd, resp)
	case len(tools) > 0:
		rounds, _ := f.GetInt("max-rounds")
		opts = append(opts, polli.WithMaxRounds(rounds))
		resp, err := c.ChatWithTools(ctx, messages, tools, exec, opts...)
		if err != nil {
			return err
		}
		return printReply(cmd, resp)
	case useOpenAI:
		resp, err := c.OpenAIChat(ctx, messages, opts...)
		if err != nil {
			return err
		}
		return printReply(cmd, resp)
	case stream:
		seq := c.ChatStream(ctx, messages, opts...)
		if raw, _ := f.GetBool("raw"); raw {
			seq = c.ChatStreamRaw(ctx, messages, opts...)
		}
		for chunk, err := range seq {
			if err != nil {
				return err
			}
			fmt.Fprint(out, chunk)
		}
		fmt.Fprintln(out)
		return nil
	default:
		resp, err := c.Chat(ctx, messages, opts...)
		if err != nil {
			return err
		}
		return printReply(cmd, resp)
	}
}

// chatTools assembles the executor and specs selected by --tools and
// --mcp-command. The returned func releases any MCP subprocess.
func chatTools(ctx context.Context, cmd *cobra.Command, c *client.Client) (tool.Executor, []polli.Tool, func(), error) {
	f := cmd.Flags()
	builtin, _ := f.GetBool("tools")
	command, _ := f.GetString("mcp-command")
	noop := func() {}

	switch {
	case builtin && command != "":
		return nil, nil, noop, errors.New("--tools and --mcp-command are mutually exclusive")
	case builtin:
		reg := mcp.PollinationsTools(c)
		return reg, reg.Tools(), noop, nil
	case command != "":
		fields := strings.Fields(command)
		remote, err := mcp.NewRemoteRegistry(ctx, fields[0], nil, fields[1:]...)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("start MCP server: %w", err)
		}
		return remote, remote.Tools(), func() { _ = remote.Close() }, nil
	default:
		return nil, nil, noop, nil
	}
}

func printReply(cmd *cobra.Command, resp *polli.Response) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resp.Content)
	for _, call := range resp.ToolCalls {
		fmt.Fprintf(out, "tool call %s: %s(%s)\n", call.ID, call.Name, call.Arguments)
	}
	return nil
}
