package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli/model"
)

var modelsCmd = &cobra.Command{
	Use:       "models [text|image|audio]",
	Short:     "List available models",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"text", "image", "audio"},
	RunE:      runModels,
}

func init() {
	modelsCmd.Flags().Bool("names", false, "Print only model names")
	modelsCmd.Flags().String("find", "", "Look up one model by name or alias")
	modelsCmd.Flags().Bool("voices", false, "Print the voices offered by audio models")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if name, _ := cmd.Flags().GetString("find"); name != "" {
		var opts []model.FindOption
		if len(args) == 1 && args[0] != "audio" {
			opts = append(opts, model.WithKind(model.Kind(args[0])))
		}
		m, err := c.GetModelByName(ctx, name, opts...)
		if err != nil {
			return err
		}
		return printJSON(out, m.Fields)
	}

	if voices, _ := cmd.Flags().GetBool("voices"); voices {
		names, err := c.Voices(ctx)
		if err != nil {
			return err
		}
		for _, v := range names {
			fmt.Fprintln(out, v)
		}
		return nil
	}

	kind := "text"
	if len(args) == 1 {
		kind = args[0]
	}
	var models []model.Model
	if kind == "audio" {
		models, err = c.AudioModels(ctx)
	} else {
		models, err = c.ListModels(ctx, model.Kind(kind))
	}
	if err != nil {
		return err
	}

	if names, _ := cmd.Flags().GetBool("names"); names {
		for _, m := range models {
			fmt.Fprintln(out, m.Name)
		}
		return nil
	}
	return printJSON(out, models)
}
