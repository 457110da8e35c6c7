package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/mdfc/internal/compiler"
	"github.com/schollz/mdfc/internal/encoding/mdfjson"
	"github.com/schollz/mdfc/internal/types"

	"github.com/schollz/mdfc/cmd/mdfc/internal/diagprint"
)

func newCompileCmd() *cobra.Command {
	var (
		output string
		gz     bool
		title  string
		artist string
		tags   []string
	)

	cmd := &cobra.Command{
		Use:   "compile <input.mdfs>",
		Short: "compile a .mdfs source file into a .mdf chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			source, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}

			chart, d := compiler.Compile(string(source), compiler.Options{
				Meta: types.Meta{Title: title, Artist: artist, Tags: tags},
			})
			if d != nil {
				fmt.Fprint(cmd.ErrOrStderr(), diagprint.Render(d))
				return fmt.Errorf("compile failed: %s", d.Code)
			}

			if output == "" {
				output = inputPath + ".mdf"
				if gz {
					output += ".gz"
				}
			}
			if err := mdfjson.WriteFile(chart, output, gz); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d notes, %d bgm events, %dus total)\n",
				output, len(chart.Notes), len(chart.BgmEvents), chart.Meta.TotalDurationUs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>.mdf)")
	cmd.Flags().BoolVar(&gz, "gz", false, "gzip-compress the output chart")
	cmd.Flags().StringVar(&title, "title", "", "chart title metadata")
	cmd.Flags().StringVar(&artist, "artist", "", "chart artist metadata")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "chart tag metadata (repeatable)")

	return cmd
}
