package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/mdfc/internal/compiler"

	"github.com/schollz/mdfc/cmd/mdfc/internal/diagprint"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input.mdfs>",
		Short: "compile a .mdfs source and report diagnostics without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			source, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}

			chart, d := compiler.Compile(string(source), compiler.Options{})
			if d != nil {
				fmt.Fprint(cmd.ErrOrStderr(), diagprint.Render(d))
				return fmt.Errorf("validation failed: %s", d.Code)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d notes, %d bgm events, %dus total\n",
				len(chart.Notes), len(chart.BgmEvents), chart.Meta.TotalDurationUs)
			return nil
		},
	}
	return cmd
}
