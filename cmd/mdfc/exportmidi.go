package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schollz/mdfc/internal/compiler"
	"github.com/schollz/mdfc/internal/encoding/midiexport"

	"github.com/schollz/mdfc/cmd/mdfc/internal/diagprint"
)

func newExportMIDICmd() *cobra.Command {
	var (
		output string
		bpm    float64
	)

	cmd := &cobra.Command{
		Use:   "export-midi <input.mdfs>",
		Short: "compile a .mdfs source and render it as a static MIDI preview file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bpm <= 0 {
				return fmt.Errorf("--bpm is required and must be positive")
			}

			inputPath := args[0]
			source, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}

			chart, d := compiler.Compile(string(source), compiler.Options{})
			if d != nil {
				fmt.Fprint(cmd.ErrOrStderr(), diagprint.Render(d))
				return fmt.Errorf("compile failed: %s", d.Code)
			}

			if output == "" {
				output = inputPath + ".mid"
			}
			if err := midiexport.Export(chart, bpm, output); err != nil {
				return fmt.Errorf("exporting midi: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>.mid)")
	cmd.Flags().Float64Var(&bpm, "bpm", 0, "tempo to stamp the MIDI file with (required)")

	return cmd
}
