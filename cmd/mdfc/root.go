package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mdfc",
		Short:         "compile .mdfs rhythm-chart sources into flat .mdf charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newExportMIDICmd())

	return root
}
