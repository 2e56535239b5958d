package commands

import (
	"github.com/spf13/cobra"

	"go.trai.ch/quill/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [path]",
		Short: "Compile the project and write the exported output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			return c.app.Compile(cmd.Context(), app.CompileOptions{
				ConfigPath: configPath,
				Format:     format,
				Output:     output,
			})
		},
	}
	cmd.Flags().StringP("format", "f", "", "Export format: txt or html (defaults to the configured format)")
	cmd.Flags().StringP("output", "o", "", "Output path (defaults to the configured output)")
	return cmd
}
