package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.trai.ch/quill/internal/app"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <selector>",
		Short: "Compile the project and query elements of the document",
		Long: "Compile the project and print the elements matching the " +
			"selector as JSON. A selector of the form <label> matches by " +
			"label, anything else matches by element kind.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, _ := cmd.Flags().GetString("field")
			one, _ := cmd.Flags().GetBool("one")
			configPath, _ := cmd.Flags().GetString("project")

			result, err := c.app.Query(cmd.Context(), app.QueryOptions{
				ConfigPath: configPath,
				Selector:   args[0],
				Field:      field,
				One:        one,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().String("field", "", "Project a single field out of each matched element")
	cmd.Flags().Bool("one", false, "Require exactly one match and print it bare")
	cmd.Flags().StringP("project", "p", "", "Project configuration file or directory")
	return cmd
}
