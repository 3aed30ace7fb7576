package errors

import (
	"github.com/spf13/cobra"
)

func NewErrorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Inspect the errors a run can report",
		Long:  "Inspect the errors a run can report",
	}

	// add sub-commands
	cmd.AddCommand(NewListCommand())

	return cmd
}
