package steps

import (
	"io"
	"os"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/test/cucumber"
	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/spf13/cobra"
)

// NewStepsCommand creates a command printing the step definitions scenarios can use.
func NewStepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "List the step definitions",
		Long:  "List the step definitions available to feature files, with the function implementing each one.",
		Run: func(cmd *cobra.Command, args []string) {
			List(colors.Colored(os.Stdout))
		},
	}
	return cmd
}

// List prints the step definitions to w. No browser is launched.
func List(w io.Writer) {
	suite := &cucumber.TestSuite{}
	suite.Run("steps", &godog.Options{
		Output:              w,
		Format:              "progress",
		ShowStepDefinitions: true,
	})
}
