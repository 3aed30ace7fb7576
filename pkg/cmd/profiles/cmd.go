package profiles

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/environments"
	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewProfilesCommand creates a command listing the run profiles, built-in and from the profiles file.
func NewProfilesCommand(env *environments.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the run profiles",
		Long:  "List the run profiles, built-in and from the profiles file. The selected profile is marked with a *.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			err := env.CreateServices()
			if err != nil {
				glog.Fatalf("Unable to initialize environment: %s", err.Error())
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			var profiles *config.ProfilesConfig
			env.MustResolve(&profiles)
			Render(os.Stdout, profiles.Profiles, profiles.Name)
		},
	}
	return cmd
}

// Render writes the profiles as a table sorted by name.
func Render(w io.Writer, profiles config.Profiles, selected string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Name", "Tags", "Parallel", "Timeout", "Strict", "Format", "Paths"})
	table.SetAutoWrapText(false)
	for _, name := range profiles.Names() {
		profile := profiles[name]
		marker := ""
		if name == selected {
			marker = "*"
		}
		table.Append([]string{
			marker,
			name,
			profile.Tags,
			strconv.Itoa(profile.Parallel),
			profile.Timeout.String(),
			fmt.Sprintf("%t", profile.Strict),
			strings.Join(profile.Format, " "),
			strings.Join(profile.Paths, " "),
		})
	}
	table.Render()
}
