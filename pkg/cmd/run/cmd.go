package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/environments"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/flags"
	"github.com/cucumber/godog/colors"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

const (
	FlagTags    = "tags"
	FlagSummary = "summary"
)

func NewRunCommand(env *environments.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [feature paths]",
		Short: "Run the storefront scenarios",
		Long:  "Run the scenarios of the selected profile against the storefront. Feature paths given as arguments replace the profile's paths.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			err := env.CreateServices()
			if err != nil {
				glog.Fatalf("Unable to initialize environment: %s", err.Error())
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Cancel the context when we get a signal...
			ch := make(chan os.Signal, 1)
			signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				select {
				case <-ch:
					cancel()
				case <-ctx.Done():
				}
			}()

			var profiles *config.ProfilesConfig
			env.MustResolve(&profiles)
			profile, err := profiles.Selected()
			if err != nil {
				glog.Fatalf("Unable to select profile: %s", err.Error())
			}
			if tags := flags.MustGetString(FlagTags, cmd.Flags()); tags != "" {
				profile.Tags = tags
			}
			if len(args) > 0 {
				profile.Paths = args
			}

			runner := &Runner{Output: colors.Colored(os.Stdout)}
			if flags.MustGetBool(FlagSummary, cmd.Flags()) {
				runner.Summary = os.Stdout
			}
			env.MustResolveAll(&runner.Launcher, &runner.Config, &runner.Store, &runner.Observer, &runner.Checker)

			status, err := runner.Run(ctx, profile)
			if err != nil {
				glog.Errorf("Run of profile %s failed: %s", profile.Name, err.Error())
			}
			if status != 0 {
				env.Cleanup()
				os.Exit(status)
			}
		},
	}

	cmd.Flags().String(FlagTags, "", "Tag expression replacing the profile's tags, e.g. '@smoke && ~@wip'")
	cmd.Flags().Bool(FlagSummary, true, "Print a table of the scenarios once the run is over")

	return cmd
}

