package providers

import (
	"testing"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/artifacts"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/environments"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/services/sentry"
	"github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestInjections(t *testing.T) {
	g := gomega.NewWithT(t)

	env, err := environments.New(environments.TestingEnv, CoreConfigProviders())
	g.Expect(err).To(gomega.BeNil())
	defer env.Cleanup()

	fs := pflag.NewFlagSet(t.Name(), pflag.ContinueOnError)
	g.Expect(env.AddFlags(fs)).To(gomega.Succeed())
	g.Expect(fs.Parse([]string{"--artifacts-dir", t.TempDir()})).To(gomega.Succeed())
	g.Expect(fs.Lookup("enable-sentry")).ToNot(gomega.BeNil())

	var commands []*cobra.Command
	env.MustResolve(&commands)
	var names []string
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}
	g.Expect(names).To(gomega.ConsistOf("run", "profiles", "steps", "errors"))

	err = env.CreateServices()
	g.Expect(err).To(gomega.BeNil())

	var sentryConfig *sentry.Config
	var store *artifacts.Store
	env.MustResolveAll(&sentryConfig, &store)
	g.Expect(sentryConfig.Enabled).To(gomega.BeFalse())
	g.Expect(store.RunID()).ToNot(gomega.BeEmpty())
}
