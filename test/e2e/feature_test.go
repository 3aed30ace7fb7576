package e2e

import (
	"os"
	"testing"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/artifacts"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/environments"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/services/sentry"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/test/cucumber"
	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

// E2EEnvKey enables the scenarios in features/ against a real browser and the live storefront.
const E2EEnvKey = "STOREFRONT_E2E"

func TestMain(m *testing.M) {
	if os.Getenv(E2EEnvKey) != "true" {
		glog.Infof("%s is not set to true, skipping browser scenarios", E2EEnvKey)
		os.Exit(m.Run())
	}

	env, err := environments.New(environments.GetEnvironmentStrFromEnv(), environments.ConfigProviders(), sentry.ConfigProviders())
	if err != nil {
		glog.Fatalf("Unable to initialize environment: %s", err.Error())
	}
	if err := env.AddFlags(pflag.NewFlagSet("e2e", pflag.ContinueOnError)); err != nil {
		glog.Fatalf("Unable to add environment flags: %s", err.Error())
	}
	if err := env.CreateServices(); err != nil {
		glog.Fatalf("Unable to create services: %s", err.Error())
	}

	var launcher browser.Launcher
	var suiteConfig *config.SuiteConfig
	var profiles *config.ProfilesConfig
	var store *artifacts.Store
	var observer hooks.Observer
	env.MustResolveAll(&launcher, &suiteConfig, &profiles, &store, &observer)

	profile, err := profiles.Selected()
	if err != nil {
		glog.Fatalf("Unable to select profile: %s", err.Error())
	}
	suite, err := cucumber.NewTestSuite(launcher, suiteConfig, profile, store, observer)
	if err != nil {
		glog.Fatalf("Unable to create test suite: %s", err.Error())
	}

	status := cucumber.TestMain(m, suite)
	env.Cleanup()
	os.Exit(status)
}
