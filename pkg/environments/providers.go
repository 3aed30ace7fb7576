package environments

import (
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/artifacts"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser/playwright"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/metrics"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/preflight"
	"github.com/goava/di"
)

func ConfigProviders() di.Option {
	return di.Options(
		di.Provide(func(env *Env) EnvName {
			return EnvName(env.Name)
		}),

		// Add the env types
		di.Provide(newDevelopmentEnvLoader, di.Tags{"env": DevelopmentEnv}),
		di.Provide(newTestingEnvLoader, di.Tags{"env": TestingEnv}),
		di.Provide(newCIEnvLoader, di.Tags{"env": CIEnv}),

		// Add config types
		di.Provide(config.NewSuiteConfig, di.As(new(ConfigModule), new(ConfigValidator))),
		di.Provide(config.NewProfilesConfig, di.As(new(ConfigModule))),
		di.Provide(Func(ServiceProviders)),
	)
}

func ServiceProviders() di.Option {
	return di.Options(
		di.Provide(func() browser.Launcher {
			return playwright.NewLauncher()
		}),
		di.Provide(func() *preflight.Checker {
			return preflight.NewChecker(0)
		}),
		di.Provide(func() artifacts.IDGenerator {
			return artifacts.NewIDGenerator("")
		}),
		di.Provide(func(c *config.SuiteConfig, ids artifacts.IDGenerator) *artifacts.Store {
			return artifacts.NewStore(c.ArtifactsDir, ids.Generate())
		}),
		di.Provide(func() hooks.Observer {
			return metrics.Recorder{}
		}),
	)
}
