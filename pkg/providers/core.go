package providers

import (
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/cmd/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/cmd/profiles"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/cmd/run"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/cmd/steps"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/environments"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/services/sentry"
	"github.com/goava/di"
)

// CoreConfigProviders are the providers of the storefront-e2e command: the suite configuration,
// the sub commands and error reporting.
func CoreConfigProviders() di.Option {
	return di.Options(
		environments.ConfigProviders(),

		// Add CLI sub commands
		di.Provide(run.NewRunCommand),
		di.Provide(profiles.NewProfilesCommand),
		di.Provide(steps.NewStepsCommand),
		di.Provide(errors.NewErrorsCommand),

		// Add other core config providers..
		sentry.ConfigProviders(),
	)
}
