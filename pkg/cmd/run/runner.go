package run

import (
	"context"
	"io"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/artifacts"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/metrics"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/preflight"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/report"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/test/cucumber"
)

// SuiteName names the godog suite in reports.
const SuiteName = "storefront"

// Runner runs the scenarios of one profile.
type Runner struct {
	Launcher browser.Launcher
	Config   *config.SuiteConfig
	Store    *artifacts.Store
	Observer hooks.Observer
	Checker  *preflight.Checker

	// Output receives the formatters writing to stdout.
	Output io.Writer
	// Summary receives the scenario table, nil skips it.
	Summary io.Writer
}

// Run checks the storefront answers, runs the profile and returns godog's exit status. An error
// is returned, with status 1, when the run could not start. Metrics and summary problems are
// logged and leave the status alone.
func (r *Runner) Run(ctx context.Context, profile config.Profile) (int, error) {
	ctx = logger.WithRunID(ctx, r.Store.RunID())
	log := logger.NewLogger(ctx)

	if r.Config.Preflight && !profile.DryRun {
		if err := r.Checker.Check(ctx, r.Config.BaseURL); err != nil {
			return 1, err
		}
	}

	if err := cucumber.PrepareReports(profile.Format); err != nil {
		return 1, err
	}

	suite, err := cucumber.NewTestSuite(r.Launcher, r.Config, profile, r.Store, r.Observer)
	if err != nil {
		return 1, err
	}

	log.Infof("Running profile %s", profile)
	options := cucumber.NewOptions(profile, r.Output)
	options.DefaultContext = ctx
	status := suite.Run(SuiteName, options)
	log.Infof("Profile %s finished with status %d", profile.Name, status)

	if r.Config.MetricsFile != "" {
		if err := metrics.WriteTextfile(r.Config.MetricsFile); err != nil {
			log.Warningf("Unable to write metrics to %s: %v", r.Config.MetricsFile, err)
		}
	}

	if path, ok := cucumber.CucumberReport(profile.Format); ok && r.Summary != nil && !profile.DryRun {
		summary, err := report.ReadFile(path)
		if err != nil {
			log.Warningf("Unable to summarize %s: %v", path, err)
			return status, nil
		}
		counts := summary.Counts()
		log.Infof("%d scenarios passed, %d failed", counts[report.StatusPassed], counts[report.StatusFailed])
		summary.Render(r.Summary)
	}

	return status, nil
}
