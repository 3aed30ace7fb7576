// Package cucumber allows you to use cucumber to execute Gherkin based
// BDD test scenarios against the storefront with a real or fake browser.
//
// Every scenario gets its own scenario context, so its own browser session, and its own
// lifecycle.  The browser is launched before the first step, a screenshot is attached to
// every failed step while the browser is live, and the browser is closed after the last
// step.  Scenarios may run concurrently; they never share a session.
//
// Some steps allow you store variables or use those variables.  The variables
// are scoped to the Scenario.  World parameters are available to every scenario
// as ${params.<selector>}, for example ${params.users.standard.username}.
//
// Using in a test
//
//	func TestMain(m *testing.M) {
//		suite := &cucumber.TestSuite{
//			Launcher: playwright.NewLauncher(),
//			World:    worldOptions,
//			Hooks:    hooks.DefaultOptions(),
//		}
//		os.Exit(cucumber.TestMain(m, suite))
//	}
package cucumber

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/artifacts"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/shared"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/world"
	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/itchyny/gojq"
	"github.com/pkg/errors"
)

// TestSuite holds the state global to all the test scenarios.
// It is accessed concurrently from all test scenarios and is never mutated by them.
type TestSuite struct {
	Launcher browser.Launcher
	World    world.Options
	Hooks    hooks.Options
	// Artifacts persists failure screenshots next to the reports, nil keeps them in the report only.
	Artifacts *artifacts.Store
	// Parameters are the world parameters steps can expand.
	Parameters map[string]interface{}
}

// NewTestSuite builds a suite from the suite configuration and the selected profile.
func NewTestSuite(launcher browser.Launcher, c *config.SuiteConfig, profile config.Profile, store *artifacts.Store, observer hooks.Observer) (*TestSuite, error) {
	worldOptions, err := c.WorldOptions()
	if err != nil {
		return nil, err
	}
	hookOptions := c.HookOptions(profile.Timeout)
	hookOptions.Observer = observer
	return &TestSuite{
		Launcher:   launcher,
		World:      worldOptions,
		Hooks:      hookOptions,
		Artifacts:  store,
		Parameters: c.WorldParameters,
	}, nil
}

func (suite *TestSuite) runID() string {
	if suite.Artifacts == nil {
		return ""
	}
	return suite.Artifacts.RunID()
}

// TestScenario holds that state of single scenario.  It is not accessed
// concurrently.
type TestScenario struct {
	Suite     *TestSuite
	World     *world.ScenarioContext
	Lifecycle *hooks.Lifecycle
	Variables map[string]string
}

// Step runs fn as the body of a step, with the page objects of the scenario's live session.
func (s *TestScenario) Step(ctx context.Context, fn func(ctx context.Context, registry *pages.Registry) error) error {
	return s.Lifecycle.RunStep(ctx, func(ctx context.Context) error {
		registry, err := s.World.Pages()
		if err != nil {
			return err
		}
		return fn(ctx, registry)
	})
}

// Expand replaces ${var} or $var in the string based on saved Variables in the test scenario.
// ${params.<selector>} is replaced with the world parameter selected by the jq selector.
func (s *TestScenario) Expand(value string) string {
	return os.Expand(value, func(name string) string {
		if strings.HasPrefix(name, "params.") {

			selector := strings.TrimPrefix(name, "params")
			query, err := gojq.Parse(selector)
			if err != nil {
				return s.Variables[name]
			}

			params := s.Suite.Parameters
			if params == nil {
				params = map[string]interface{}{}
			}

			iter := query.Run(params)
			if next, found := iter.Next(); found {
				switch next := next.(type) {
				case nil, error:
				case string:
					return next
				case float64:
					return strconv.FormatFloat(next, 'f', -1, 64)
				default:
					return fmt.Sprintf("%v", next)
				}
			}
		}
		return s.Variables[name]
	})
}

// StepModules is the list of functions used to add steps to a godog.ScenarioContext, you can
// add more to this list if you need test TestSuite specific steps.
var StepModules []func(ctx *godog.ScenarioContext, s *TestScenario)

// reportAttacher hands attachments to godog, which embeds them in the step's report entry.
var reportAttacher = hooks.AttacherFunc(func(ctx context.Context, attachment hooks.Attachment) (context.Context, error) {
	return godog.Attach(ctx, godog.Attachment{
		Body:      attachment.Body,
		FileName:  attachment.Name,
		MediaType: attachment.MediaType,
	}), nil
})

func (suite *TestSuite) attacher() hooks.Attacher {
	attachers := hooks.Attachers{reportAttacher}
	if suite.Artifacts != nil {
		attachers = append(attachers, suite.Artifacts)
	}
	if suite.Hooks.Attacher != nil {
		attachers = append(attachers, suite.Hooks.Attacher)
	}
	return attachers
}

// InitializeScenario is the godog scenario initializer. It builds a fresh scenario context and
// lifecycle for every scenario and binds the lifecycle to godog's hooks.
func (suite *TestSuite) InitializeScenario(ctx *godog.ScenarioContext) {
	options := suite.Hooks
	options.Attacher = suite.attacher()

	w := world.New(suite.Launcher, suite.World)
	s := &TestScenario{
		Suite:     suite,
		World:     w,
		Lifecycle: hooks.New(w, options),
		Variables: map[string]string{},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ctx = logger.WithRunID(ctx, suite.runID())
		ctx = logger.WithBrowser(ctx, string(engineOf(suite.World.Launch)))
		ctx = logger.WithScenario(ctx, sc.Name)
		return ctx, s.Lifecycle.BeforeScenario(ctx, sc.Name)
	})
	ctx.StepContext().Before(func(ctx context.Context, st *godog.Step) (context.Context, error) {
		return logger.WithStep(ctx, st.Text), nil
	})
	ctx.StepContext().After(func(ctx context.Context, st *godog.Step, status godog.StepResultStatus, err error) (context.Context, error) {
		return s.Lifecycle.AfterStep(ctx, st.Text, outcomeOf(status)), nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		s.Lifecycle.AfterScenario(ctx)
		return ctx, nil
	})

	for _, module := range StepModules {
		module(ctx, s)
	}
}

func engineOf(options browser.LaunchOptions) browser.Engine {
	if options.Engine == "" {
		return browser.Chromium
	}
	return options.Engine
}

func outcomeOf(status godog.StepResultStatus) hooks.StepOutcome {
	switch status {
	case godog.StepPassed:
		return hooks.Passed
	case godog.StepFailed:
		return hooks.Failed
	case godog.StepSkipped:
		return hooks.Skipped
	case godog.StepPending:
		return hooks.Pending
	case godog.StepUndefined:
		return hooks.Undefined
	}
	return hooks.Ambiguous
}

// NewOptions translates a profile to godog options writing to output.
func NewOptions(profile config.Profile, output io.Writer) *godog.Options {
	opts := &godog.Options{
		Output:              output,
		Format:              strings.Join(profile.Format, ","),
		Paths:               profile.Paths,
		Tags:                profile.Tags,
		Concurrency:         profile.Parallel,
		Strict:              profile.Strict,
		StopOnFailure:       profile.FailFast,
		ShowStepDefinitions: profile.DryRun,
	}
	if profile.Randomize {
		// godog picks the seed and prints it in the summary
		opts.Randomize = -1
	}
	return opts
}

// PrepareReports creates the directories of the formatters that write to a file.
func PrepareReports(formats []string) error {
	for _, format := range formats {
		_, path, found := strings.Cut(format, ":")
		if !found || path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "creating report directory for %s", format)
		}
	}
	return nil
}

// CucumberReport returns the file the cucumber formatter writes to, if any.
func CucumberReport(formats []string) (string, bool) {
	for _, format := range formats {
		name, path, found := strings.Cut(format, ":")
		if name == "cucumber" && found && path != "" {
			return path, true
		}
	}
	return "", false
}

// Run executes the scenarios selected by options and returns godog's exit status.
func (suite *TestSuite) Run(name string, options *godog.Options) int {
	return godog.TestSuite{
		Name:                name,
		ScenarioInitializer: suite.InitializeScenario,
		Options:             options,
	}.Run()
}

var opts = godog.Options{
	Output:      colors.Colored(os.Stdout),
	Format:      "progress", // can define default values
	Paths:       []string{shared.BuildFullFilePath("features")},
	Concurrency: 1,
	Strict:      true,
}

// TestMain runs the scenarios found in the project's "features" directory.  If m is not nil, it
// also runs it's tests.  Godog options can be set with -godog.* flags.
func TestMain(m *testing.M, suite *TestSuite) int {
	godog.BindCommandLineFlags("godog.", &opts)

	for _, arg := range os.Args[1:] {
		if arg == "-test.v=true" { // go test transforms -v option
			opts.Format = "pretty"
		}
	}

	flag.Parse()
	if len(flag.Args()) > 0 {
		opts.Paths = flag.Args()
	}

	status := suite.Run("storefront", &opts)

	// Optional: Run `testing` package's logic besides godog.
	if m != nil {
		if st := m.Run(); st > status {
			status = st
		}
	}

	return status
}
