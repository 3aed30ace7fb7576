package cucumber_test

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/artifacts"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser/fake"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/report"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/world"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/test/cucumber"
	"github.com/cucumber/godog"
	"github.com/onsi/gomega"
)

const baseURL = "https://www.saucedemo.com"

const background = `
  Background:
    Given the user is on the login page
    When the user logs in using "standard_user" and "secret_sauce"
    Then the user should be redirected to the inventory page
`

const addToCartFeature = `Feature: Add to cart
` + background + `
  Scenario: Add a backpack
    When the user adds "Sauce Labs Backpack" to the cart
    And navigates to the cart page
    Then the cart should display "Sauce Labs Backpack"
`

const removeMissingItemFeature = `Feature: Remove from cart
` + background + `
  Scenario: Remove an item that is not in the cart
    When the user adds "Sauce Labs Backpack" to the cart
    And navigates to the cart page
    And the user removes "Sauce Labs Bike Light" from the cart
    Then the cart should display "Sauce Labs Backpack"
`

type teardownCounter struct {
	mu        sync.Mutex
	setups    int
	teardowns int
}

func (c *teardownCounter) SetupFinished(elapsed time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.setups++
	}
}

func (c *teardownCounter) StepFinished(outcome hooks.StepOutcome) {}

func (c *teardownCounter) DiagnosticCaptured(err error) {}

func (c *teardownCounter) TeardownFinished(elapsed time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardowns++
}

type run struct {
	status   int
	summary  *report.Summary
	store    *artifacts.Store
	counter  *teardownCounter
	launcher *fake.Launcher
}

func newSuite(t *testing.T, launcher *fake.Launcher) (*cucumber.TestSuite, *teardownCounter) {
	counter := &teardownCounter{}
	options := hooks.DefaultOptions()
	options.Observer = counter
	return &cucumber.TestSuite{
		Launcher: launcher,
		World: world.Options{
			Launch: browser.LaunchOptions{Engine: browser.Chromium, Headless: true},
			Pages:  pages.Options{BaseURL: baseURL, VerifyTimeout: time.Second},
		},
		Hooks:     options,
		Artifacts: artifacts.NewStore(t.TempDir(), "run"),
	}, counter
}

func runFeatures(t *testing.T, suite *cucumber.TestSuite, concurrency int, features ...string) (int, *report.Summary) {
	t.Helper()
	g := gomega.NewWithT(t)

	contents := []godog.Feature{}
	for i, feature := range features {
		contents = append(contents, godog.Feature{Name: fmt.Sprintf("feature-%d.feature", i), Contents: []byte(feature)})
	}

	buf := &bytes.Buffer{}
	status := suite.Run("storefront", &godog.Options{
		Format:          "cucumber",
		Output:          buf,
		FeatureContents: contents,
		Strict:          true,
		Concurrency:     concurrency,
	})

	summary, err := report.Parse(buf.Bytes())
	g.Expect(err).ToNot(gomega.HaveOccurred(), "report: %s", buf.String())
	return status, summary
}

func runWith(t *testing.T, launcher *fake.Launcher, features ...string) run {
	suite, counter := newSuite(t, launcher)
	status, summary := runFeatures(t, suite, 1, features...)
	return run{status: status, summary: summary, store: suite.Artifacts, counter: counter, launcher: launcher}
}

func TestScenario_AddToCartPasses(t *testing.T) {
	g := gomega.NewWithT(t)

	r := runWith(t, &fake.Launcher{}, addToCartFeature)
	g.Expect(r.status).To(gomega.BeZero())

	scenario, ok := r.summary.Find("Add a backpack")
	g.Expect(ok).To(gomega.BeTrue())
	g.Expect(scenario.Status()).To(gomega.Equal(report.StatusPassed))
	g.Expect(scenario.Executed()).To(gomega.Equal(6))
	g.Expect(scenario.Embeddings).To(gomega.BeZero())

	g.Expect(r.launcher.Events()).To(gomega.Equal([]string{"launch", "new-context", "new-page", "close"}))
	g.Expect(r.launcher.OpenSessions()).To(gomega.BeZero())
	page := r.launcher.Sessions()[0].Pages()[0]
	g.Expect(page.Actions()).To(gomega.ContainElement("click #add-to-cart-sauce-labs-backpack"))
	g.Expect(page.Cart()).To(gomega.Equal([]string{"Sauce Labs Backpack"}))
	g.Expect(r.counter.setups).To(gomega.Equal(1))
	g.Expect(r.counter.teardowns).To(gomega.Equal(1))
}

func TestScenario_LaunchFailureRunsNoSteps(t *testing.T) {
	g := gomega.NewWithT(t)

	launcher := &fake.Launcher{LaunchErr: goerrors.New("executable doesn't exist at /ms-playwright/chromium")}
	r := runWith(t, launcher, addToCartFeature)
	g.Expect(r.status).To(gomega.Equal(1))

	scenario, ok := r.summary.Find("Add a backpack")
	g.Expect(ok).To(gomega.BeTrue())
	g.Expect(scenario.Status()).To(gomega.Equal(report.StatusFailed))
	g.Expect(scenario.Executed()).To(gomega.BeZero())
	g.Expect(scenario.Error()).To(gomega.ContainSubstring("unable to launch chromium"))
	g.Expect(scenario.Error()).To(gomega.ContainSubstring("executable doesn't exist"))
	g.Expect(scenario.Embeddings).To(gomega.BeZero())

	g.Expect(launcher.Events()).To(gomega.Equal([]string{"launch"}))
	g.Expect(launcher.Sessions()).To(gomega.BeEmpty())
	g.Expect(r.counter.teardowns).To(gomega.BeZero())
}

func TestScenario_FailedStepIsCaptured(t *testing.T) {
	g := gomega.NewWithT(t)

	r := runWith(t, &fake.Launcher{}, removeMissingItemFeature)
	g.Expect(r.status).To(gomega.Equal(1))

	scenario, ok := r.summary.Find("Remove an item that is not in the cart")
	g.Expect(ok).To(gomega.BeTrue())
	g.Expect(scenario.Status()).To(gomega.Equal(report.StatusFailed))
	g.Expect(scenario.Error()).To(gomega.ContainSubstring("#remove-sauce-labs-bike-light"))
	g.Expect(scenario.Embeddings).To(gomega.Equal(1))
	g.Expect(scenario.Statuses[len(scenario.Statuses)-1]).To(gomega.Equal(report.StatusSkipped))

	session := r.launcher.Sessions()[0]
	g.Expect(session.CloseCount()).To(gomega.Equal(1))
	actions := session.Pages()[0].Actions()
	g.Expect(actions).To(gomega.ContainElement("screenshot"))
	g.Expect(actions[len(actions)-1]).To(gomega.Equal("screenshot"))

	saved, err := os.ReadFile(r.store.Path("screenshots/remove-an-item-that-is-not-in-the-cart-1.png"))
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(saved).To(gomega.Equal(fake.PNG))
	g.Expect(r.counter.teardowns).To(gomega.Equal(1))
}

func TestScenario_CaptureFailureKeepsStepFailure(t *testing.T) {
	g := gomega.NewWithT(t)

	launcher := &fake.Launcher{ScreenshotErr: goerrors.New("target page, context or browser has been closed")}
	r := runWith(t, launcher, removeMissingItemFeature)
	g.Expect(r.status).To(gomega.Equal(1))

	scenario, _ := r.summary.Find("Remove an item that is not in the cart")
	g.Expect(scenario.Status()).To(gomega.Equal(report.StatusFailed))
	g.Expect(scenario.Error()).To(gomega.ContainSubstring("#remove-sauce-labs-bike-light"))
	g.Expect(scenario.Error()).ToNot(gomega.ContainSubstring("has been closed"))
	g.Expect(scenario.Embeddings).To(gomega.BeZero())
	g.Expect(launcher.OpenSessions()).To(gomega.BeZero())
}

func TestScenario_Features(t *testing.T) {
	tests := []struct {
		name       string
		parameters map[string]interface{}
		feature    string
		wantStatus string
		wantCart   []string
		wantURL    string
	}{
		{
			name: "should log in with world parameters",
			parameters: map[string]interface{}{
				"password": "secret_sauce",
				"users": map[string]interface{}{
					"standard": map[string]interface{}{"username": "standard_user"},
				},
			},
			feature: `Feature: Login
  Scenario: Login with parameters
    Given the user is on the login page
    When the user logs in using "${params.users.standard.username}" and "${params.password}"
    Then the user should be redirected to the inventory page
    And the inventory should list "Sauce Labs Onesie"
`,
			wantStatus: report.StatusPassed,
			wantURL:    baseURL + "/inventory.html",
		},
		{
			name: "should refuse a locked out user",
			feature: `Feature: Login
  Scenario: Locked out
    Given the user is on the login page
    When the user logs in using "locked_out_user" and "secret_sauce"
    Then the login should fail with "Sorry, this user has been locked out."
`,
			wantStatus: report.StatusPassed,
			wantURL:    baseURL + "/",
		},
		{
			name: "should add and remove items",
			feature: `Feature: Cart
` + background + `
  Scenario: Add two and remove one
    When the user adds "Sauce Labs Backpack" to the cart
    And the user adds "Sauce Labs Bike Light" to the cart
    Then the cart badge should show 2
    When navigates to the cart page
    Then the cart should contain:
      | Sauce Labs Bike Light |
      | Sauce Labs Backpack   |
    When the user removes "Sauce Labs Backpack" from the cart
    Then the cart should display "Sauce Labs Bike Light"
`,
			wantStatus: report.StatusPassed,
			wantCart:   []string{"Sauce Labs Bike Light"},
			wantURL:    baseURL + "/cart.html",
		},
		{
			name: "should empty the cart",
			feature: `Feature: Cart
` + background + `
  Scenario: Remove the only item
    When the user adds "Sauce Labs Backpack" to the cart
    And navigates to the cart page
    And the user removes "Sauce Labs Backpack" from the cart
    Then the cart should be empty
`,
			wantStatus: report.StatusPassed,
			wantURL:    baseURL + "/cart.html",
		},
		{
			name: "should use scenario variables",
			feature: `Feature: Variables
  Scenario: Stored user
    Given I store "standard_user" as ${user}
    And the user is on the login page
    When the user logs in using "${user}" and "secret_sauce"
    Then the user should be redirected to the inventory page
`,
			wantStatus: report.StatusPassed,
			wantURL:    baseURL + "/inventory.html",
		},
		{
			name: "should fail an undefined step in strict mode",
			feature: `Feature: Checkout
  Scenario: Checkout
    Given the user is on the login page
    When the user checks out
`,
			wantStatus: report.StatusUndefined,
			wantURL:    baseURL + "/",
		},
	}

	for _, testcase := range tests {
		tt := testcase
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)

			launcher := &fake.Launcher{}
			suite, counter := newSuite(t, launcher)
			suite.Parameters = tt.parameters
			_, summary := runFeatures(t, suite, 1, tt.feature)

			g.Expect(summary.Scenarios).To(gomega.HaveLen(1))
			scenario := summary.Scenarios[0]
			g.Expect(scenario.Status()).To(gomega.Equal(tt.wantStatus), "errors: %v", scenario.Errors)

			page := launcher.Sessions()[0].Pages()[0]
			g.Expect(page.URL()).To(gomega.Equal(tt.wantURL))
			if tt.wantCart != nil {
				g.Expect(page.Cart()).To(gomega.Equal(tt.wantCart))
			}
			g.Expect(launcher.OpenSessions()).To(gomega.BeZero())
			g.Expect(counter.teardowns).To(gomega.Equal(1))
		})
	}
}

func TestScenario_LandingPageScreenshot(t *testing.T) {
	g := gomega.NewWithT(t)

	r := runWith(t, &fake.Launcher{}, `Feature: Screenshot
`+background+`
  Scenario: Landing page
    Then I take the screenshot of landing page
    And the cart should be empty
`)
	g.Expect(r.status).To(gomega.BeZero())

	saved, err := os.ReadFile(r.store.Path("screenshots/landing_page.png"))
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(saved).To(gomega.Equal(fake.PNG))
	g.Expect(r.launcher.Sessions()[0].Pages()[0].URL()).To(gomega.Equal(baseURL + "/cart.html"))
}

func TestScenario_ConcurrentScenariosOwnTheirSession(t *testing.T) {
	g := gomega.NewWithT(t)

	launcher := &fake.Launcher{}
	suite, counter := newSuite(t, launcher)
	status, summary := runFeatures(t, suite, 3, addToCartFeature, removeMissingItemFeature, `Feature: Login
`+background+`
  Scenario: Just log in
    Then the inventory should list "Sauce Labs Backpack"
`)

	g.Expect(status).To(gomega.Equal(1))
	g.Expect(summary.Counts()).To(gomega.Equal(map[string]int{report.StatusPassed: 2, report.StatusFailed: 1}))
	g.Expect(launcher.Sessions()).To(gomega.HaveLen(3))
	for _, session := range launcher.Sessions() {
		g.Expect(session.CloseCount()).To(gomega.Equal(1))
		g.Expect(session.Pages()).To(gomega.HaveLen(1))
	}
	g.Expect(counter.setups).To(gomega.Equal(3))
	g.Expect(counter.teardowns).To(gomega.Equal(3))
}

func TestDryRunListsSteps(t *testing.T) {
	g := gomega.NewWithT(t)

	launcher := &fake.Launcher{}
	suite, _ := newSuite(t, launcher)
	profile, err := config.BuiltinProfiles().Get(config.DefaultProfile)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	profile.DryRun = true
	profile.Format = []string{"progress"}

	buf := &bytes.Buffer{}
	status := suite.Run("storefront", cucumber.NewOptions(profile, buf))
	g.Expect(status).To(gomega.Equal(2))
	g.Expect(buf.String()).To(gomega.ContainSubstring("the user is on the login page"))
	g.Expect(buf.String()).To(gomega.ContainSubstring("I take the screenshot of landing page"))
	g.Expect(launcher.Events()).To(gomega.BeEmpty())
}

type extender struct {
	*cucumber.TestScenario
}

func (s *extender) debug(as string) error {
	fmt.Println(s.Expand(as))
	return nil
}

// You can also add additional step implementations that have access to the scenario state.
func Example_customSteps() {

	// With extender defined as:
	//
	//  type extender struct {
	//  	*cucumber.TestScenario
	//  }
	//
	//  func (s *extender) debug(as string) error {
	//  	fmt.Println(s.Expand(as))
	//  	return nil
	//  }

	cucumber.StepModules = append(cucumber.StepModules, func(ctx *godog.ScenarioContext, s *cucumber.TestScenario) {
		e := &extender{s}
		ctx.Step(`^debug "([^"]*)"$`, e.debug)
	})

}
