package config

import (
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/shared"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/world"
	"github.com/ghodss/yaml"
	"github.com/spf13/pflag"
)

const DefaultBaseURL = "https://www.saucedemo.com"

// SuiteConfig holds what every scenario of a run shares: where the storefront is, how browsers
// are launched and how long hooks may take.
type SuiteConfig struct {
	BaseURL        string        `json:"base_url" validate:"required,url"`
	Browser        string        `json:"browser" validate:"browser_engine"`
	Headless       bool          `json:"headless"`
	SlowMo         time.Duration `json:"slow_mo" validate:"gte=0"`
	ViewportWidth  int           `json:"viewport_width" validate:"gte=0"`
	ViewportHeight int           `json:"viewport_height" validate:"gte=0"`
	ActionTimeout  time.Duration `json:"action_timeout" validate:"gte=0"`

	SetupTimeout    time.Duration `json:"setup_timeout" validate:"gt=0"`
	TeardownTimeout time.Duration `json:"teardown_timeout" validate:"gt=0"`
	CaptureTimeout  time.Duration `json:"capture_timeout" validate:"gt=0"`
	VerifyTimeout   time.Duration `json:"verify_timeout" validate:"gte=0"`

	ArtifactsDir string `json:"artifacts_dir" validate:"required"`
	MetricsFile  string `json:"metrics_file"`
	Preflight    bool   `json:"preflight"`

	// WorldParametersFile is a YAML document exposed to steps as ${params.<path>}.
	WorldParametersFile string                 `json:"world_parameters_file"`
	WorldParameters     map[string]interface{} `json:"-"`
}

func NewSuiteConfig() *SuiteConfig {
	return &SuiteConfig{
		BaseURL:         DefaultBaseURL,
		Browser:         string(browser.Chromium),
		Headless:        true,
		ViewportWidth:   1280,
		ViewportHeight:  720,
		ActionTimeout:   30 * time.Second,
		SetupTimeout:    120 * time.Second,
		TeardownTimeout: 30 * time.Second,
		CaptureTimeout:  10 * time.Second,
		VerifyTimeout:   5 * time.Second,
		ArtifactsDir:    "reports",
		Preflight:       true,
		WorldParameters: map[string]interface{}{},
	}
}

func (c *SuiteConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "Base URL of the storefront under test")
	fs.StringVar(&c.Browser, "browser", c.Browser, "Browser engine used by every scenario: chromium, firefox or webkit")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "Run browsers without a window")
	fs.DurationVar(&c.SlowMo, "slow-mo", c.SlowMo, "Delay applied to every browser operation")
	fs.IntVar(&c.ViewportWidth, "viewport-width", c.ViewportWidth, "Page viewport width, 0 for the browser default")
	fs.IntVar(&c.ViewportHeight, "viewport-height", c.ViewportHeight, "Page viewport height, 0 for the browser default")
	fs.DurationVar(&c.ActionTimeout, "action-timeout", c.ActionTimeout, "Default timeout of a single page action")
	fs.DurationVar(&c.SetupTimeout, "setup-timeout", c.SetupTimeout, "Time allowed to launch the browser for a scenario")
	fs.DurationVar(&c.TeardownTimeout, "teardown-timeout", c.TeardownTimeout, "Time allowed to close the browser after a scenario")
	fs.DurationVar(&c.CaptureTimeout, "capture-timeout", c.CaptureTimeout, "Time allowed to capture a failure screenshot")
	fs.DurationVar(&c.VerifyTimeout, "verify-timeout", c.VerifyTimeout, "Time verifications wait for page content before failing")
	fs.StringVar(&c.ArtifactsDir, "artifacts-dir", c.ArtifactsDir, "Directory receiving screenshots and reports of each run")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "Write run metrics in the Prometheus text format to this file")
	fs.BoolVar(&c.Preflight, "preflight", c.Preflight, "Check the storefront is reachable before launching browsers")
	fs.StringVar(&c.WorldParametersFile, "world-parameters-file", c.WorldParametersFile, "YAML file of parameters available to steps")
}

func (c *SuiteConfig) ReadFiles() error {
	content, err := shared.ReadFile(c.WorldParametersFile)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}
	parameters := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(content), &parameters); err != nil {
		return errors.Validation("invalid world parameters in %s: %v", c.WorldParametersFile, err)
	}
	c.WorldParameters = parameters
	return nil
}

func (c *SuiteConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Validation("invalid suite configuration: %v", err)
	}
	return nil
}

// WorldOptions are the options each scenario context is built with.
func (c *SuiteConfig) WorldOptions() (world.Options, error) {
	engine, err := browser.ParseEngine(c.Browser)
	if err != nil {
		return world.Options{}, errors.Validation("%v", err)
	}
	return world.Options{
		Launch: browser.LaunchOptions{
			Engine:   engine,
			Headless: c.Headless,
			SlowMo:   c.SlowMo,
			Viewport: browser.Viewport{
				Width:  c.ViewportWidth,
				Height: c.ViewportHeight,
			},
			DefaultTimeout: c.ActionTimeout,
		},
		Pages: pages.Options{
			BaseURL:       c.BaseURL,
			VerifyTimeout: c.VerifyTimeout,
		},
	}, nil
}

// HookOptions bound the lifecycle hooks. The step timeout comes from the selected profile.
func (c *SuiteConfig) HookOptions(stepTimeout time.Duration) hooks.Options {
	return hooks.Options{
		SetupTimeout:    c.SetupTimeout,
		TeardownTimeout: c.TeardownTimeout,
		CaptureTimeout:  c.CaptureTimeout,
		StepTimeout:     stepTimeout,
	}
}
