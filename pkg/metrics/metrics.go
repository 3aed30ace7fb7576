package metrics

import (
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// StorefrontE2E - metrics prefix
	StorefrontE2E = "storefront_e2e"

	// SetupDuration - name of the browser setup duration metric
	SetupDuration = "setup_duration_seconds"
	// TeardownDuration - name of the browser teardown duration metric
	TeardownDuration = "teardown_duration_seconds"

	// HookOperationsTotalCount - name of the metric for all hook runs
	HookOperationsTotalCount = "hook_operations_total_count"
	// HookOperationsFailureCount - name of the metric for failed hook runs
	HookOperationsFailureCount = "hook_operations_failure_count"

	// StepsCount - name of the metric counting steps per outcome
	StepsCount = "steps_count"
	// ScreenshotsCount - name of the metric counting failure screenshots per result
	ScreenshotsCount = "screenshots_count"

	labelHook    = "hook"
	labelOutcome = "outcome"
	labelResult  = "result"
)

// Hook metric to capture
type Hook string

var (
	// HookSetup - before scenario hook
	HookSetup Hook = "setup"
	// HookCapture - failure capture hook
	HookCapture Hook = "capture"
	// HookTeardown - after scenario hook
	HookTeardown Hook = "teardown"
)

// HookMetricsLabels is the slice of labels to add to hook metrics
var HookMetricsLabels = []string{
	labelHook,
}

var stepMetricsLabels = []string{
	labelOutcome,
}

var screenshotMetricsLabels = []string{
	labelResult,
}

// registry holds only this suite's metrics so the textfile is not polluted by process collectors
var registry = prometheus.NewRegistry()

// create a new histogram for browser setup duration
var setupDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: StorefrontE2E,
		Name:      SetupDuration,
		Help:      "Browser launch and page setup duration in seconds.",
		Buckets: []float64{
			0.5,
			1.0,
			2.0,
			5.0,
			10.0,
			30.0,
			60.0,
			120.0,
		},
	},
)

// create a new histogram for browser teardown duration
var teardownDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: StorefrontE2E,
		Name:      TeardownDuration,
		Help:      "Browser session release duration in seconds.",
		Buckets: []float64{
			0.1,
			0.5,
			1.0,
			5.0,
			10.0,
			30.0,
		},
	},
)

// create a new counterVec for total hook runs
var hookOperationsTotalCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: StorefrontE2E,
		Name:      HookOperationsTotalCount,
		Help:      "number of total hook runs",
	},
	HookMetricsLabels,
)

// create a new counterVec for failed hook runs
var hookOperationsFailureCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: StorefrontE2E,
		Name:      HookOperationsFailureCount,
		Help:      "number of failed hook runs",
	},
	HookMetricsLabels,
)

// create a new counterVec for step outcomes
var stepsCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: StorefrontE2E,
		Name:      StepsCount,
		Help:      "number of steps per outcome",
	},
	stepMetricsLabels,
)

// create a new counterVec for failure screenshots
var screenshotsCountMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: StorefrontE2E,
		Name:      ScreenshotsCount,
		Help:      "number of failure screenshots per result",
	},
	screenshotMetricsLabels,
)

// UpdateSetupDurationMetric records how long a setup took
func UpdateSetupDurationMetric(elapsed time.Duration) {
	setupDurationMetric.Observe(elapsed.Seconds())
}

// UpdateTeardownDurationMetric records how long a teardown took
func UpdateTeardownDurationMetric(elapsed time.Duration) {
	teardownDurationMetric.Observe(elapsed.Seconds())
}

// IncreaseHookTotalCount - increase counter for the hookOperationsTotalCountMetric
func IncreaseHookTotalCount(hook Hook) {
	labels := prometheus.Labels{
		labelHook: string(hook),
	}
	hookOperationsTotalCountMetric.With(labels).Inc()
}

// IncreaseHookFailureCount - increase counter for the hookOperationsFailureCountMetric
func IncreaseHookFailureCount(hook Hook) {
	labels := prometheus.Labels{
		labelHook: string(hook),
	}
	hookOperationsFailureCountMetric.With(labels).Inc()
}

// IncreaseStepsCount - increase counter for the stepsCountMetric
func IncreaseStepsCount(outcome hooks.StepOutcome) {
	labels := prometheus.Labels{
		labelOutcome: outcome.String(),
	}
	stepsCountMetric.With(labels).Inc()
}

// IncreaseScreenshotsCount - increase counter for the screenshotsCountMetric
func IncreaseScreenshotsCount(captured bool) {
	result := "captured"
	if !captured {
		result = "failed"
	}
	labels := prometheus.Labels{
		labelResult: result,
	}
	screenshotsCountMetric.With(labels).Inc()
}

// WriteTextfile writes every metric in the text exposition format, for the node exporter
// textfile collector or a CI artifact.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}

// Gatherer exposes the suite registry
func Gatherer() prometheus.Gatherer {
	return registry
}

func init() {
	registry.MustRegister(setupDurationMetric)
	registry.MustRegister(teardownDurationMetric)
	registry.MustRegister(hookOperationsTotalCountMetric)
	registry.MustRegister(hookOperationsFailureCountMetric)
	registry.MustRegister(stepsCountMetric)
	registry.MustRegister(screenshotsCountMetric)
}

// Reset the vector metrics we have defined. It is mainly used for testing.
func Reset() {
	hookOperationsTotalCountMetric.Reset()
	hookOperationsFailureCountMetric.Reset()
	stepsCountMetric.Reset()
	screenshotsCountMetric.Reset()
}
