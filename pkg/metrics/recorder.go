package metrics

import (
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
)

// Recorder feeds hook outcomes into the suite metrics.
type Recorder struct{}

var _ hooks.Observer = Recorder{}

func (Recorder) SetupFinished(elapsed time.Duration, err error) {
	IncreaseHookTotalCount(HookSetup)
	UpdateSetupDurationMetric(elapsed)
	if err != nil {
		IncreaseHookFailureCount(HookSetup)
	}
}

func (Recorder) StepFinished(outcome hooks.StepOutcome) {
	IncreaseStepsCount(outcome)
}

func (Recorder) DiagnosticCaptured(err error) {
	IncreaseHookTotalCount(HookCapture)
	IncreaseScreenshotsCount(err == nil)
	if err != nil {
		IncreaseHookFailureCount(HookCapture)
	}
}

func (Recorder) TeardownFinished(elapsed time.Duration, err error) {
	IncreaseHookTotalCount(HookTeardown)
	UpdateTeardownDurationMetric(elapsed)
	if err != nil {
		IncreaseHookFailureCount(HookTeardown)
	}
}
