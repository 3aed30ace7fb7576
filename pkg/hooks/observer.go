package hooks

import "time"

// Observer is notified as hooks complete, e.g. to record metrics.
type Observer interface {
	SetupFinished(elapsed time.Duration, err error)
	StepFinished(outcome StepOutcome)
	DiagnosticCaptured(err error)
	TeardownFinished(elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) SetupFinished(time.Duration, error)    {}
func (nopObserver) StepFinished(StepOutcome)              {}
func (nopObserver) DiagnosticCaptured(error)              {}
func (nopObserver) TeardownFinished(time.Duration, error) {}
