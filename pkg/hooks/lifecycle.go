// Package hooks drives the lifecycle of one scenario: setup before the first step, failure
// capture after each step and teardown after the last one.
//
// The step-execution engine calls the hooks; a Lifecycle makes sure they happen in order
// (setup < step₁ < … < stepₙ < teardown), that no step runs without a successful setup, and that
// a successful setup is always followed by exactly one teardown.
package hooks

import (
	"context"
	goerrors "errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/looplab/fsm"
)

const (
	StateCreated        = "created"
	StateReady          = "ready"
	StateRunning        = "running"
	StateTornDown       = "torn_down"
	StateTornDownFailed = "torn_down_failed"

	eventSetupSucceeded = "setup_succeeded"
	eventSetupFailed    = "setup_failed"
	eventStepStarted    = "step_started"
	eventTeardown       = "teardown"
)

var lifecycleEvents = []fsm.EventDesc{
	{Name: eventSetupSucceeded, Src: []string{StateCreated}, Dst: StateReady},
	{Name: eventSetupFailed, Src: []string{StateCreated}, Dst: StateTornDownFailed},
	{Name: eventStepStarted, Src: []string{StateReady}, Dst: StateRunning},
	{Name: eventTeardown, Src: []string{StateCreated, StateReady, StateRunning}, Dst: StateTornDown},
}

// World is the per-scenario state the hooks manage.
type World interface {
	Setup(ctx context.Context) error
	Teardown(ctx context.Context)
	Live() bool
	Screenshot(ctx context.Context) ([]byte, error)
}

// Options bound each hook. A zero timeout leaves the hook unbounded.
type Options struct {
	SetupTimeout    time.Duration
	TeardownTimeout time.Duration
	CaptureTimeout  time.Duration
	StepTimeout     time.Duration

	// Attacher receives failure screenshots, nil drops them after capture.
	Attacher Attacher
	// Observer is told about hook outcomes, nil ignores them.
	Observer Observer
}

func DefaultOptions() Options {
	return Options{
		SetupTimeout:    120 * time.Second,
		TeardownTimeout: 30 * time.Second,
		CaptureTimeout:  10 * time.Second,
	}
}

// Lifecycle is created for exactly one scenario and is not reused.
type Lifecycle struct {
	world   World
	options Options
	machine *fsm.FSM

	mu          sync.Mutex
	scenario    string
	setupErr    error
	attachments int
}

func New(world World, options Options) *Lifecycle {
	if options.Observer == nil {
		options.Observer = nopObserver{}
	}
	l := &Lifecycle{
		world:   world,
		options: options,
	}
	l.machine = fsm.NewFSM(StateCreated, lifecycleEvents, fsm.Callbacks{
		"enter_state": func(ctx context.Context, e *fsm.Event) {
			logger.NewLogger(ctx).V(4).Infof("Scenario state %s -> %s", e.Src, e.Dst)
		},
	})
	return l
}

// State returns the lifecycle state.
func (l *Lifecycle) State() string {
	return l.machine.Current()
}

// SetupErr returns the reason setup failed, nil if it did not.
func (l *Lifecycle) SetupErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.setupErr
}

// Attachments returns how many diagnostics were emitted.
func (l *Lifecycle) Attachments() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attachments
}

func (l *Lifecycle) logger(ctx context.Context) logger.Logger {
	return logger.NewLogger(logger.WithScenario(ctx, l.scenarioName()))
}

func (l *Lifecycle) scenarioName() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scenario
}

// BeforeScenario sets the world up within the setup timeout. On error or timeout the scenario is
// failed and no step will run. On timeout the world is torn down as well, so a session that
// finishes launching late is released.
func (l *Lifecycle) BeforeScenario(ctx context.Context, scenario string) error {
	l.mu.Lock()
	l.scenario = scenario
	l.mu.Unlock()

	log := l.logger(ctx)
	if l.State() != StateCreated {
		return errors.GeneralError("scenario %q was already set up", scenario)
	}

	log.Infof("Launching browser")
	start := time.Now()
	err := runBounded(ctx, l.options.SetupTimeout, l.world.Setup)
	timedOut := errors.HasCode(err, errors.ErrorTimeout)
	l.options.Observer.SetupFinished(time.Since(start), err)

	if err != nil {
		l.mu.Lock()
		l.setupErr = err
		l.mu.Unlock()
		l.event(ctx, eventSetupFailed)
		log.Errorf("Before hook failed: %v", err)
		if timedOut {
			l.teardown(ctx)
		}
		return err
	}

	l.event(ctx, eventSetupSucceeded)
	return nil
}

// RunStep runs one step body. It refuses to run unless setup succeeded and teardown has not
// happened yet. Errors that are not already classified are reported as step errors.
func (l *Lifecycle) RunStep(ctx context.Context, fn func(ctx context.Context) error) error {
	switch state := l.State(); state {
	case StateReady:
		l.event(ctx, eventStepStarted)
	case StateRunning:
	default:
		return errors.NotInitialized("step cannot run while the scenario is %s", state)
	}

	parent := ctx
	if l.options.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.options.StepTimeout)
		defer cancel()
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}
	// only the step's own deadline is reported as the step timeout
	if l.options.StepTimeout > 0 && ctx.Err() == context.DeadlineExceeded && parent.Err() == nil {
		return errors.Step(err, "step exceeded %s: %v", l.options.StepTimeout, err)
	}
	if ctx.Err() != nil {
		return errors.Step(err, "step aborted: %v: %v", ctx.Err(), err)
	}
	var serviceErr *errors.ServiceError
	if goerrors.As(err, &serviceErr) {
		return err
	}
	return errors.Step(err, "%v", err)
}

// AfterStep captures a screenshot when a step failed and the browser is live. Capture problems
// are logged and never change the step's outcome.
func (l *Lifecycle) AfterStep(ctx context.Context, step string, outcome StepOutcome) context.Context {
	l.options.Observer.StepFinished(outcome)
	if outcome != Failed {
		return ctx
	}

	log := logger.NewLogger(logger.WithStep(logger.WithScenario(ctx, l.scenarioName()), step))
	if !l.world.Live() {
		log.Infof("No live browser, skipping screenshot")
		return ctx
	}

	var shot []byte
	err := runBounded(ctx, l.options.CaptureTimeout, func(ctx context.Context) error {
		var err error
		shot, err = l.world.Screenshot(ctx)
		return err
	})
	if err != nil {
		log.Warningf("%v", errors.DiagnosticCapture(err, "unable to capture screenshot: %v", err))
		l.options.Observer.DiagnosticCaptured(err)
		return ctx
	}

	l.mu.Lock()
	l.attachments++
	n := l.attachments
	l.mu.Unlock()

	attachment := Attachment{
		Name:      fmt.Sprintf("%s-%d.png", slug(l.scenarioName()), n),
		MediaType: MediaTypePNG,
		Body:      shot,
	}
	if l.options.Attacher != nil {
		next, err := l.options.Attacher.Attach(ctx, attachment)
		if next != nil {
			ctx = next
		}
		if err != nil {
			log.Warningf("%v", errors.DiagnosticCapture(err, "unable to attach screenshot: %v", err))
			l.options.Observer.DiagnosticCaptured(err)
			return ctx
		}
	}

	l.options.Observer.DiagnosticCaptured(nil)
	log.Infof("Screenshot captured")
	return ctx
}

// AfterScenario tears the world down if setup succeeded. Further calls do nothing.
func (l *Lifecycle) AfterScenario(ctx context.Context) {
	switch l.State() {
	case StateReady, StateRunning:
		l.logger(ctx).Infof("Closing browser")
		l.teardown(ctx)
		l.event(ctx, eventTeardown)
	case StateCreated:
		l.event(ctx, eventTeardown)
	}
}

func (l *Lifecycle) teardown(ctx context.Context) {
	start := time.Now()
	err := runBounded(ctx, l.options.TeardownTimeout, func(ctx context.Context) error {
		l.world.Teardown(ctx)
		return nil
	})
	if err != nil {
		l.logger(ctx).Errorf("%v", errors.Teardown(err, "after hook failed: %v", err))
	}
	l.options.Observer.TeardownFinished(time.Since(start), err)
}

func (l *Lifecycle) event(ctx context.Context, event string) {
	if err := l.machine.Event(ctx, event); err != nil {
		l.logger(ctx).Warningf("Unexpected lifecycle event %s in state %s: %v", event, l.State(), err)
	}
}

// runBounded runs fn and waits at most timeout for it. On timeout fn keeps running in the
// background with a cancelled context and a timeout error is returned.
func runBounded(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Timeout("exceeded %s: %v", timeout, ctx.Err())
	}
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = strings.Trim(nonWord.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if s == "" {
		return "scenario"
	}
	return s
}
