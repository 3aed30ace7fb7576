// Stores a value in a scenario variable, the value is expanded first:
//
//	Given I store "${params.users.standard.username}" as ${user}
//
// Sleeps for the given number of seconds, e.g. to let an animation settle:
//
//	And I sleep for 0.5 second
package cucumber

import (
	"context"
	"time"

	"github.com/cucumber/godog"
)

func init() {
	StepModules = append(StepModules, func(ctx *godog.ScenarioContext, s *TestScenario) {
		ctx.Step(`^I store "([^"]*)" as \${([^"]*)}$`, s.iStoreAs)
		ctx.Step(`^I sleep for (\d+(?:\.\d+)?) seconds?$`, s.iSleepForSecond)
	})
}

func (s *TestScenario) iStoreAs(ctx context.Context, value string, as string) error {
	return s.Lifecycle.RunStep(ctx, func(ctx context.Context) error {
		s.Variables[as] = s.Expand(value)
		return nil
	})
}

func (s *TestScenario) iSleepForSecond(ctx context.Context, seconds float64) error {
	return s.Lifecycle.RunStep(ctx, func(ctx context.Context) error {
		timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
