// Open the storefront's login form:
//
//	Given the user is on the login page
//
// Log in, the arguments are expanded so world parameters can be used:
//
//	When the user logs in using "standard_user" and "${params.password}"
//
// Assert the login landed on the inventory:
//
//	Then the user should be redirected to the inventory page
//
// Assert the login was refused with a message:
//
//	Then the login should fail with "Sorry, this user has been locked out."
//
// Assert a product is listed in the inventory:
//
//	Then the inventory should list "Sauce Labs Backpack"
package cucumber

import (
	"context"
	"strings"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/cucumber/godog"
)

func init() {
	StepModules = append(StepModules, func(ctx *godog.ScenarioContext, s *TestScenario) {
		ctx.Step(`^the user is on the login page$`, s.theUserIsOnTheLoginPage)
		ctx.Step(`^the user logs in using "([^"]*)" and "([^"]*)"$`, s.theUserLogsInUsing)
		ctx.Step(`^the user should be redirected to the inventory page$`, s.theUserShouldBeRedirectedToTheInventoryPage)
		ctx.Step(`^the login should fail with "([^"]*)"$`, s.theLoginShouldFailWith)
		ctx.Step(`^the inventory should list "([^"]*)"$`, s.theInventoryShouldList)
	})
}

func (s *TestScenario) theUserIsOnTheLoginPage(ctx context.Context) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.LoginPage().Open(ctx)
	})
}

func (s *TestScenario) theUserLogsInUsing(ctx context.Context, username, password string) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.LoginPage().Login(ctx, s.Expand(username), s.Expand(password))
	})
}

func (s *TestScenario) theUserShouldBeRedirectedToTheInventoryPage(ctx context.Context) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.InventoryPage().VerifyLoaded(ctx)
	})
}

func (s *TestScenario) theLoginShouldFailWith(ctx context.Context, expected string) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		actual, err := registry.LoginPage().ErrorMessage(ctx)
		if err != nil {
			return err
		}
		expected = s.Expand(expected)
		if !strings.Contains(actual, expected) {
			return errors.Step(nil, "expected login error to contain %q, but actual is %q", expected, actual)
		}
		return nil
	})
}

func (s *TestScenario) theInventoryShouldList(ctx context.Context, item string) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.InventoryPage().VerifyItemInInventory(ctx, s.Expand(item))
	})
}
