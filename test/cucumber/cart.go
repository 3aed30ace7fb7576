// Add a product to the cart from the inventory:
//
//	When the user adds "Sauce Labs Backpack" to the cart
//
// Open the cart, the leading "the user" is optional so the step reads well after "And":
//
//	And navigates to the cart page
//
// Assert a product is in the cart:
//
//	Then the cart should display "Sauce Labs Backpack"
//
// Remove a product, from the cart page or the inventory:
//
//	When the user removes "Sauce Labs Backpack" from the cart
//
// Assert the cart holds no items:
//
//	Then the cart should be empty
//
// Assert the number on the cart icon:
//
//	Then the cart badge should show 2
//
// Assert the cart holds exactly the listed products, in any order:
//
//	Then the cart should contain:
//	  | Sauce Labs Backpack   |
//	  | Sauce Labs Bike Light |
package cucumber

import (
	"context"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/cucumber/godog"
)

func init() {
	StepModules = append(StepModules, func(ctx *godog.ScenarioContext, s *TestScenario) {
		ctx.Step(`^the user adds "([^"]*)" to the cart$`, s.theUserAddsToTheCart)
		ctx.Step(`^(?:the user )?navigates to the cart page$`, s.navigatesToTheCartPage)
		ctx.Step(`^the cart should display "([^"]*)"$`, s.theCartShouldDisplay)
		ctx.Step(`^the user removes "([^"]*)" from the cart$`, s.theUserRemovesFromTheCart)
		ctx.Step(`^the cart should be empty$`, s.theCartShouldBeEmpty)
		ctx.Step(`^the cart badge should show (\d+)$`, s.theCartBadgeShouldShow)
		ctx.Step(`^the cart should contain:$`, s.theCartShouldContain)
	})
}

func (s *TestScenario) theUserAddsToTheCart(ctx context.Context, item string) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.InventoryPage().AddItemToCart(ctx, s.Expand(item))
	})
}

func (s *TestScenario) navigatesToTheCartPage(ctx context.Context) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.InventoryPage().GoToCart(ctx)
	})
}

func (s *TestScenario) theCartShouldDisplay(ctx context.Context, item string) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.CartPage().VerifyItemInCart(ctx, s.Expand(item))
	})
}

func (s *TestScenario) theUserRemovesFromTheCart(ctx context.Context, item string) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.CartPage().RemoveItem(ctx, s.Expand(item))
	})
}

func (s *TestScenario) theCartShouldBeEmpty(ctx context.Context) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		count, err := registry.CartPage().ItemCount(ctx)
		if err != nil {
			return err
		}
		if count != 0 {
			names, _ := registry.CartPage().ItemNames(ctx)
			return errors.Step(nil, "expected cart to be empty, but it contains %d items: %q", count, names)
		}
		return nil
	})
}

func (s *TestScenario) theCartBadgeShouldShow(ctx context.Context, expected int) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		actual, err := registry.InventoryPage().CartBadgeCount(ctx)
		if err != nil {
			return err
		}
		if actual != expected {
			return errors.Step(nil, "expected cart badge to show %d, but actual is %d", expected, actual)
		}
		return nil
	})
}

func (s *TestScenario) theCartShouldContain(ctx context.Context, table *godog.Table) error {
	var expected []string
	for _, row := range GodogTableToStringTable(table) {
		if len(row) > 0 {
			expected = append(expected, s.Expand(row[0]))
		}
	}
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		return registry.CartPage().VerifyContents(ctx, expected)
	})
}

// GodogTableToStringTable returns the cell values of a Gherkin table, row by row.
func GodogTableToStringTable(table *godog.Table) [][]string {
	data := [][]string{}
	for _, row := range table.Rows {
		dataR := []string{}
		for _, c := range row.Cells {
			dataR = append(dataR, c.Value)
		}
		data = append(data, dataR)
	}
	return data
}
