// Save a screenshot of the current page as an artifact and then open the cart:
//
//	Then I take the screenshot of landing page
package cucumber

import (
	"context"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
	"github.com/cucumber/godog"
)

const landingPageScreenshot = "screenshots/landing_page.png"

func init() {
	StepModules = append(StepModules, func(ctx *godog.ScenarioContext, s *TestScenario) {
		ctx.Step(`^I take the screenshot of landing page$`, s.iTakeTheScreenshotOfLandingPage)
	})
}

func (s *TestScenario) iTakeTheScreenshotOfLandingPage(ctx context.Context) error {
	return s.Step(ctx, func(ctx context.Context, registry *pages.Registry) error {
		if s.Suite.Artifacts == nil {
			return errors.GeneralError("no artifacts directory configured for %s", landingPageScreenshot)
		}
		shot, err := s.World.Screenshot(ctx)
		if err != nil {
			return err
		}
		path, err := s.Suite.Artifacts.Save(landingPageScreenshot, shot)
		if err != nil {
			return err
		}
		logger.NewLogger(ctx).Infof("Saved landing page to %s", path)
		return registry.InventoryPage().GoToCart(ctx)
	})
}
