// Package playwright implements the browser action surface on top of playwright-go.
//
// Playwright calls are not context aware, so every call is bounded by a timeout derived from the
// context deadline instead.
package playwright

import (
	"context"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/pkg/errors"
	pw "github.com/playwright-community/playwright-go"
)

// Launcher starts one playwright driver and one browser per session, so sessions of parallel
// scenarios share nothing.
type Launcher struct {
	// RunOptions are passed to playwright.Run, nil uses the installed driver.
	RunOptions *pw.RunOptions
}

var _ browser.Launcher = &Launcher{}

func NewLauncher() *Launcher {
	return &Launcher{}
}

func (l *Launcher) Launch(ctx context.Context, options browser.LaunchOptions) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var runOptions []*pw.RunOptions
	if l.RunOptions != nil {
		runOptions = append(runOptions, l.RunOptions)
	}
	driver, err := pw.Run(runOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to start playwright")
	}

	browserType, err := browserTypeFor(driver, options.Engine)
	if err != nil {
		_ = driver.Stop()
		return nil, err
	}

	launchOptions := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(options.Headless),
		Timeout:  timeoutFrom(ctx, 0),
	}
	if options.SlowMo > 0 {
		launchOptions.SlowMo = pw.Float(float64(options.SlowMo.Milliseconds()))
	}

	b, err := browserType.Launch(launchOptions)
	if err != nil {
		_ = driver.Stop()
		return nil, errors.Wrapf(err, "unable to launch %s", options.Engine)
	}

	return &session{driver: driver, browser: b, options: options}, nil
}

func browserTypeFor(driver *pw.Playwright, engine browser.Engine) (pw.BrowserType, error) {
	switch engine {
	case browser.Chromium, "":
		return driver.Chromium, nil
	case browser.Firefox:
		return driver.Firefox, nil
	case browser.WebKit:
		return driver.WebKit, nil
	}
	return nil, errors.Errorf("unsupported browser %q", engine)
}

type session struct {
	driver  *pw.Playwright
	browser pw.Browser
	options browser.LaunchOptions
}

func (s *session) NewIsolatedContext(ctx context.Context) (browser.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextOptions := pw.BrowserNewContextOptions{}
	if s.options.Viewport.Width > 0 && s.options.Viewport.Height > 0 {
		contextOptions.Viewport = &pw.Size{
			Width:  s.options.Viewport.Width,
			Height: s.options.Viewport.Height,
		}
	}

	bctx, err := s.browser.NewContext(contextOptions)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create browser context")
	}
	if s.options.DefaultTimeout > 0 {
		bctx.SetDefaultTimeout(float64(s.options.DefaultTimeout.Milliseconds()))
	}
	return &isolatedContext{context: bctx}, nil
}

// Close closes the browser and then stops the driver. Both are attempted even if the first fails.
func (s *session) Close() error {
	browserErr := s.browser.Close()
	driverErr := s.driver.Stop()
	if browserErr != nil {
		return errors.Wrap(browserErr, "unable to close browser")
	}
	if driverErr != nil {
		return errors.Wrap(driverErr, "unable to stop playwright")
	}
	return nil
}

type isolatedContext struct {
	context pw.BrowserContext
}

func (c *isolatedContext) NewPage(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := c.context.NewPage()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open page")
	}
	return &page{page: p}, nil
}

type page struct {
	page pw.Page
}

func (p *page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, pw.PageGotoOptions{Timeout: timeoutFrom(ctx, 0)})
	return errors.Wrapf(err, "unable to navigate to %s", url)
}

func (p *page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.page.Locator(selector).Click(pw.LocatorClickOptions{Timeout: timeoutFrom(ctx, 0)})
	return errors.Wrapf(err, "unable to click %s", selector)
}

func (p *page) Fill(ctx context.Context, selector string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.page.Locator(selector).Fill(value, pw.LocatorFillOptions{Timeout: timeoutFrom(ctx, 0)})
	return errors.Wrapf(err, "unable to fill %s", selector)
}

func (p *page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.page.Locator(selector).WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateVisible,
		Timeout: timeoutFrom(ctx, timeout),
	})
	return errors.Wrapf(err, "%s did not become visible", selector)
}

func (p *page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := p.page.Screenshot(pw.PageScreenshotOptions{
		Timeout: timeoutFrom(ctx, 0),
		Type:    pw.ScreenshotTypePng,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to take screenshot")
	}
	return buf, nil
}

func (p *page) LocatorCount(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := p.page.Locator(selector).Count()
	if err != nil {
		return 0, errors.Wrapf(err, "unable to count %s", selector)
	}
	return count, nil
}

func (p *page) TextContents(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := p.page.Locator(selector).AllTextContents()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read text of %s", selector)
	}
	return texts, nil
}

func (p *page) URL() string {
	return p.page.URL()
}

// timeoutFrom returns the playwright timeout in milliseconds: the smaller of limit and the time
// left before the ctx deadline. Nil lets playwright apply the context default timeout.
func timeoutFrom(ctx context.Context, limit time.Duration) *float64 {
	remaining := limit
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			left = time.Millisecond
		}
		if remaining <= 0 || left < remaining {
			remaining = left
		}
	}
	if remaining <= 0 {
		return nil
	}
	ms := remaining.Milliseconds()
	if ms < 1 {
		// zero disables the playwright timeout
		ms = 1
	}
	return pw.Float(float64(ms))
}
