// Package world holds the state shared by the steps of one scenario: the browser session it owns
// and the page objects bound to that session.
//
// A ScenarioContext is created empty for each scenario, populated once by Setup and released
// once by Teardown. It is never reused across scenarios.
package world

import (
	"context"
	"sync"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/pages"
)

type Options struct {
	Launch browser.LaunchOptions
	Pages  pages.Options
}

// ScenarioContext owns at most one browser session. registry is non nil exactly when session is.
type ScenarioContext struct {
	launcher browser.Launcher
	options  Options

	mu       sync.Mutex
	session  browser.Session
	page     browser.Page
	registry *pages.Registry
	// released is set by Teardown; a session acquired afterwards is closed straight away.
	released bool
}

func New(launcher browser.Launcher, options Options) *ScenarioContext {
	return &ScenarioContext{
		launcher: launcher,
		options:  options,
	}
}

// Setup launches a browser session, opens an isolated context and a page in it, and binds the
// page object registry to that page. It must be called at most once.
//
// On failure nothing is held: any partially acquired session is closed and a setup error naming
// the reason is returned.
func (w *ScenarioContext) Setup(ctx context.Context) error {
	log := logger.NewLogger(ctx)

	session, err := w.launcher.Launch(ctx, w.options.Launch)
	if err != nil {
		log.Warningf("Failed to launch browser: %v", err)
		return errors.Setup(err, "unable to launch %s: %v", engineName(w.options.Launch.Engine), err)
	}

	page, err := openPage(ctx, session)
	if err != nil {
		w.release(ctx, session)
		return errors.Setup(err, "unable to open page: %v", err)
	}

	w.mu.Lock()
	if w.released {
		w.mu.Unlock()
		w.release(ctx, session)
		return errors.Setup(nil, "scenario was torn down while the browser was launching")
	}
	w.session = session
	w.page = page
	w.registry = pages.NewRegistry(page, w.options.Pages)
	w.mu.Unlock()

	log.Infof("Browser launched")
	return nil
}

func openPage(ctx context.Context, session browser.Session) (browser.Page, error) {
	bctx, err := session.NewIsolatedContext(ctx)
	if err != nil {
		return nil, err
	}
	return bctx.NewPage(ctx)
}

// Teardown releases the session if one is held. It never fails: release errors are logged and
// dropped since the scenario verdict is already decided when it runs.
func (w *ScenarioContext) Teardown(ctx context.Context) {
	w.mu.Lock()
	session := w.session
	w.session = nil
	w.page = nil
	w.registry = nil
	w.released = true
	w.mu.Unlock()

	if session == nil {
		return
	}
	w.release(ctx, session)
}

func (w *ScenarioContext) release(ctx context.Context, session browser.Session) {
	log := logger.NewLogger(ctx)
	if err := session.Close(); err != nil {
		log.Errorf("%v", errors.Teardown(err, "failed to close browser: %v", err))
		return
	}
	log.Infof("Browser closed")
}

// Live reports whether a session is held.
func (w *ScenarioContext) Live() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session != nil
}

// PageObject returns the page object registered for id.
func (w *ScenarioContext) PageObject(id pages.PageID) (pages.PageObject, error) {
	registry, err := w.Pages()
	if err != nil {
		return nil, err
	}
	return registry.Get(id)
}

// Pages returns the page object registry of the live session.
func (w *ScenarioContext) Pages() (*pages.Registry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.registry == nil {
		return nil, errors.NotInitialized("page objects requested before the browser was set up")
	}
	return w.registry, nil
}

// Page returns the raw page of the live session.
func (w *ScenarioContext) Page() (browser.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.page == nil {
		return nil, errors.NotInitialized("page requested before the browser was set up")
	}
	return w.page, nil
}

// Screenshot captures the current page.
func (w *ScenarioContext) Screenshot(ctx context.Context) ([]byte, error) {
	page, err := w.Page()
	if err != nil {
		return nil, err
	}
	return page.Screenshot(ctx)
}

// BaseURL returns the storefront address the page objects use.
func (w *ScenarioContext) BaseURL() string {
	return w.options.Pages.BaseURL
}

func engineName(engine browser.Engine) string {
	if engine == "" {
		return string(browser.Chromium)
	}
	return string(engine)
}
