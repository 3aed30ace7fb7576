// Package browser defines the action surface the suite drives: a launcher that acquires browser
// sessions, isolated contexts inside a session, and pages inside a context.
//
// Page objects only ever see a Page. Sessions are owned by the scenario context, which is the
// only code allowed to launch or close them.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Engine names the browser engine a session runs.
type Engine string

const (
	Chromium Engine = "chromium"
	Firefox  Engine = "firefox"
	WebKit   Engine = "webkit"
)

// Engines lists the supported engines.
var Engines = []Engine{Chromium, Firefox, WebKit}

// ParseEngine converts a case insensitive engine name.
func ParseEngine(name string) (Engine, error) {
	for _, e := range Engines {
		if strings.EqualFold(name, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unsupported browser %q, expected one of %v", name, Engines)
}

type Viewport struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// LaunchOptions configures a browser session.
type LaunchOptions struct {
	Engine   Engine
	Headless bool
	// SlowMo delays every driver operation, useful when watching a headed run.
	SlowMo time.Duration
	// Viewport of pages created in the session, zero means the driver default.
	Viewport Viewport
	// DefaultTimeout applies to page actions that are not bounded by a context deadline.
	DefaultTimeout time.Duration
}

// Launcher acquires browser sessions. Launching is slow, expect several seconds.
type Launcher interface {
	Launch(ctx context.Context, options LaunchOptions) (Session, error)
}

// Session is one running browser. Close releases it and everything created from it.
type Session interface {
	NewIsolatedContext(ctx context.Context) (Context, error)
	Close() error
}

// Context is an isolated browser context with its own cookies and storage.
type Context interface {
	NewPage(ctx context.Context) (Page, error)
}

// Page is a single tab. Every call blocks until the browser has completed it or ctx expires.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector string, value string) error
	// WaitForSelector waits until selector is visible. A zero timeout uses the context deadline.
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	Screenshot(ctx context.Context) ([]byte, error)
	LocatorCount(ctx context.Context, selector string) (int, error)
	TextContents(ctx context.Context, selector string) ([]string, error)
	URL() string
}
