// Package fake provides an in-memory browser action surface that behaves like the demo
// storefront. It records every call so tests can assert on lifecycle and action ordering.
package fake

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
)

// PNG is the body returned by Page.Screenshot.
var PNG = []byte("\x89PNG\r\n\x1a\nfake-screenshot")

const Password = "secret_sauce"

// Catalog lists the products the storefront sells.
var Catalog = []string{
	"Sauce Labs Backpack",
	"Sauce Labs Bike Light",
	"Sauce Labs Bolt T-Shirt",
	"Sauce Labs Fleece Jacket",
	"Sauce Labs Onesie",
	"Test.allTheThings() T-Shirt (Red)",
}

// Users that can log in with Password.
var Users = []string{"standard_user", "problem_user", "performance_glitch_user"}

const LockedOutUser = "locked_out_user"

// Launcher launches fake sessions. Zero value launches working sessions immediately.
type Launcher struct {
	// LaunchErr fails Launch.
	LaunchErr error
	// LaunchDelay delays Launch; Launch returns early on ctx cancellation unless IgnoreCancel.
	LaunchDelay  time.Duration
	IgnoreCancel bool
	// ContextErr fails Session.NewIsolatedContext.
	ContextErr error
	// PageErr fails Context.NewPage.
	PageErr error
	// CloseErr fails Session.Close, the session still counts as closed.
	CloseErr error
	// ScreenshotErr fails Page.Screenshot.
	ScreenshotErr error
	// ClickErrs fails clicks on the given selectors.
	ClickErrs map[string]error

	mu       sync.Mutex
	sessions []*Session
	events   []string
}

var _ browser.Launcher = &Launcher{}

func (l *Launcher) Launch(ctx context.Context, options browser.LaunchOptions) (browser.Session, error) {
	l.record("launch")
	if l.LaunchDelay > 0 {
		timer := time.NewTimer(l.LaunchDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			if !l.IgnoreCancel {
				return nil, ctx.Err()
			}
			<-timer.C
		}
	}
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}

	s := &Session{launcher: l, Options: options}
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

func (l *Launcher) record(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Events returns the recorded calls in order.
func (l *Launcher) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// Sessions returns every session launched so far.
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}

// Count returns how many times event was recorded.
func (l *Launcher) Count(event string) int {
	n := 0
	for _, e := range l.Events() {
		if e == event || strings.HasPrefix(e, event+" ") {
			n++
		}
	}
	return n
}

// OpenSessions returns the number of launched sessions not closed yet.
func (l *Launcher) OpenSessions() int {
	n := 0
	for _, s := range l.Sessions() {
		if !s.Closed() {
			n++
		}
	}
	return n
}

type Session struct {
	Options browser.LaunchOptions

	launcher *Launcher
	mu       sync.Mutex
	closed   int
	pages    []*Page
}

func (s *Session) NewIsolatedContext(ctx context.Context) (browser.Context, error) {
	s.launcher.record("new-context")
	if s.launcher.ContextErr != nil {
		return nil, s.launcher.ContextErr
	}
	return &isolatedContext{session: s}, nil
}

func (s *Session) Close() error {
	s.launcher.record("close")
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return s.launcher.CloseErr
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed > 0
}

// CloseCount returns how many times Close was called.
func (s *Session) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Pages returns the pages opened in the session.
func (s *Session) Pages() []*Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Page(nil), s.pages...)
}

type isolatedContext struct {
	session *Session
}

func (c *isolatedContext) NewPage(ctx context.Context) (browser.Page, error) {
	c.session.launcher.record("new-page")
	if c.session.launcher.PageErr != nil {
		return nil, c.session.launcher.PageErr
	}
	p := NewPage()
	p.launcher = c.session.launcher
	c.session.mu.Lock()
	c.session.pages = append(c.session.pages, p)
	c.session.mu.Unlock()
	return p, nil
}

var (
	idSelector     = regexp.MustCompile(`^#(add-to-cart|remove)-(.+)$`)
	textIsSelector = regexp.MustCompile(`^(.+):text-is\("(.*)"\)$`)
)

// Page simulates the storefront: a login form, the inventory and the cart.
type Page struct {
	launcher *Launcher

	mu       sync.Mutex
	baseURL  string
	url      string
	inputs   map[string]string
	loggedIn bool
	errorMsg string
	cart     []string
	actions  []string
}

var _ browser.Page = &Page{}

func NewPage() *Page {
	return &Page{url: "about:blank", inputs: map[string]string{}}
}

// Actions returns the calls made on the page, e.g. "click #login-button".
func (p *Page) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// Cart returns the names of the items in the cart.
func (p *Page) Cart() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.cart...)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "navigate "+url)

	if p.baseURL == "" {
		p.baseURL = strings.TrimSuffix(url, "/")
	}
	switch {
	case strings.TrimSuffix(url, "/") == p.baseURL:
		p.url = p.baseURL + "/"
	case p.loggedIn:
		p.url = url
	default:
		p.url = p.baseURL + "/"
		p.errorMsg = "Epic sadface: You can only access '" + strings.TrimPrefix(url, p.baseURL) + "' when you are logged in."
	}
	return nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "click "+selector)

	if p.launcher != nil {
		if err, ok := p.launcher.ClickErrs[selector]; ok {
			return err
		}
	}

	switch {
	case selector == "#login-button" && p.page() == "login":
		p.login()
		return nil
	case selector == ".shopping_cart_link" && p.loggedIn:
		p.url = p.baseURL + "/cart.html"
		return nil
	}

	if m := idSelector.FindStringSubmatch(selector); m != nil && p.loggedIn {
		name, ok := productBySlug(m[2])
		inCart := p.inCart(name)
		switch {
		case ok && m[1] == "add-to-cart" && !inCart && p.page() == "inventory":
			p.cart = append(p.cart, name)
			return nil
		case ok && m[1] == "remove" && inCart:
			p.removeFromCart(name)
			return nil
		}
	}
	return fmt.Errorf("timeout: waiting for locator(%q) to be visible", selector)
}

func (p *Page) Fill(ctx context.Context, selector string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "fill "+selector)
	if p.page() != "login" {
		return fmt.Errorf("timeout: waiting for locator(%q) to be visible", selector)
	}
	p.inputs[selector] = value
	return nil
}

func (p *Page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "wait "+selector)
	if len(p.texts(selector)) == 0 {
		return fmt.Errorf("timeout %s exceeded: waiting for locator(%q) to be visible", timeout, selector)
	}
	return nil
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, "screenshot")
	if p.launcher != nil && p.launcher.ScreenshotErr != nil {
		return nil, p.launcher.ScreenshotErr
	}
	return bytes.Clone(PNG), nil
}

func (p *Page) LocatorCount(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.texts(selector)), nil
}

func (p *Page) TextContents(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texts(selector), nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) page() string {
	switch {
	case p.url == p.baseURL+"/":
		return "login"
	case p.url == p.baseURL+"/inventory.html":
		return "inventory"
	case p.url == p.baseURL+"/cart.html":
		return "cart"
	}
	return ""
}

func (p *Page) login() {
	user := p.inputs["#user-name"]
	switch {
	case user == LockedOutUser && p.inputs["#password"] == Password:
		p.errorMsg = "Epic sadface: Sorry, this user has been locked out."
	case contains(Users, user) && p.inputs["#password"] == Password:
		p.loggedIn = true
		p.errorMsg = ""
		p.url = p.baseURL + "/inventory.html"
	default:
		p.errorMsg = "Epic sadface: Username and password do not match any user in this service"
	}
}

// texts returns the text of every element matching selector on the current page.
func (p *Page) texts(selector string) []string {
	class, want, filtered := selector, "", false
	if m := textIsSelector.FindStringSubmatch(selector); m != nil {
		class, want, filtered = m[1], m[2], true
	}

	var texts []string
	switch class {
	case `[data-test="error"]`:
		if p.page() == "login" && p.errorMsg != "" {
			texts = []string{p.errorMsg}
		}
	case ".inventory_list":
		if p.page() == "inventory" {
			texts = []string{strings.Join(Catalog, "\n")}
		}
	case ".inventory_item_name":
		switch p.page() {
		case "inventory":
			texts = append(texts, Catalog...)
		case "cart":
			texts = append(texts, p.cart...)
		}
	case ".cart_item", ".cart_item .inventory_item_name":
		if p.page() == "cart" {
			texts = append(texts, p.cart...)
		}
	case ".shopping_cart_badge":
		if p.loggedIn && len(p.cart) > 0 {
			texts = []string{fmt.Sprintf("%d", len(p.cart))}
		}
	}

	if !filtered {
		return texts
	}
	var matched []string
	for _, t := range texts {
		if t == want {
			matched = append(matched, t)
		}
	}
	return matched
}

func (p *Page) inCart(name string) bool {
	return contains(p.cart, name)
}

func (p *Page) removeFromCart(name string) {
	for i, item := range p.cart {
		if item == name {
			p.cart = append(p.cart[:i], p.cart[i+1:]...)
			return
		}
	}
}

var nonSlug = regexp.MustCompile(`\s+`)

func productBySlug(slug string) (string, bool) {
	for _, name := range Catalog {
		if nonSlug.ReplaceAllString(strings.ToLower(name), "-") == slug {
			return name, true
		}
	}
	return "", false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
