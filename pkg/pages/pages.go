// Package pages wraps the browser action surface in one page object per storefront page.
//
// Page objects hold a non-owning reference to the scenario's page: they never launch, replace or
// close a browser session.
package pages

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
)

// PageID identifies a page object in the Registry.
type PageID int

const (
	LoginPageID PageID = iota
	InventoryPageID
	CartPageID
)

// PageIDs lists every registered page.
var PageIDs = []PageID{LoginPageID, InventoryPageID, CartPageID}

func (id PageID) String() string {
	switch id {
	case LoginPageID:
		return "login"
	case InventoryPageID:
		return "inventory"
	case CartPageID:
		return "cart"
	}
	return fmt.Sprintf("page(%d)", int(id))
}

// PageObject is implemented by every page object.
type PageObject interface {
	ID() PageID
}

// Options configure the page objects of a registry.
type Options struct {
	// BaseURL of the storefront, without trailing slash.
	BaseURL string
	// VerifyTimeout bounds how long verifications wait for content before failing.
	VerifyTimeout time.Duration
}

var whitespace = regexp.MustCompile(`\s+`)

// ElementID derives the storefront's element id for an item: the name is lowercased, whitespace
// runs become a single hyphen, and prefix is prepended. The name is not trimmed, so a leading
// space yields a doubled hyphen the way the storefront does.
//
//	ElementID("add-to-cart", "Sauce Labs Backpack") == "add-to-cart-sauce-labs-backpack"
func ElementID(prefix, name string) string {
	return prefix + "-" + whitespace.ReplaceAllString(strings.ToLower(name), "-")
}

// textIs builds a selector matching elements of class whose whole text is text.
func textIs(class, text string) string {
	return fmt.Sprintf("%s:text-is(%q)", class, text)
}

// Registry lazily builds page objects bound to one page. It is created once per session.
type Registry struct {
	page    browser.Page
	options Options

	mu      sync.Mutex
	objects map[PageID]PageObject
}

func NewRegistry(page browser.Page, options Options) *Registry {
	options.BaseURL = strings.TrimSuffix(options.BaseURL, "/")
	return &Registry{
		page:    page,
		options: options,
		objects: map[PageID]PageObject{},
	}
}

// Get returns the page object for id, building it on first use.
func (r *Registry) Get(id PageID) (PageObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if object, ok := r.objects[id]; ok {
		return object, nil
	}

	var object PageObject
	switch id {
	case LoginPageID:
		object = &LoginPage{page: r.page, options: r.options}
	case InventoryPageID:
		object = &InventoryPage{page: r.page, options: r.options}
	case CartPageID:
		object = &CartPage{page: r.page, options: r.options}
	default:
		return nil, errors.UnknownPage("no page object registered for %s", id)
	}
	r.objects[id] = object
	return object, nil
}

func (r *Registry) LoginPage() *LoginPage {
	object, _ := r.Get(LoginPageID)
	return object.(*LoginPage)
}

func (r *Registry) InventoryPage() *InventoryPage {
	object, _ := r.Get(InventoryPageID)
	return object.(*InventoryPage)
}

func (r *Registry) CartPage() *CartPage {
	object, _ := r.Get(CartPageID)
	return object.(*CartPage)
}
