package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
)

const (
	InventoryPath = "/inventory.html"

	inventoryList = ".inventory_list"
	itemName      = ".inventory_item_name"
	cartLink      = ".shopping_cart_link"
	cartBadge     = ".shopping_cart_badge"
)

type InventoryPage struct {
	page    browser.Page
	options Options
}

var _ PageObject = &InventoryPage{}

func (p *InventoryPage) ID() PageID {
	return InventoryPageID
}

func (p *InventoryPage) AddItemToCart(ctx context.Context, name string) error {
	return p.page.Click(ctx, "#"+ElementID("add-to-cart", name))
}

func (p *InventoryPage) RemoveItem(ctx context.Context, name string) error {
	return p.page.Click(ctx, "#"+ElementID("remove", name))
}

func (p *InventoryPage) GoToCart(ctx context.Context) error {
	return p.page.Click(ctx, cartLink)
}

// VerifyLoaded waits for the inventory list and checks the browser is on the inventory URL.
func (p *InventoryPage) VerifyLoaded(ctx context.Context) error {
	if err := p.page.WaitForSelector(ctx, inventoryList, p.options.VerifyTimeout); err != nil {
		return errors.Step(err, "inventory page did not load, current url is %s", p.page.URL())
	}
	want := p.options.BaseURL + InventoryPath
	if got := p.page.URL(); got != want {
		return errors.Step(nil, "expected url %s, but actual is %s", want, got)
	}
	return nil
}

// VerifyItemInInventory waits up to the verify timeout for the item to show and then asserts it
// is listed. A missing item is a step failure.
func (p *InventoryPage) VerifyItemInInventory(ctx context.Context, name string) error {
	selector := textIs(itemName, name)
	waitErr := p.page.WaitForSelector(ctx, selector, p.options.VerifyTimeout)
	count, err := p.page.LocatorCount(ctx, selector)
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.Step(waitErr, "expected %q to be listed in the inventory", name)
	}
	return nil
}

// CartBadgeCount returns the number shown on the cart icon, zero when the badge is hidden.
func (p *InventoryPage) CartBadgeCount(ctx context.Context) (int, error) {
	texts, err := p.page.TextContents(ctx, cartBadge)
	if err != nil {
		return 0, err
	}
	if len(texts) == 0 || strings.TrimSpace(texts[0]) == "" {
		return 0, nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(texts[0]))
	if err != nil {
		return 0, fmt.Errorf("unexpected cart badge %q: %w", texts[0], err)
	}
	return count, nil
}
