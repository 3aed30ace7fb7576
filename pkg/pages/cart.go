package pages

import (
	"context"
	"sort"
	"strings"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/shared"
)

const (
	CartPath = "/cart.html"

	cartItem     = ".cart_item"
	cartItemName = ".cart_item .inventory_item_name"
)

type CartPage struct {
	page    browser.Page
	options Options
}

var _ PageObject = &CartPage{}

func (p *CartPage) ID() PageID {
	return CartPageID
}

// VerifyItemInCart waits up to the verify timeout for the item to be listed in the cart.
func (p *CartPage) VerifyItemInCart(ctx context.Context, name string) error {
	selector := textIs(cartItemName, name)
	waitErr := p.page.WaitForSelector(ctx, selector, p.options.VerifyTimeout)
	count, err := p.page.LocatorCount(ctx, selector)
	if err != nil {
		return err
	}
	if count == 0 {
		names, _ := p.ItemNames(ctx)
		return errors.Step(waitErr, "expected cart to display %q, but it contains %q", name, names)
	}
	return nil
}

func (p *CartPage) RemoveItem(ctx context.Context, name string) error {
	return p.page.Click(ctx, "#"+ElementID("remove", name))
}

func (p *CartPage) ItemCount(ctx context.Context) (int, error) {
	return p.page.LocatorCount(ctx, cartItem)
}

func (p *CartPage) ItemNames(ctx context.Context) ([]string, error) {
	texts, err := p.page.TextContents(ctx, cartItemName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(texts))
	for _, text := range texts {
		names = append(names, strings.TrimSpace(text))
	}
	return names, nil
}

// VerifyContents compares the cart with expected, ignoring order. The error carries a unified
// diff of the two lists.
func (p *CartPage) VerifyContents(ctx context.Context, expected []string) error {
	actual, err := p.ItemNames(ctx)
	if err != nil {
		return err
	}

	diff := shared.DiffLines(sortedCopy(expected), sortedCopy(actual), "Expected", "Actual")
	if diff == "" {
		return nil
	}
	return errors.Step(nil, "cart contents do not match expected:%s", diff)
}

func sortedCopy(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, strings.TrimSpace(v))
	}
	sort.Strings(result)
	return result
}
