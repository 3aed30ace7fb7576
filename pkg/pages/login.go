package pages

import (
	"context"
	"strings"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/browser"
)

const (
	usernameInput = "#user-name"
	passwordInput = "#password"
	loginButton   = "#login-button"
	loginError    = `[data-test="error"]`
)

type LoginPage struct {
	page    browser.Page
	options Options
}

var _ PageObject = &LoginPage{}

func (p *LoginPage) ID() PageID {
	return LoginPageID
}

// Open navigates to the storefront's landing page, which is the login form.
func (p *LoginPage) Open(ctx context.Context) error {
	return p.page.Navigate(ctx, p.options.BaseURL)
}

func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	if err := p.page.Fill(ctx, usernameInput, username); err != nil {
		return err
	}
	if err := p.page.Fill(ctx, passwordInput, password); err != nil {
		return err
	}
	return p.page.Click(ctx, loginButton)
}

// ErrorMessage returns the login form's error banner, empty when there is none.
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	texts, err := p.page.TextContents(ctx, loginError)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(texts, " ")), nil
}
