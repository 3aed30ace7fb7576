// Package preflight checks that the storefront under test answers before any browser is launched.
package preflight

import (
	"context"
	"net/http"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryCount = 2
)

type Checker struct {
	client *resty.Client
}

// NewChecker returns a Checker with the given per-request timeout. Transient failures and 5xx
// answers are retried.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
		})
	return &Checker{client: client}
}

// Check requests baseURL and fails unless it answers with a 2xx or 3xx status.
func (c *Checker) Check(ctx context.Context, baseURL string) error {
	log := logger.NewLogger(ctx)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(baseURL)
	if err != nil {
		return errors.Preflight(err, "%s is not reachable: %v", baseURL, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return errors.Preflight(nil, "%s answered with status %d", baseURL, resp.StatusCode())
	}

	log.Infof("Storefront %s answered %d in %s", baseURL, resp.StatusCode(), resp.Time())
	return nil
}
