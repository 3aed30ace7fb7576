package sentry

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/config"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/environments"
	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"
)

// Initialize sets up the Sentry client used by the logger to report hook failures. Every event is
// tagged with the browser and storefront of the run. A disabled config installs a client with an
// empty DSN, which drops every event.
func Initialize(envName environments.EnvName, c *Config, suite *config.SuiteConfig) error {
	options := sentry.ClientOptions{
		Transport: &sentry.HTTPTransport{
			Timeout: c.Timeout,
		},
		Debug:            c.Debug,
		AttachStacktrace: true,
		Environment:      string(envName),
	}

	if c.Enabled {
		glog.Infof("Sentry error reporting enabled to %s on project %s", c.URL, c.Project)
		options.Dsn = fmt.Sprintf("https://%s@%s/%s", c.Key, c.URL, c.Project)
	} else {
		glog.Infof("Disabling Sentry error reporting")
	}

	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		options.ServerName = hostname
	}

	if err := sentry.Init(options); err != nil {
		glog.Errorf("Unable to initialize sentry integration: %s", err.Error())
		return err
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(Tags(suite))
	})
	return nil
}

// Tags describe the run in every event.
func Tags(suite *config.SuiteConfig) map[string]string {
	return map[string]string{
		"browser":  suite.Browser,
		"base_url": suite.BaseURL,
		"headless": strconv.FormatBool(suite.Headless),
	}
}
