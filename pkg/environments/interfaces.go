package environments

import (
	"github.com/goava/di"
	"github.com/spf13/pflag"
)

// ConfigModule values can load configuration from flags and files
type ConfigModule interface {
	AddFlags(fs *pflag.FlagSet)
	ReadFiles() error
}

// ConfigValidator values are validated once every ConfigModule has read its files.
type ConfigValidator interface {
	Validate() error
}

// AfterCreateServicesHook functions are invoked with the service container once it is created.
type AfterCreateServicesHook struct {
	Func di.Invocation
}

// ServiceProvider contributes the options the service container is built with.
type ServiceProvider interface {
	Providers() di.Option
}

// Func adapts a function returning options to a ServiceProvider constructor.
func Func(f func() di.Option) func() ServiceProvider {
	return func() ServiceProvider {
		return providerFunc{apply: f}
	}
}

type providerFunc struct {
	apply func() di.Option
}

func (s providerFunc) Providers() di.Option {
	return s.apply()
}
