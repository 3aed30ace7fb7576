package environments

import (
	goerrors "errors"
	"flag"
	"os"

	"github.com/goava/di"
	"github.com/pkg/errors"

	sentryGo "github.com/getsentry/sentry-go"
	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

const (
	TestingEnv     string = "testing"
	DevelopmentEnv string = "development"
	CIEnv          string = "ci"

	EnvironmentStringKey string = "STOREFRONT_ENV"
	EnvironmentDefault          = DevelopmentEnv
)

// EnvName is the name of the environment the suite runs in.
type EnvName string

// Env wires the suite together with dependency injection.
//
// The ConfigContainer holds flags and file based configuration and exists from New on. The
// ServiceContainer, holding the launcher, the artifact store and the other run services, is
// created from it by CreateServices once the configuration is loaded and valid.
type Env struct {
	Name             string
	ConfigContainer  *di.Container
	ServiceContainer *di.Container
}

// New creates an Env named name. Types provided by options can be resolved right away.
func New(name string, options ...di.Option) (env *Env, err error) {
	env = &Env{
		Name: name,
	}

	env.ConfigContainer, err = di.New(append(options, di.ProvideValue(env))...)
	if err != nil {
		return nil, err
	}

	return env, nil
}

// GetEnvironmentStrFromEnv returns the environment named by STOREFRONT_ENV, development if unset.
func GetEnvironmentStrFromEnv() string {
	envStr, specified := os.LookupEnv(EnvironmentStringKey)
	if !specified || envStr == "" {
		glog.Infof("Environment variable %q not specified, using default %q", EnvironmentStringKey, EnvironmentDefault)
		envStr = EnvironmentDefault
	}
	return envStr
}

// AddFlags registers the flags of every ConfigModule, and the glog flags, on flags. Defaults
// of the named environment are then applied on top of the module defaults.
func (e *Env) AddFlags(flags *pflag.FlagSet) error {
	flags.AddGoFlagSet(flag.CommandLine)

	namedEnv, err := e.envLoader()
	if err != nil {
		return err
	}

	modules, err := resolveAll[ConfigModule](e.ConfigContainer)
	if err != nil {
		return err
	}
	for _, module := range modules {
		module.AddFlags(flags)
	}

	return setConfigDefaults(flags, namedEnv.Defaults())
}

// CreateServices must be called once the flags are parsed. In order it:
//  1. reads the files of every ConfigModule
//  2. lets the named EnvLoader modify the configuration
//  3. validates every ConfigValidator
//  4. builds the ServiceContainer from every ServiceProvider
//  5. invokes every AfterCreateServicesHook
//
// The ServiceContainer is left nil when any step before 4 fails.
func (env *Env) CreateServices() error {
	glog.Infof("Initializing %s environment", env.Name)

	if err := env.readFiles(); err != nil {
		return err
	}

	namedEnv, err := env.envLoader()
	if err != nil {
		return err
	}
	if err := namedEnv.ModifyConfiguration(env); err != nil {
		return err
	}

	validators, err := resolveAll[ConfigValidator](env.ConfigContainer)
	if err != nil {
		return err
	}
	for _, validator := range validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	providers, err := resolveAll[ServiceProvider](env.ConfigContainer)
	if err != nil {
		return err
	}
	var options []di.Option
	for _, provider := range providers {
		options = append(options, provider.Providers())
	}
	services, err := di.New(options...)
	if err != nil {
		return err
	}
	// the parent lets services depend on configuration types
	if err := services.AddParent(env.ConfigContainer); err != nil {
		return err
	}
	env.ServiceContainer = services

	hooks, err := resolveAll[AfterCreateServicesHook](env.ConfigContainer)
	if err != nil {
		return err
	}
	for _, hook := range hooks {
		env.MustInvoke(hook.Func)
	}

	return nil
}

func (env *Env) readFiles() error {
	modules, err := resolveAll[ConfigModule](env.ConfigContainer)
	if err != nil {
		return err
	}
	for _, module := range modules {
		if err := module.ReadFiles(); err != nil {
			err = errors.Errorf("unable to read configuration files: %s", err)
			glog.Error(err)
			sentryGo.CaptureException(err)
			return err
		}
	}
	return nil
}

func (env *Env) envLoader() (EnvLoader, error) {
	var namedEnv EnvLoader
	if err := env.ConfigContainer.Resolve(&namedEnv, di.Tags{"env": env.Name}); err != nil {
		return nil, errors.Errorf("unsupported environment %q", env.Name)
	}
	return namedEnv, nil
}

// resolveAll resolves every T provided to c, none being an empty result.
func resolveAll[T any](c *di.Container) ([]T, error) {
	var values []T
	if err := c.Resolve(&values); err != nil {
		if goerrors.Is(err, di.ErrTypeNotExists) {
			return nil, nil
		}
		return nil, err
	}
	return values, nil
}

// container returns the innermost container created so far.
func (env *Env) container() (*di.Container, string) {
	if env.ServiceContainer != nil {
		return env.ServiceContainer, "service container"
	}
	return env.ConfigContainer, "config container"
}

func (env *Env) MustInvoke(invocation di.Invocation, options ...di.InvokeOption) {
	container, containerName := env.container()
	if err := container.Invoke(invocation, options...); err != nil {
		glog.Fatalf("%s di failure: %v", containerName, err)
	}
}

func (env *Env) MustResolve(ptr di.Pointer, options ...di.ResolveOption) {
	container, containerName := env.container()
	if err := container.Resolve(ptr, options...); err != nil {
		glog.Fatalf("%s di failure: %v", containerName, err)
	}
}

func (env *Env) MustResolveAll(ptrs ...di.Pointer) {
	for _, ptr := range ptrs {
		env.MustResolve(ptr)
	}
}

// Cleanup runs the cleanup functions registered with both containers.
func (env *Env) Cleanup() {
	if env.ServiceContainer != nil {
		env.ServiceContainer.Cleanup()
	}
	env.ConfigContainer.Cleanup()
}

func setConfigDefaults(flags *pflag.FlagSet, defaults map[string]string) error {
	for name, value := range defaults {
		if err := flags.Set(name, value); err != nil {
			glog.Errorf("Error setting flag %s: %v", name, err)
			return err
		}
	}
	return nil
}
