package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/shared"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

const DefaultProfile = "default"

// Profile is a named set of run options.
type Profile struct {
	Name string `yaml:"-"`
	// Format lists formatters as "name" or "name:path".
	Format    []string      `yaml:"format" validate:"min=1,dive,report_format"`
	Paths     []string      `yaml:"paths" validate:"min=1,dive,required"`
	Tags      string        `yaml:"tags"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	Parallel  int           `yaml:"parallel" validate:"min=1,max=64"`
	Strict    bool          `yaml:"strict"`
	DryRun    bool          `yaml:"dry_run"`
	FailFast  bool          `yaml:"fail_fast"`
	Randomize bool          `yaml:"randomize"`
}

// Profiles maps profile names to profiles.
type Profiles map[string]Profile

// BuiltinProfiles returns the profiles available without a profiles file.
func BuiltinProfiles() Profiles {
	base := Profile{
		Name:     DefaultProfile,
		Format:   []string{"progress", "cucumber:reports/cucumber-report.json"},
		Paths:    []string{"features"},
		Timeout:  120 * time.Second,
		Parallel: 1,
		Strict:   true,
	}

	smoke := base.derive("smoke")
	smoke.Format = []string{"progress", "cucumber:reports/smoke-report.json"}
	smoke.Tags = "@smoke"
	smoke.Timeout = 60 * time.Second

	regression := base.derive("regression")
	regression.Format = []string{"progress", "cucumber:reports/regression-report.json"}
	regression.Tags = "@regression"
	regression.Timeout = 180 * time.Second
	regression.Parallel = 2

	ci := base.derive("ci")
	ci.Format = []string{"progress", "cucumber:reports/cucumber-report.json", "junit:reports/junit.xml"}
	ci.Timeout = 180 * time.Second
	ci.Parallel = 4

	return Profiles{
		base.Name:       base,
		smoke.Name:      smoke,
		regression.Name: regression,
		ci.Name:         ci,
	}
}

// derive copies p under a new name.
func (p Profile) derive(name string) Profile {
	p.Name = name
	p.Format = append([]string(nil), p.Format...)
	p.Paths = append([]string(nil), p.Paths...)
	return p
}

// Names returns the profile names, sorted.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named profile.
func (p Profiles) Get(name string) (Profile, error) {
	profile, ok := p[name]
	if !ok {
		return Profile{}, errors.Validation("unknown profile %q, expected one of %s", name, strings.Join(p.Names(), ", "))
	}
	return profile, nil
}

// Merge overlays profiles defined in a YAML document. A profile of the document starts from the
// built-in profile of the same name, or from the default profile, and only the fields present in
// the document replace it.
func (p Profiles) Merge(document []byte) error {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(document, &raw); err != nil {
		return errors.Validation("invalid profiles: %v", err)
	}

	for name, fields := range raw {
		base, ok := p[name]
		if !ok {
			base = p[DefaultProfile]
		}
		profile := base.derive(name)

		overlay, err := yaml.Marshal(fields)
		if err != nil {
			return errors.Validation("invalid profile %q: %v", name, err)
		}
		if err := yaml.UnmarshalStrict(overlay, &profile); err != nil {
			return errors.Validation("invalid profile %q: %v", name, err)
		}
		p[name] = profile
	}
	return nil
}

func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Validation("invalid profile %q: %v", p.Name, err)
	}
	return nil
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (tags %q, parallel %d, timeout %s)", p.Name, p.Tags, p.Parallel, p.Timeout)
}

// ProfilesConfig selects the profile of a run.
type ProfilesConfig struct {
	File     string
	Name     string
	Profiles Profiles
}

func NewProfilesConfig() *ProfilesConfig {
	return &ProfilesConfig{
		Name:     DefaultProfile,
		Profiles: BuiltinProfiles(),
	}
}

func (c *ProfilesConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Name, "profile", "p", c.Name, "Profile to run: default, smoke, regression, ci or one defined in the profiles file")
	fs.StringVar(&c.File, "profiles-file", c.File, "YAML file overriding or adding profiles")
}

func (c *ProfilesConfig) ReadFiles() error {
	content, err := shared.ReadFile(c.File)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}
	return c.Profiles.Merge([]byte(content))
}

// Selected returns the validated profile chosen for the run.
func (c *ProfilesConfig) Selected() (Profile, error) {
	profile, err := c.Profiles.Get(c.Name)
	if err != nil {
		return Profile{}, err
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
