package environments

type EnvLoader interface {
	Defaults() map[string]string
	ModifyConfiguration(env *Env) error
}

type SimpleEnvLoader map[string]string

var _ EnvLoader = SimpleEnvLoader{}

func (b SimpleEnvLoader) Defaults() map[string]string {
	return b
}

func (b SimpleEnvLoader) ModifyConfiguration(env *Env) error {
	return nil
}

// The development environment is for writing scenarios: the browser window is shown and slowed
// down so the steps can be followed.
func newDevelopmentEnvLoader() EnvLoader {
	return SimpleEnvLoader{
		"v":                     "4",
		"headless":              "false",
		"slow-mo":               "250ms",
		"profiles-file":         "config/profiles.yaml",
		"world-parameters-file": "config/world-parameters.yaml",
	}
}

// The testing environment is for automated tests of the suite itself. Nothing leaves the machine.
func newTestingEnvLoader() EnvLoader {
	return SimpleEnvLoader{
		"headless":  "true",
		"preflight": "false",
	}
}

// The ci environment runs headless with the ci profile.
func newCIEnvLoader() EnvLoader {
	return SimpleEnvLoader{
		"v":                     "1",
		"headless":              "true",
		"profile":               "ci",
		"profiles-file":         "config/profiles.yaml",
		"world-parameters-file": "config/world-parameters.yaml",
	}
}
