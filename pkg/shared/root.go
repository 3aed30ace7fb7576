package shared

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

const moduleName = "github.com/bf2fc6cc711aee1a0c2a/storefront-e2e"

// ProjectRootEnvKey overrides the project root, e.g. when the binary runs outside a checkout.
const ProjectRootEnvKey = "STOREFRONT_E2E_ROOT"

// GetProjectRootDir returns the directory features/ and config/ are resolved against: the
// STOREFRONT_E2E_ROOT directory if set, else the closest parent of the working directory whose
// go.mod declares this module, else the working directory.
func GetProjectRootDir() string {
	if root := os.Getenv(ProjectRootEnvKey); root != "" {
		return root
	}

	workingDir, err := os.Getwd()
	if err != nil {
		glog.Fatal(err)
	}
	for dir := workingDir; ; dir = filepath.Dir(dir) {
		if declaresModule(filepath.Join(dir, "go.mod")) {
			return dir
		}
		if filepath.Dir(dir) == dir {
			return workingDir
		}
	}
}

func declaresModule(goMod string) bool {
	content, err := os.ReadFile(goMod)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(content), "\n") {
		if fields := strings.Fields(line); len(fields) == 2 && fields[0] == "module" {
			return fields[1] == moduleName
		}
	}
	return false
}
