package shared

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var projectRootDirectory = GetProjectRootDir()

// ReadFileValueString reads file into val, without the trailing newline. An empty file name
// leaves val unchanged.
func ReadFileValueString(file string, val *string) error {
	content, err := ReadFile(file)
	if err != nil || content == "" {
		return err
	}
	*val = strings.TrimSuffix(content, "\n")
	return nil
}

// ReadFile returns the content of file, resolved with BuildFullFilePath. An empty file name
// reads nothing.
func ReadFile(file string) (string, error) {
	path := BuildFullFilePath(file)
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(content), nil
}

// BuildFullFilePath unquotes filename and resolves it against the project root when relative.
func BuildFullFilePath(filename string) string {
	if unquoted, err := strconv.Unquote(filename); err == nil {
		filename = unquoted
	}
	if filename == "" || filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(projectRootDirectory, filename)
}

// CreateTempFileFromStringData writes contents to a new temporary file and returns its name.
func CreateTempFileFromStringData(namePrefix string, contents string) (string, error) {
	file, err := os.CreateTemp("", namePrefix)
	if err != nil {
		return "", err
	}
	defer file.Close()
	_, err = file.WriteString(contents)
	return file.Name(), err
}
