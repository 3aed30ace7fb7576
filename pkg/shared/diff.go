package shared

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffLines returns a unified diff of two lists, one value per line, prefixed with a newline.
// Equal lists give an empty string.
func DiffLines(a []string, b []string, aName string, bName string) string {
	if strings.Join(a, "\n") == strings.Join(b, "\n") && len(a) == len(b) {
		return ""
	}
	res, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(a),
		B:        lines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  1,
	})
	if err != nil {
		return fmt.Sprintf("diff failed: %v", err)
	}
	return "\n" + res
}

func lines(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, v+"\n")
	}
	return result
}
