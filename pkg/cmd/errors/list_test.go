package errors

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/gomega"

	svcErr "github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/errors"
)

func TestList(t *testing.T) {
	g := gomega.NewWithT(t)

	list := List()
	g.Expect(list).To(gomega.HaveLen(len(svcErr.Errors())))
	g.Expect(list[0]).To(gomega.Equal(Error{Code: "STOREFRONT-E2E-1", Reason: svcErr.ErrorSetupReason}))

	for _, err := range list {
		if err.Code == svcErr.CodeStr(svcErr.ErrorDiagnosticCapture) || err.Code == svcErr.CodeStr(svcErr.ErrorTeardown) {
			g.Expect(err.Absorbed).To(gomega.BeTrue(), err.Code)
		} else {
			g.Expect(err.Absorbed).To(gomega.BeFalse(), err.Code)
		}
	}

	buf := &bytes.Buffer{}
	Render(buf, list)
	g.Expect(buf.String()).To(gomega.ContainSubstring("STOREFRONT-E2E-11"))
	g.Expect(buf.String()).To(gomega.ContainSubstring(svcErr.ErrorUnknownPageReason))
}

func TestListCommand_SaveToFile(t *testing.T) {
	g := gomega.NewWithT(t)
	path := filepath.Join(t.TempDir(), "errors.json")

	cmd := NewErrorsCommand()
	cmd.SetArgs([]string{"list", "--" + FlagsSaveToFile, path})
	g.Expect(cmd.Execute()).To(gomega.Succeed())

	content, err := os.ReadFile(path)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	var saved []Error
	g.Expect(json.Unmarshal(content, &saved)).To(gomega.Succeed())
	g.Expect(saved).To(gomega.Equal(List()))
}
