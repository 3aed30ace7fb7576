package steps

import (
	"bytes"
	"testing"

	"github.com/onsi/gomega"
)

func TestList(t *testing.T) {
	g := gomega.NewWithT(t)

	buf := &bytes.Buffer{}
	List(buf)

	g.Expect(buf.String()).To(gomega.And(
		gomega.ContainSubstring("the user is on the login page"),
		gomega.ContainSubstring("to the cart"),
		gomega.ContainSubstring("I take the screenshot of landing page"),
		gomega.ContainSubstring("I store"),
	))
}
