package hooks

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/onsi/gomega"
)

type ctxKey string

func TestAttachers(t *testing.T) {
	g := gomega.NewWithT(t)
	attachment := Attachment{Name: "failure-1.png", MediaType: MediaTypePNG, Body: png}
	diskErr := goerrors.New("disk full")

	var seen []string
	first := AttacherFunc(func(ctx context.Context, a Attachment) (context.Context, error) {
		seen = append(seen, "first")
		return context.WithValue(ctx, ctxKey("attached"), a.Name), nil
	})
	failing := AttacherFunc(func(ctx context.Context, a Attachment) (context.Context, error) {
		seen = append(seen, "failing")
		return nil, diskErr
	})
	last := AttacherFunc(func(ctx context.Context, a Attachment) (context.Context, error) {
		seen = append(seen, "last")
		return ctx, nil
	})

	ctx, err := Attachers{first, failing, last}.Attach(context.Background(), attachment)
	g.Expect(err).To(gomega.MatchError(diskErr))
	g.Expect(seen).To(gomega.Equal([]string{"first", "failing", "last"}))
	g.Expect(ctx.Value(ctxKey("attached"))).To(gomega.Equal("failure-1.png"))
}

func TestAttachment_Base64(t *testing.T) {
	g := gomega.NewWithT(t)
	a := Attachment{Body: []byte("hello")}
	g.Expect(a.Base64()).To(gomega.Equal("aGVsbG8="))
}

func TestStepOutcome_String(t *testing.T) {
	g := gomega.NewWithT(t)
	g.Expect(Failed.String()).To(gomega.Equal("failed"))
	g.Expect(Ambiguous.String()).To(gomega.Equal("ambiguous"))
	g.Expect(StepOutcome(99).String()).To(gomega.Equal("unknown"))
}

func Test_slug(t *testing.T) {
	g := gomega.NewWithT(t)
	g.Expect(slug("Remove 'Sauce Labs Onesie' from cart")).To(gomega.Equal("remove-sauce-labs-onesie-from-cart"))
	g.Expect(slug("")).To(gomega.Equal("scenario"))
}
