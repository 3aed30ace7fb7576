package hooks

import (
	"context"
	"encoding/base64"
)

// StepOutcome is the result of a step as reported by the step-execution engine.
type StepOutcome int

const (
	Passed StepOutcome = iota
	Failed
	Skipped
	Pending
	Undefined
	Ambiguous
)

func (o StepOutcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case Pending:
		return "pending"
	case Undefined:
		return "undefined"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

const MediaTypePNG = "image/png"

// Attachment is a diagnostic handed to the reporting side, such as a failure screenshot.
type Attachment struct {
	Name      string
	MediaType string
	Body      []byte
}

// Base64 returns the body encoded for transport in text reports.
func (a Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Body)
}

// Attacher delivers attachments to a report. It may return a derived context carrying the
// attachment.
type Attacher interface {
	Attach(ctx context.Context, attachment Attachment) (context.Context, error)
}

// AttacherFunc adapts a function to Attacher.
type AttacherFunc func(ctx context.Context, attachment Attachment) (context.Context, error)

func (f AttacherFunc) Attach(ctx context.Context, attachment Attachment) (context.Context, error) {
	return f(ctx, attachment)
}

// Attachers delivers an attachment to each attacher in turn. Every attacher is tried; the first
// error is returned.
type Attachers []Attacher

func (a Attachers) Attach(ctx context.Context, attachment Attachment) (context.Context, error) {
	var firstErr error
	for _, attacher := range a {
		next, err := attacher.Attach(ctx, attachment)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if next != nil {
			ctx = next
		}
	}
	return ctx, firstErr
}
