package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"
)

type LoggerKeys string

const (
	RunIDKey    LoggerKeys = "RunID"
	ScenarioKey LoggerKeys = "Scenario"
	StepKey     LoggerKeys = "Step"
	BrowserKey  LoggerKeys = "Browser"
)

type Logger interface {
	V(level int32) Logger
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Error(err error)
	Fatalf(format string, args ...interface{})
}

// Log is a logger with a background context
var Log = NewLogger(context.Background())
var _ Logger = &logger{}

type logger struct {
	context   context.Context
	level     int32
	sentryHub *sentry.Hub
}

// NewLogger creates a new logger instance with a default verbosity of 1. The run id, scenario
// name and step text found in ctx prefix every message.
func NewLogger(ctx context.Context) Logger {
	return &logger{
		context:   ctx,
		level:     1,
		sentryHub: sentry.GetHubFromContext(ctx),
	}
}

// WithRunID returns a copy of ctx carrying the run id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithBrowser returns a copy of ctx carrying the browser engine name.
func WithBrowser(ctx context.Context, engine string) context.Context {
	return context.WithValue(ctx, BrowserKey, engine)
}

// WithScenario returns a copy of ctx carrying the scenario name.
func WithScenario(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ScenarioKey, name)
}

// WithStep returns a copy of ctx carrying the step text.
func WithStep(ctx context.Context, text string) context.Context {
	return context.WithValue(ctx, StepKey, text)
}

func (l *logger) prepareLogPrefix(format string, args ...interface{}) string {
	orig := fmt.Sprintf(format, args...)
	prefix := ""

	if runID, ok := l.context.Value(RunIDKey).(string); ok {
		prefix = strings.Join([]string{prefix, "run='", runID, "' "}, "")
	}

	if browser, ok := l.context.Value(BrowserKey).(string); ok {
		prefix = strings.Join([]string{prefix, "browser='", browser, "' "}, "")
	}

	if scenario, ok := l.context.Value(ScenarioKey).(string); ok {
		prefix = strings.Join([]string{prefix, "scenario='", scenario, "' "}, "")
	}

	if step, ok := l.context.Value(StepKey).(string); ok {
		prefix = strings.Join([]string{prefix, "step='", step, "' "}, "")
	}

	return prefix + orig
}

func (l *logger) V(level int32) Logger {
	return &logger{
		context:   l.context,
		level:     level,
		sentryHub: l.sentryHub,
	}
}

func (l *logger) Infof(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.V(glog.Level(l.level)).Infoln(prefixed)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.Warningln(prefixed)
	l.captureSentryEvent(sentry.LevelWarning, prefixed)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.Errorln(prefixed)
	l.captureSentryEvent(sentry.LevelError, prefixed)
}

func (l *logger) Error(err error) {
	glog.Error(l.prepareLogPrefix("%v", err))
	if l.sentryHub == nil {
		sentry.CaptureException(err)
		return
	}
	l.sentryHub.CaptureException(err)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	l.captureSentryEvent(sentry.LevelFatal, prefixed)
	glog.Fatalln(prefixed)
}

func (l *logger) captureSentryEvent(level sentry.Level, message string) {
	event := sentry.NewEvent()
	event.Level = level
	event.Message = message
	if l.sentryHub == nil {
		sentry.CaptureEvent(event)
		return
	}
	l.sentryHub.CaptureEvent(event)
}
