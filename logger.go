package lambdawrap

import (
	"os"
	"time"

	logevent "github.com/asecurityteam/logevent/v2"
	"github.com/google/uuid"
)

// DefaultLogLevel is used when the configuration source carries no
// log level for the resolved alias.
const DefaultLogLevel = "INFO"

// LoggerBackend constructs the base structured logger. It exists so
// the logging backend is an explicit dependency of the factory
// rather than ambient module state.
type LoggerBackend func(conf logevent.Config) Logger

func defaultLoggerBackend(conf logevent.Config) Logger {
	return logevent.New(conf)
}

// LoggerFactory builds the per-invocation logger. One factory is
// shared by all invocations of a wrapper; every Create call returns
// a fresh logger instance.
type LoggerFactory struct {
	appName string
	backend LoggerBackend
	newID   func() string
	now     func() time.Time
}

// NewLoggerFactory returns a factory bound to the given application
// name and logging backend. A nil backend selects logevent writing
// to stdout.
func NewLoggerFactory(appName string, backend LoggerBackend) (*LoggerFactory, error) {
	if appName == "" {
		return nil, InvalidArgumentError{Name: "appName", Position: 0}
	}
	if backend == nil {
		backend = defaultLoggerBackend
	}
	return &LoggerFactory{
		appName: appName,
		backend: backend,
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}, nil
}

// Create builds the logger for a single invocation. The returned
// logger carries the application name, the lambda name, the resolved
// alias under both the env and alias fields, and a freshly generated
// execution id.
func (f *LoggerFactory) Create(logLevel string, lambdaName string, alias string, start time.Time) (*InvocationLogger, error) {
	if logLevel == "" {
		return nil, InvalidArgumentError{Name: "logLevel", Position: 1}
	}
	if lambdaName == "" {
		return nil, InvalidArgumentError{Name: "lambdaName", Position: 2}
	}
	if start.IsZero() {
		return nil, InvalidArgumentError{Name: "start", Position: 4}
	}
	base := f.backend(logevent.Config{Level: logLevel, Output: os.Stdout})
	base.SetField("app", f.appName)
	base.SetField("lambdaName", lambdaName)
	base.SetField("env", alias)
	base.SetField("alias", alias)
	base.SetField("executionId", f.newID())
	return &InvocationLogger{Logger: base, start: start, now: f.now}, nil
}

// metricEvent is the record shape emitted by Metrics and Timespan.
type metricEvent struct {
	Metric  string  `logevent:"metric"`
	Value   float64 `logevent:"value"`
	Message string  `logevent:"message,default=metric"`
}

// InvocationLogger composes the base structured logger with the two
// derived metric emitters. It holds the invocation start time so
// elapsed-time metrics have a default reference point.
type InvocationLogger struct {
	Logger
	start time.Time
	now   func() time.Time
}

// Metrics emits an informational record merging extra with the
// metric name and value.
func (l *InvocationLogger) Metrics(metric string, value float64, extra map[string]interface{}) {
	l.emit(metric, value, extra)
}

// Timespan emits an elapsed-time metric, in milliseconds, measured
// from the invocation start.
func (l *InvocationLogger) Timespan(metric string, extra map[string]interface{}) {
	l.TimespanSince(metric, l.start, extra)
}

// TimespanSince emits an elapsed-time metric, in milliseconds,
// measured from an explicit reference time.
func (l *InvocationLogger) TimespanSince(metric string, ref time.Time, extra map[string]interface{}) {
	elapsed := float64(l.now().Sub(ref)) / float64(time.Millisecond)
	l.emit(metric, elapsed, extra)
}

func (l *InvocationLogger) emit(metric string, value float64, extra map[string]interface{}) {
	target := l.Logger
	if len(extra) > 0 {
		target = target.Copy()
		for k, v := range extra {
			target.SetField(k, v)
		}
	}
	target.Info(metricEvent{Metric: metric, Value: value})
}
