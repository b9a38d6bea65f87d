package lambdawrap

import (
	"context"
	"time"

	logevent "github.com/asecurityteam/logevent/v2"
	settings "github.com/asecurityteam/settings/v2"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/xstats"
	"github.com/spf13/cast"
)

// KeepWarmKey marks synthetic invocations used to keep an execution
// environment warm. Truthy values short circuit the user handler.
const KeepWarmKey = "__LAMBDA_KEEP_WARM"

// metricExecutionTime is the metric name reported for total
// invocation time.
const metricExecutionTime = "EXECUTION_TIME"

// statExecutionTime is the stat name used when a stat client is
// configured.
const statExecutionTime = "lambda.execution_time"

type keepWarmEvent struct {
	Lambda  string `logevent:"lambda"`
	Message string `logevent:"message,default=keep-warm-invocation-skipped"`
}

type unhandledErrorEvent struct {
	Reason  string `logevent:"reason"`
	Message string `logevent:"message,default=unhandled-error-executing-lambda"`
}

// Option mutates a Wrapper during construction.
type Option func(*Wrapper)

// WithStat installs a metrics client. The guard reports execution
// timing to it and injects it into the invocation context.
func WithStat(stat Stat) Option {
	return func(w *Wrapper) { w.stat = stat }
}

// WithLoggerBackend replaces the structured logging backend used to
// build per-invocation loggers.
func WithLoggerBackend(backend LoggerBackend) Option {
	return func(w *Wrapper) { w.backend = backend }
}

// Wrapper decorates user handlers with the per-invocation
// initialization sequence: alias resolution, configuration lookup,
// logger construction, keep-warm short circuiting, and the panic
// boundary. A single Wrapper is built at startup and reused for
// every handler it wraps.
type Wrapper struct {
	appName string
	source  settings.Source
	backend LoggerBackend
	loggers *LoggerFactory
	stat    Stat
	now     func() time.Time
}

// New returns a Wrapper for the given application. The source is the
// configuration collaborator; it may be nil, in which case every
// lookup falls back to defaults.
func New(appName string, source settings.Source, opts ...Option) (*Wrapper, error) {
	if appName == "" {
		return nil, InvalidArgumentError{Name: "appName", Position: 0}
	}
	w := &Wrapper{
		appName: appName,
		source:  source,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	loggers, err := NewLoggerFactory(appName, w.backend)
	if err != nil {
		return nil, err
	}
	w.loggers = loggers
	return w, nil
}

// Wrap decorates the handler. Argument validation happens here, once,
// rather than on every invocation. The returned handler is reentrant
// and retains no state between invocations.
func (w *Wrapper) Wrap(handler UserHandler, lambdaName string) (WrappedHandler, error) {
	if handler == nil {
		return nil, InvalidArgumentError{Name: "handler", Position: 0}
	}
	if lambdaName == "" {
		return nil, InvalidArgumentError{Name: "lambdaName", Position: 1}
	}
	return func(ctx context.Context, event Event, cb Callback) {
		start := w.now()
		alias := ResolveAlias(invokedFunctionArn(ctx))
		logger, err := w.loggers.Create(logLevel(ctx, w.source, alias), lambdaName, alias, start)
		if err != nil {
			cb(err, nil)
			return
		}
		ctx = logevent.NewContext(ctx, logger.Logger)
		if w.stat != nil {
			ctx = xstats.NewContext(ctx, w.stat)
		}
		if cast.ToBool(event[KeepWarmKey]) {
			logger.Timespan(metricExecutionTime, nil)
			logger.Info(keepWarmEvent{Lambda: lambdaName})
			w.timing(start)
			cb(nil, nil)
			return
		}
		ec := &ExecutionContext{
			Logger: logger,
			Alias:  alias,
			Env:    alias,
			Config: aliasSource(w.source, alias),
		}
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			f := recoveredFailure(r)
			logger.Error(unhandledErrorEvent{Reason: f.detail})
			logger.Timespan(metricExecutionTime, nil)
			w.timing(start)
			cb(UnhandledHandlerError{Cause: f.cause, Detail: f.detail}, nil)
		}()
		handler(ctx, event, cb, ec)
	}, nil
}

func (w *Wrapper) timing(start time.Time) {
	if w.stat == nil {
		return
	}
	w.stat.Timing(statExecutionTime, w.now().Sub(start))
}

func invokedFunctionArn(ctx context.Context) string {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok || lc == nil {
		return ""
	}
	return lc.InvokedFunctionArn
}
