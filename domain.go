package lambdawrap

import (
	"context"
	"fmt"

	"github.com/asecurityteam/runhttp"
	settings "github.com/asecurityteam/settings/v2"
	"github.com/aws/aws-lambda-go/lambda"
)

// Logger is an alias for the chosen project logging library
// which is, currently, logevent. All references in the project
// should be to this name rather than logevent directly.
type Logger = runhttp.Logger

// LogFn extracts a logger from the context.
type LogFn = runhttp.LogFn

// Stat is an alias for the chosen project metrics library
// which is, currently, xstats. All references in the project
// should be to this name rather than xstats directly.
type Stat = runhttp.Stat

// StatFn extracts a metrics client from the context.
type StatFn = runhttp.StatFn

// Event is the invocation payload. Only the keep-warm marker key
// is interpreted by this project; everything else passes through
// to the user handler untouched.
type Event map[string]interface{}

// Callback completes an invocation. It is invoked with a non-nil
// error to mark the invocation as failed or with a nil error and
// an optional result to mark it as successful.
type Callback func(err error, result interface{})

// UserHandler is the signature of the function being wrapped. The
// final argument carries the per-invocation values derived by the
// wrapper. The context carries the invocation deadline and identity
// from the lambda SDK as well as the injected logger and stat client.
type UserHandler func(ctx context.Context, event Event, cb Callback, ec *ExecutionContext)

// WrappedHandler is the guarded form of a UserHandler produced by
// Wrapper.Wrap. The invocation identity is read from the
// lambdacontext values on the context.
type WrappedHandler func(ctx context.Context, event Event, cb Callback)

// ExecutionContext is the bundle of per-invocation values handed to
// the user handler. A fresh instance is allocated for every
// invocation and never shared.
type ExecutionContext struct {
	// Logger is the invocation-scoped structured logger.
	Logger *InvocationLogger
	// Alias is the environment qualifier resolved from the invoked
	// function ARN. Empty when the invocation was unqualified.
	Alias string
	// Env carries the same value as Alias.
	//
	// Deprecated: Env exists for callers that predate the Alias
	// naming. New code should read Alias.
	Env string
	// Config is the configuration source scoped to the resolved
	// alias namespace. Nil when the wrapper was built without a
	// source.
	Config settings.Source
}

// Function is an executable lambda function. This extends
// the official lambda SDK concept of a Handler in order to
// also provide the underlying function signature which is
// usually masked when converting any function to a lambda.Handler.
type Function interface {
	lambda.Handler
	Source() interface{}
}

// URLParamFn should be accepted by HTTP handlers that need
// to interface with the mux in use in order to extract request
// parameters from the URL. This defines the contract between
// any given mux and a handler so that the two do not need to
// be coupled.
type URLParamFn func(ctx context.Context, name string) string

// Fetcher is a pluggable component that enables different
// loading strategies for functions.
type Fetcher interface {
	// Fetch uses some implementation of a loading strategy
	// to fetch the Function with the given name. If a matching
	// Function cannot be found then this component must emit a
	// NotFoundError.
	Fetch(ctx context.Context, name string) (Function, error)
}

// NotFoundError represents a failed lookup for a resource.
type NotFoundError struct {
	// ID is the key used when looking for the resource.
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("resource (%s) not found", e.ID)
}
