package lambdawrap

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
)

// LambdaFunction is a small wrapper around the lambda.Handler
// that preserves the original signature of the function for later
// retrieval.
type LambdaFunction struct {
	lambda.Handler
	source interface{}
}

// Source returns the original function signature.
func (f *LambdaFunction) Source() interface{} {
	return f.source
}

// NewFunction is a replacement for lambda.NewHandler that returns
// a Function.
func NewFunction(v interface{}) Function {
	return &LambdaFunction{
		Handler: lambda.NewHandler(v),
		source:  v,
	}
}

// Function wraps the handler with the invocation guard and adapts
// the callback contract to the official SDK handler shape so the
// result can be served by lambda.StartHandlerWithContext or by the
// local invoke API. The adapter records only the first callback
// invocation; the user handler must complete synchronously for its
// result to be observed.
func (w *Wrapper) Function(handler UserHandler, lambdaName string) (Function, error) {
	wrapped, err := w.Wrap(handler, lambdaName)
	if err != nil {
		return nil, err
	}
	return NewFunction(func(ctx context.Context, event Event) (interface{}, error) {
		var (
			res    interface{}
			errOut error
			done   bool
		)
		wrapped(ctx, event, func(err error, result interface{}) {
			if done {
				return
			}
			done = true
			errOut = err
			res = result
		})
		return res, errOut
	}), nil
}
