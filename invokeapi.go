package lambdawrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

const (
	invocationTypeHeader          = "X-Amz-Invocation-Type"
	invocationTypeRequestResponse = "RequestResponse"
	invocationTypeEvent           = "Event"
	invocationTypeDryRun          = "DryRun"
	invocationVersionHeader       = "X-Amz-Executed-Version"
	invocationErrorHeader         = "X-Amz-Function-Error"
	invocationErrorTypeHandled    = "Handled"
	invocationErrorTypeUnhandled  = "Unhandled"
	invocationQualifierParam      = "Qualifier"
)

// localArnPrefix is the synthetic ARN base used for invocations that
// arrive through the local API rather than the real runtime. The
// qualifier segment is appended when the request names one so that
// alias resolution behaves exactly as it would in production.
const localArnPrefix = "arn:aws:lambda:local:000000000000:function"

func localFunctionArn(name string, qualifier string) string {
	if qualifier == "" {
		return fmt.Sprintf("%s:%s", localArnPrefix, name)
	}
	return fmt.Sprintf("%s:%s:%s", localArnPrefix, name, qualifier)
}

// bgContext is used to detach the *http.Request context from the http.Handler
// lifecycle. Typically, the request context is canceled when the handler returns.
// This is problematic when using the request context to share request scoped
// elements, such as the logger or stat client, with background tasks that will
// execute after the handler returns. This resolves that issue by keeping a
// reference to the request context and using it to lookup values but replacing
// all other context.Context methods with the context.Background() implementation.
// The result is a valid context.Context that will not expire when the source
// http.Handler returns but will maintain all context values.
type bgContext struct {
	context.Context
	Values context.Context
}

func (c *bgContext) Value(key interface{}) interface{} {
	return c.Values.Value(key)
}

// lambdaError implements the common Lambda error response
// JSON object that is included as the response body for
// exception cases.
type lambdaError struct {
	Message    string   `json:"errorMessage"`
	Type       string   `json:"errorType"`
	StackTrace []string `json:"stackTrace"`
}

type invokeErrorEvent struct {
	Lambda  string `logevent:"lambda"`
	Reason  string `logevent:"reason"`
	Message string `logevent:"message,default=invocation-failed"`
}

// Invoke implements the API of the same name from the AWS Lambda API.
// https://docs.aws.amazon.com/lambda/latest/dg/API_Invoke.html
//
// Differences from the hosted API:
//
//   - The "Tail" option for the LogType header does not cause the
//     response to include partial logs.
//
//   - The "Qualifier" parameter does not select a different build of
//     the function. It is folded into the synthetic invoked function
//     ARN so that alias resolution and alias-scoped configuration see
//     the requested qualifier.
//
//   - The "Function-Error" header reports Unhandled only for errors
//     that crossed the panic boundary.
type Invoke struct {
	LogFn      LogFn
	StatFn     StatFn
	URLParamFn URLParamFn
	Fetcher    Fetcher
}

func (h *Invoke) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fnName := h.URLParamFn(r.Context(), "functionName")
	fn, errFn := h.Fetcher.Fetch(r.Context(), fnName)
	switch errFn.(type) {
	case nil:
		break
	case NotFoundError:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(responseFromError(errFn))
		return
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(responseFromError(errFn))
		return
	}
	fnType := r.Header.Get(invocationTypeHeader)
	if fnType == "" {
		fnType = invocationTypeRequestResponse // This is the default value in AWS.
	}
	qualifier := r.URL.Query().Get(invocationQualifierParam)
	ctx := lambdacontext.NewContext(r.Context(), &lambdacontext.LambdaContext{
		AwsRequestID:       uuid.New().String(),
		InvokedFunctionArn: localFunctionArn(fnName, qualifier),
	})
	b, errRead := io.ReadAll(r.Body)
	if errRead != nil {
		w.WriteHeader(http.StatusBadRequest) // Matches JSON parsing errors for the body
		_ = json.NewEncoder(w).Encode(responseFromError(errRead))
		return
	}
	executedVersion := qualifier
	if executedVersion == "" {
		executedVersion = "latest"
	}
	w.Header().Set(invocationVersionHeader, executedVersion)
	switch fnType {
	case invocationTypeDryRun:
		w.WriteHeader(http.StatusNoContent)
		return
	case invocationTypeEvent:
		ctx = &bgContext{Context: context.Background(), Values: ctx}
		go func() { _, _ = fn.Invoke(ctx, b) }()
		w.WriteHeader(http.StatusAccepted)
	case invocationTypeRequestResponse:
		rb, errInvoke := fn.Invoke(ctx, b)
		statusCode := statusFromError(errInvoke)
		if statusCode > 299 {
			w.Header().Set(invocationErrorHeader, invocationErrorTypeHandled)
		}
		var unhandled UnhandledHandlerError
		if errors.As(errInvoke, &unhandled) {
			w.Header().Set(invocationErrorHeader, invocationErrorTypeUnhandled)
		}
		w.WriteHeader(statusCode)
		if errInvoke != nil {
			h.LogFn(r.Context()).Error(invokeErrorEvent{
				Lambda: fnName,
				Reason: errInvoke.Error(),
			})
			rb, _ = json.Marshal(responseFromError(errInvoke))
		}
		if len(rb) > 0 {
			_, _ = w.Write(rb)
		}
	default:
		w.WriteHeader(http.StatusBadRequest) // Matches the InvalidParameterValueException code
		_ = json.NewEncoder(w).Encode(lambdaError{
			Message:    fmt.Sprintf("InvocationType %s not valid", fnType),
			Type:       "InvalidParameterValueException",
			StackTrace: errResponseStackTrace,
		})
		return
	}
}

// errResponseStackTrace is used to populate the stackTrace attribute of a Lambda
// error. We don't, currently, extract an actual stack trace so we reuse this
// element each time to avoid recreating an empty slice each time.
var errResponseStackTrace = []string{}

func responseFromError(err error) lambdaError {
	errType := reflect.TypeOf(err)
	errTypeName := errType.Name()
	if errType.Kind() == reflect.Ptr {
		errTypeName = errType.Elem().Name()
	}
	return lambdaError{
		Message:    err.Error(),
		Type:       errTypeName,
		StackTrace: errResponseStackTrace,
	}
}

func statusFromError(err error) int {
	switch err.(type) {
	case nil:
		return http.StatusOK
	case *json.InvalidUTF8Error: // nolint
		return http.StatusBadRequest
	case *json.InvalidUnmarshalError:
		return http.StatusBadRequest
	case *json.UnmarshalFieldError: // nolint
		return http.StatusBadRequest
	case *json.UnmarshalTypeError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
