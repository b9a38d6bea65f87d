package lambdawrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/asecurityteam/runhttp"
	settings "github.com/asecurityteam/settings/v2"
	"github.com/aws/aws-lambda-go/lambda"
)

const (
	// BuildModeHTTP is the standard local mode of running an HTTP
	// server that implements parts of the Lambda API.
	BuildModeHTTP = "http"
	// BuildModeLambda runs the official lambda server using the lambda
	// SDK. Using this mode requires the TargetFunction value to be set.
	BuildModeLambda = "lambda"
)

var (
	// BuildMode determines the behavior of the Start method. The
	// suggested way to set this is through build variables by adding
	// `-ldflags "-X github.com/serverlesskit/lambdawrap.BuildMode=<value>"`
	// to `go build` or `go run` commands. If you want to use environment
	// variables instead then you can set this variable in code before
	// calling Start like `lambdawrap.BuildMode = os.Getenv("MYENVVAR")`.
	//
	// Alternatively, the StartMode() method may be used if you prefer to
	// pass in parameters via code rather than toggling the global setting.
	BuildMode = BuildModeHTTP
	// TargetFunction is used when building in native lambda mode to select
	// the single function to run. This value can be set in all the same
	// ways as the BuildMode value.
	TargetFunction = ""
)

// settingsPrefix is the namespace under which the runtime reads its
// own server settings from the source.
var settingsPrefix = []string{"lambdawrap"}

// Start is a replacement for the lambda.Start method. By default this
// method will start the local lambda HTTP API and will invoke
// functions loaded through the given Fetcher.
func Start(ctx context.Context, s settings.Source, f Fetcher) error {
	return StartMode(ctx, s, f, BuildMode, TargetFunction)
}

// StartMode works just like Start but allows for explicit passing of
// the build mode and target function.
func StartMode(ctx context.Context, s settings.Source, f Fetcher, mode string, target string) error {
	switch {
	case strings.EqualFold(mode, BuildModeHTTP):
		return StartHTTP(ctx, s, f)
	case strings.EqualFold(mode, BuildModeLambda):
		return StartLambda(ctx, f, target)
	default:
		return fmt.Errorf("unknown build mode %s", mode)
	}
}

func newHTTPRuntime(ctx context.Context, s settings.Source, f Fetcher) (*runhttp.Runtime, error) {
	conf := &RouterConfig{
		Fetcher: f,
	}
	router := NewRouter(conf)
	rtC := &runhttp.Component{Handler: router}
	rt := new(runhttp.Runtime)
	err := settings.NewComponent(
		ctx,
		&settings.PrefixSource{Source: s, Prefix: settingsPrefix},
		rtC,
		rt,
	)
	return rt, err
}

// StartHTTP runs the local HTTP API.
func StartHTTP(ctx context.Context, s settings.Source, f Fetcher) error {
	rt, err := newHTTPRuntime(ctx, s, f)
	if err != nil {
		return err
	}
	return rt.Run()
}

// StartLambda runs the named function on the official lambda server.
func StartLambda(ctx context.Context, f Fetcher, target string) error {
	fn, err := f.Fetch(ctx, target)
	if err != nil {
		return err
	}
	lambda.StartHandlerWithContext(ctx, fn)
	return nil
}
