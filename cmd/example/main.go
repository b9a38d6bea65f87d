package main

// This example demonstrates how wrapped handlers are exposed through
// the local HTTP API using the static fetcher and direct imports of
// the functions.

import (
	"context"
	"fmt"
	"os"

	settings "github.com/asecurityteam/settings/v2"
	lambdawrap "github.com/serverlesskit/lambdawrap"
)

// hello ignores its input entirely.
// This can be called like:
//
//	curl --request POST localhost:8080/2015-03-31/functions/hello/invocations
func hello(ctx context.Context, event lambdawrap.Event, cb lambdawrap.Callback, ec *lambdawrap.ExecutionContext) {
	ec.Logger.Metrics("hello.invoked", 1, nil)
	cb(nil, "Hello ƛ!")
}

// greet is an added example to show how the execution context behaves.
// This can be called like:
//
//	curl --request POST --data '{"name": "me"}' 'localhost:8080/2015-03-31/functions/greet/invocations?Qualifier=staging'
//
// The Qualifier parameter may be varied to observe alias resolution.
func greet(ctx context.Context, event lambdawrap.Event, cb lambdawrap.Callback, ec *lambdawrap.ExecutionContext) {
	name, _ := event["name"].(string)
	if name == "" {
		name = "ƛ"
	}
	greeting := fmt.Sprintf("Hello %s!", name)
	if ec.Alias != "" {
		greeting = fmt.Sprintf("Hello %s from %s!", name, ec.Alias)
	}
	cb(nil, map[string]string{"greeting": greeting})
}

func main() {
	ctx := context.Background()
	source, err := settings.NewEnvSource(os.Environ())
	if err != nil {
		panic(err.Error())
	}

	wrapper, err := lambdawrap.New("example", source)
	if err != nil {
		panic(err.Error())
	}
	fetcher, err := lambdawrap.NewStaticFetcher(wrapper, map[string]lambdawrap.UserHandler{
		// The keys of this map represent the function name and will be
		// accessed using the URL parameter of the Invoke API call. They
		// also become the lambdaName field on every log line the
		// function emits.
		"hello": hello,
		"greet": greet,
	})
	if err != nil {
		panic(err.Error())
	}

	if err := lambdawrap.Start(ctx, source, fetcher); err != nil {
		panic(err.Error())
	}
}
