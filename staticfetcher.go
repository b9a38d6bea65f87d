package lambdawrap

import (
	"context"
)

// StaticFetcher is an implementation of the Fetcher that maintains a
// static mapping of names to Function instances. Runtimes built on
// this implementation resolve every invocation in process, so updates
// to the set of functions require a new build and deployment rather
// than any live update machinery.
type StaticFetcher struct {
	// Functions is the underlying static map of function names to
	// executable functions. The keys of the map will be used as the
	// name of the Function.
	Functions map[string]Function
}

// Fetch resolves the name using the internal mapping.
func (f *StaticFetcher) Fetch(ctx context.Context, name string) (Function, error) {
	h, ok := f.Functions[name]
	if !ok {
		return nil, NotFoundError{ID: name}
	}
	return h, nil
}

// NewStaticFetcher wraps each handler with the given Wrapper and
// exposes the results under their lambda names. The map keys double
// as the lambda name carried by each invocation logger.
func NewStaticFetcher(w *Wrapper, handlers map[string]UserHandler) (*StaticFetcher, error) {
	fns := make(map[string]Function, len(handlers))
	for name, h := range handlers {
		fn, err := w.Function(h, name)
		if err != nil {
			return nil, err
		}
		fns[name] = fn
	}
	return &StaticFetcher{Functions: fns}, nil
}
