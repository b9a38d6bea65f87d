package lambdawrap

import (
	"context"

	settings "github.com/asecurityteam/settings/v2"
	"github.com/spf13/cast"
)

// aliasSource returns the view of the configuration namespaced by
// the resolved alias. The empty alias reads from the root namespace.
func aliasSource(s settings.Source, alias string) settings.Source {
	if s == nil || alias == "" {
		return s
	}
	return &settings.PrefixSource{Source: s, Prefix: []string{alias}}
}

// logLevel reads the log section of the alias namespace. Missing or
// empty values fall back to DefaultLogLevel rather than failing.
func logLevel(ctx context.Context, s settings.Source, alias string) string {
	scoped := aliasSource(s, alias)
	if scoped == nil {
		return DefaultLogLevel
	}
	v, ok := scoped.Get(ctx, "log", "level")
	if !ok || v == nil {
		return DefaultLogLevel
	}
	level := cast.ToString(v)
	if level == "" {
		return DefaultLogLevel
	}
	return level
}
