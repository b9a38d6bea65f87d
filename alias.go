package lambdawrap

import "strings"

// aliasSegment is the position of the alias qualifier in a fully
// qualified function ARN:
// arn:aws:lambda:{region}:{account}:function:{name}:{qualifier}
const aliasSegment = 7

// UnqualifiedVersion is the qualifier carried by invocations of the
// most recent version of a function. It resolves to the empty alias.
const UnqualifiedVersion = "$LATEST"

// ResolveAlias extracts the alias qualifier from an invoked function
// ARN. Unqualified invocations, and any string too short to carry a
// qualifier, resolve to the empty alias rather than failing.
func ResolveAlias(invokedFunctionArn string) string {
	segments := strings.Split(invokedFunctionArn, ":")
	if len(segments) <= aliasSegment {
		return ""
	}
	if segments[aliasSegment] == UnqualifiedVersion {
		return ""
	}
	return segments[aliasSegment]
}
