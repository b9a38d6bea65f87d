// Package lambdawrap decorates serverless function handlers with the
// per-invocation initialization every function in a deployment needs:
// resolving the environment alias from the invoked function ARN,
// reading alias-scoped configuration, building an invocation-scoped
// structured logger, short circuiting synthetic keep-warm events, and
// converting handler panics into well-formed callback errors.
package lambdawrap
