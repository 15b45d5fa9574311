// Package apiclient is the thin HTTP client shared by the worker agent
// and the command-line tools. It knows the wire shapes from httpapi's
// views and nothing else: no retry policy, no lease semantics — those
// belong to workeragent and lifecycle respectively.
package apiclient
