// Package httpapi is the coordinator's wire surface: a chi router that
// parses requests, calls into lifecycle.Service, and shapes responses
// per the wire contract. It owns exactly one additional policy beyond
// the service — bearer-token authentication — and the mapping from
// deborgen's sentinel errors to HTTP status codes and detail strings.
package httpapi
