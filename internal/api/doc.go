// Package api provides an HTTP implementation of the domain.AuthClient
// interface.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. A 401 on a request carrying a bearer token invokes the
// OnUnauthorized hook, which the application wires to session expiry.
// Non-2xx statuses are returned as errors with the HTTP method, full URL,
// and status text to aid diagnostics.
package api
