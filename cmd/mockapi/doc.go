// Package main runs the in-memory auth backend used by appstate during
// development and tests. It issues bearer tokens and answers profile lookups,
// which is enough to drive sign-in and the expired-session path.
//
// HTTP API
//
//	POST /auth/login { "email": "...", "password": "..." }
//	    Issue a new token. Any well-formed email with a non-empty password is
//	    accepted; the user ID is derived from the email so it is stable.
//	    Responds { "token": "...", "user": { "id", "email", "name" } }.
//
//	GET /me
//	    Return the user for the bearer token in the Authorization header.
//	    Missing, unknown or revoked tokens get 401.
//
//	POST /auth/expire
//	    Revoke every issued token. The next authenticated call from a client
//	    returns 401, which signs the client out.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Responses are JSON. Non-2xx statuses carry a short error message.
//   - An access log records method, path, status and duration per request.
//   - The default listen address is :8081.
package main
