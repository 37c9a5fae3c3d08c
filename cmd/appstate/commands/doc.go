// Package commands defines the appstate CLI and wires dependencies for subcommands.
//
// Commands
//
//   - get [setting]           Print one setting, or all of them
//   - set <setting> <value>   Write a setting (dark-mode, language, session)
//   - reset <setting>         Restore a setting's default, or clear it
//   - login                   Sign in with --token or --email/--password
//   - logout                  Clear the stored session
//   - whoami                  Print the signed-in user, revalidating the token
//   - gate <path>             Show where the session gate sends a location
//   - watch                   Stream setting changes, redirects and notices
//
// # Implementation
//
// The root command loads <home>/appstate.toml, builds a dependency graph
// (backends, typed stores, services, API client) and waits for the stores
// to hydrate before any subcommand runs. Structured output is available
// with -o yaml or -o json.
package commands
