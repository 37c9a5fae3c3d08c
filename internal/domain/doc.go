// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (settings, session, routes) and contracts
// (backends, services, collaborators) only.
package domain
