// Package preferences propagates the dark-mode and locale settings.
package preferences
