// Package registry provides a generic, thread-safe name-to-item registry.
// Command handlers register themselves here under their command name.
package registry
