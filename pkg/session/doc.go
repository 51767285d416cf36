// Package session holds the per-(ref, user) working set: for every pack in
// the manifest, the pending action, the installed and target versions and
// the pages the pack would place.
//
// A pack's action and its auto-selection reason live together in Action so
// an automatic decision always carries a reason and clearing the action
// clears the reason with it.
package session
