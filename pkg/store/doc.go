// Package store persists session states keyed by (ref, user) and
// serializes access to each session.
//
// Stores hand out and keep private copies: mutating a loaded state has no
// effect until it is saved. Locker gives one writer at a time per session;
// callers hold it across load, mutate and save.
package store
