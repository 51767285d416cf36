// Package handlers implements the session commands: set_pack_action,
// set_page_title, init and clear.
//
// Every handler validates its whole request against the state it is given
// before changing anything, then applies the change to a clone of that
// state. On error the caller's state is untouched and nothing should be
// saved; on success the returned Result carries the new state.
//
// Handlers register themselves under their command name; Lookup resolves a
// command to its handler.
package handlers
