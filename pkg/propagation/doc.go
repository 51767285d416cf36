// Package propagation keeps a session's pack actions consistent with the
// manifest's dependency graph.
//
// Install and update decisions flow down to the packs a pack depends on;
// removals flow up to installed packs that would otherwise be orphaned.
// Every action the engine sets is automatic and carries a reason, and
// automatic actions no manual decision still needs can be retracted. Manual
// actions are never overwritten.
//
// All traversals carry a visited set, so cyclic manifests terminate.
package propagation
