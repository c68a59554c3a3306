// Package cli provides the interactive DupliVerse command-line client.
//
// It wires configuration, the local sqlite cache, the session provider, the
// profile sync store, and the background sync scheduler into an interactive
// REPL. Typical flow: restore cached state for a warm start, start the
// scheduler, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - Show and edit the profile (username, preferences, wallet)
//   - Force a sync, inspect sync status
//   - Simulate foreground/background transitions
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Root, and runREPL for details.
package cli
