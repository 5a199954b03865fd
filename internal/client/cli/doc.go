// Package cli provides the interactive VetClinic command-line client.
//
// It restores the persisted session, keeps the credential fresh in the
// background and runs a REPL over the session commands. Typical flow:
// restore, prompt for credentials when signed out, execute user commands.
//
// Key features:
//   - Login / Register / Logout
//   - Whoami, profile fetch and edit
//   - Password change, recovery and reset
//   - Role and permission checks, role-gated screen list
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartRefreshWatcher, and runREPL for details.
package cli
