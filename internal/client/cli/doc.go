// Package cli provides the interactive Pass-Manager command-line client.
//
// It wires configuration, the REST client and an interactive REPL. After a
// successful register or login a background session watcher polls the
// server, counts the remaining session time down locally, warns when less
// than two minutes are left and logs the user out when the session ends.
//
// Key features:
//   - Register / Login / Logout
//   - List, add, show (decrypt), update and delete vault entries
//   - Verify the master password, show the session and profile
//   - Export the encrypted vault and optionally save a local copy
//
// The master password is asked for whenever it is needed and is never kept.
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
