// Package cli provides the interactive HomeQuote terminal client.
//
// It wires configuration, the local SQLite cache, the REST API client, the
// session store, the realtime channel, and an interactive REPL. Typical
// flow: restore the persisted session at startup, connect the realtime
// channel when authenticated, and execute user commands.
//
// Key features:
//   - Login / Register / Logout with an optional stay-logged-in flag
//   - Quotes and inspections screens backed by the local cache
//   - Conversations: list, read, and send messages
//   - Time slots: view offered windows grouped by day and accept one
//   - Profile and consent management
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL, and the per-command files for details.
package cli
