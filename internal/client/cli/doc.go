// Package cli provides the interactive FishLog command-line client.
//
// It wires configuration, local storage, the platform client and the
// services, then runs a REPL. On start it probes connectivity and
// reconciles the cached session: offline it keeps the last known user,
// online it re-validates the session. A background watcher flips the
// online flag and re-checks the session whenever the platform becomes
// reachable again.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
