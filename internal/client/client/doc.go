// Package client talks to the hosted backend platform and bootstraps local
// persistence.
//
// # Overview
//
//  1. Client is the account surface the session flow depends on: account
//     creation, email/password sessions, the current session probe,
//     preference reads and writes, logout and a liveness ping.
//  2. Documents is the document-database surface used by the catch log.
//  3. HTTPClient implements both over the platform's REST API. It carries
//     the project header, captures the session secret when a session is
//     created, and (with WithSecretStore) keeps it across restarts.
//  4. InitDatabase and RunMigrations open the local SQLite file and apply
//     the embedded goose migrations.
//
// # Error Handling
//
// Transport failures, a truncated response body among them, wrap
// ErrUnavailable and autherr.ErrNetwork together with the underlying error.
// Non-2xx responses are returned as *APIError, which exposes its status code
// and type tag to the autherr classifier and matches ErrUnauthorized,
// ErrNotFound and ErrUnavailable through errors.Is.
// GetSession reports a missing or expired session as ErrNoSession.
package client
