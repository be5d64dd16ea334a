// Package models defines the client-side data types of FishLog: the remote
// account and session, the locally cached user with its preferences, and
// the platform documents (catches, groups, events, comments).
package models
