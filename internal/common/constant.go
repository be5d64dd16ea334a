// Package common holds identifiers and header names shared by the client
// packages.
package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Headers understood by the hosted platform's REST API.
const (
	ProjectHeaderName  = "X-Appwrite-Project"
	SessionHeaderName  = "X-Appwrite-Session"
	FallbackCookieName = "X-Fallback-Cookies"
)

// NewID returns a fresh identifier for accounts and documents.
// The platform accepts at most 36 characters, which a UUID fits exactly.
func NewID() string {
	return uuid.NewString()
}

// PhotoKey builds an object key for a catch photo uploaded at t.
func PhotoKey(userID string, t time.Time) string {
	return fmt.Sprintf("catches/%s/%d/%02d/%02d/%s", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

// AvatarKey builds an object key for a group avatar.
func AvatarKey(groupID string) string {
	return fmt.Sprintf("groups/%s/avatar-%s", groupID, uuid.New())
}
